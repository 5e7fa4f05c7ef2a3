// Package services wraps the HTTP APIs echoplay talks to.
//
// [YouTubeService] queries the YouTube Data API v3 and normalizes results into [models.Track]
// values using the title and channel heuristics in metadata.go. [APIService] is a raw JSON client
// used by the remote document store gateway to talk to an `echoplay serve` instance.
//
// Search requests are rate limited with [rate.Limiter] and never retried: a failure surfaces to
// the caller wrapped in [shared.ErrSearchFailed].
package services
