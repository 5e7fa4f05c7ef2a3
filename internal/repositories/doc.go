// Package repositories implements SQLite persistence for the echoplay document store.
//
// Key Implementations:
//   - [UserRepository] : identities returned by auth providers
//   - [SessionRepository] : persisted sign-ins
//   - [LibraryRepository] : the per-user document holding liked songs and recently played
//   - [PlaylistRepository] : per-playlist documents with soft delete
//   - [ShareRepository] : write-once liked-songs snapshots
//
// Track collections are stored as JSON arrays so each document reads and writes as one unit,
// mirroring a document database. Sequence numbers from [NextSequence] give playlists and users a
// stable creation order independent of their ids.
package repositories
