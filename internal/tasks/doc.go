// Package tasks runs multi-step library operations with progress reporting.
//
// # Operations
//
//  1. [Engine.Load] : sign a user in to the library store
//     - fetches liked songs, recently played and playlists as independent steps
//     - a failed step is recorded and the remaining steps still run
//
//  2. [Engine.Persist] : save liked songs and recently played
//
//  3. [Engine.BulkExport] : export the liked songs and playlists to disk
//     - a rate-limited dispatcher feeds a worker pool
//     - each collection is written by [formatter.Write]
//     - a manifest summarizes successes and failures
//
// # Progress Reporting
//
// All operations accept an optional progress channel. Updates are sent with
// select/default so a slow reader drops updates instead of stalling the task.
package tasks
