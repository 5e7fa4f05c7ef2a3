// Package library holds the in-memory session state of the player: the signed-in user, the
// current track, liked songs, recently played and playlists.
//
// A [Store] is the single source of truth for a session and is passed by pointer to every
// surface (CLI commands, the TUI, the playback owner). Local mutations apply immediately;
// collections are mirrored to a [gateway.Gateway] on sign-in ([Store.Load]), on exit
// ([Store.Persist]) and on explicit playlist or share actions.
//
// Playlist writes wait for the gateway to acknowledge before re-fetching the user's playlists,
// so a refresh never races the write it follows.
//
// User-facing outcomes are published as [Notice] values on an optional channel. Sends never
// block; if nobody is reading, notices are dropped.
package library
