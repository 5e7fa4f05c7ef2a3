// Package ui implements the interactive terminal player using bubbletea's Elm architecture.
//
// The shell shows one panel at a time:
//  1. Home : search YouTube and browse recently played
//  2. Liked : the liked songs, with a fuzzy filter and reordering
//  3. Playlists : the user's playlists and a detail view per playlist
//
// Dialogs (create/edit playlist, add to playlist, share, receive share, help) open on
// top of the panel, which is dimmed while a dialog is visible. Store notices render
// as a toast line that clears itself after a few seconds.
//
// The [Model] never talks to a gateway directly. It drives the library store, the
// search backend and the playback owner, and listens to the owner's state stream
// to render the now playing bar.
package ui
