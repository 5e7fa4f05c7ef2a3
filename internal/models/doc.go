// Package models defines the domain entities of the echoplay music player.
//
// The package contains two categories of types:
//
// 1. Documents: plain values that travel between the store, the gateway and the HTTP API
//   - [Track] : a playable song keyed by its YouTube video id
//   - [Playlist] : a named, user-owned, ordered collection of tracks
//   - [Share] : an immutable snapshot of a user's liked songs addressed by a short code
//
// 2. Persistent Entities: database-backed models with accessor methods
//   - [User] : the signed-in identity handed out by an auth provider
//   - [Session] : a persisted sign-in so separate CLI invocations share a login
//
// Persistent entities implement [Model] and have soft delete support.
package models
