// Package server provides HTTP routing, middleware and the handlers echoplay serves.
//
// # Router
//
// [BasicRouter] registers "METHOD /path" patterns on an [http.ServeMux] and wraps every
// handler in the registered [Middleware], first added outermost.
//
// # Document store API
//
// [DocumentHandler] exposes a gateway over JSON so a client configured with
// store.mode = "remote" can use it through gateway.Remote. Missing playlists and
// shares answer 404; validation failures answer 400; every error body is {"error": "..."}.
//
// # OAuth callback
//
// [OAuthHandler] serves the redirect of the authorization code flow. It validates the state
// parameter, exchanges the code and publishes exactly one [OAuthResult]. Later callbacks are rejected.
package server
