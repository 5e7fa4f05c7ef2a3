package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not signed in")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest       = fmt.Errorf("API request failed")
	ErrSearchFailed     = fmt.Errorf("search failed")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrUserNotFound     = fmt.Errorf("user not found")
	ErrSessionNotFound  = fmt.Errorf("no active session")

	// Collection errors
	ErrInvalidTrack   = fmt.Errorf("invalid track: missing video id")
	ErrDuplicateTrack = fmt.Errorf("song already exists in this playlist")
	ErrShareNotFound  = fmt.Errorf("share ID not found")
	ErrShareEmpty     = fmt.Errorf("no songs found in this share")
	ErrNothingToShare = fmt.Errorf("no liked songs to share")

	// Playback errors
	ErrNoTrack = fmt.Errorf("no track loaded")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
