package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// Source errors
	ErrSourceUnavailable = fmt.Errorf("source unavailable")
	ErrPlaylistNotFound  = fmt.Errorf("playlist not found")

	// Backend errors
	ErrAPIRequest     = fmt.Errorf("API request failed")
	ErrSearchFailed   = fmt.Errorf("catalog search failed")
	ErrMutationFailed = fmt.Errorf("playlist mutation failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
