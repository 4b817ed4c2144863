package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrMissingToken  = fmt.Errorf("missing Plex token")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrPinExpired       = fmt.Errorf("device link PIN expired")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// Plex and scraper errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrLibraryNotFound    = fmt.Errorf("library not found")
	ErrItemNotFound       = fmt.Errorf("library item not found")
	ErrScrapeFailed       = fmt.Errorf("scrape failed")
	ErrUnsupportedURL     = fmt.Errorf("unsupported poster URL")
	ErrUploadFailed       = fmt.Errorf("poster upload failed")

	// Batch processing errors
	ErrBatchSetup = fmt.Errorf("batch setup failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
