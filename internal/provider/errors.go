package provider

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrAPIKeyNotConfigured is returned before any network I/O when credentials are missing.
var ErrAPIKeyNotConfigured = errors.New("API key is not configured")

// Error is a provider failure carrying an HTTP-like status.
type Error struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Provider, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode extracts the provider status from err, or 0.
func StatusCode(err error) int {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.StatusCode
	}
	return 0
}

// IsTooLarge reports a request rejected for its size.
func IsTooLarge(err error) bool {
	return StatusCode(err) == http.StatusRequestEntityTooLarge
}

func missingKey(envVar string) error {
	return fmt.Errorf("%w. Please set %s in your .env file", ErrAPIKeyNotConfigured, envVar)
}
