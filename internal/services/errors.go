package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/desertthunder/rmx/internal/shared"
)

// UpstreamError is a failed catalog request.
//
// StatusCode is 0 when the request never produced a response (transport failure).
type UpstreamError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("catalog request failed: %s", e.Message)
	}
	return fmt.Sprintf("catalog API error (status %d): %s", e.StatusCode, e.Message)
}

// Unwrap lets callers match [shared.ErrAPIRequest].
func (e *UpstreamError) Unwrap() error { return shared.ErrAPIRequest }

// IsNotFound reports whether the upstream answered 404 (e.g. no results for a filter).
func (e *UpstreamError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// DisplayMessage returns the human-readable text a view should show.
func (e *UpstreamError) DisplayMessage() string {
	if e.Message == "" {
		return "Error: Something went wrong"
	}
	return "Error: " + e.Message
}

// DisplayMessage returns the text a view shows for a failed catalog call.
// Errors other than [*UpstreamError] get the generic fallback.
func DisplayMessage(err error) string {
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.DisplayMessage()
	}
	return (&UpstreamError{}).DisplayMessage()
}
