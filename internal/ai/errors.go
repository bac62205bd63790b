package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCredential indicates no API key is stored.
	ErrNoCredential = errors.New("no API key configured")

	// ErrUnavailable indicates the generation service could not be reached.
	ErrUnavailable = errors.New("generation service unavailable")

	// ErrInvalidOutput indicates the model response could not be parsed
	// into the expected structured format.
	ErrInvalidOutput = errors.New("invalid model output format")
)

// HTTPError is a non-success response from the generation service.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("generation service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("generation service returned status %d: %s", e.StatusCode, e.Message)
}
