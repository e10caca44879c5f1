package model

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"
)

var (
	// ErrEnvironmentUnavailable means the page is served from a static or
	// file-based host where the remote backend must not be called.
	ErrEnvironmentUnavailable = goerr.New("AI chat requires a live server environment")

	// ErrInvalidResponse means the backend answered without the expected
	// success flag or response text.
	ErrInvalidResponse = goerr.New("invalid response from chat backend")

	ErrEmptyInput = goerr.New("empty input")
	ErrBusy       = goerr.New("a request is already in flight")
)

// RequestFailedError is returned when the chat backend answers with a
// non-success HTTP status.
type RequestFailedError struct {
	Status int
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("API request failed: %d", e.Status)
}
