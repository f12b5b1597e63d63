package client

import (
	"errors"
	"fmt"
)

// ErrAborted is wrapped by errors of cancelled requests.
var ErrAborted = errors.New("request was cancelled")

const defaultErrorMessage = "Something went wrong while processing your request."

// Error is returned for every failed request.
type Error struct {
	URL string
	// Status is the HTTP status code, 0 when no response was received.
	Status int
	// Response holds the decoded response body, e.g. {"status":400,"message":"...","data":{...}}.
	Response map[string]any
	IsAbort  bool
	Err      error
}

func (e *Error) Error() string {
	if message := e.Message(); message != "" {
		return message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return defaultErrorMessage
}

// Message returns the message field of the response body.
func (e *Error) Message() string {
	if e.Response == nil {
		return ""
	}
	message, _ := e.Response["message"].(string)
	return message
}

// Data returns the field errors of the response body.
func (e *Error) Data() map[string]any {
	if e.Response == nil {
		return nil
	}
	data, _ := e.Response["data"].(map[string]any)
	return data
}

func (e *Error) Unwrap() error { return e.Err }

func newAbortError(URL string, cause error) *Error {
	return &Error{URL: URL, IsAbort: true, Err: fmt.Errorf("%w: %v", ErrAborted, cause)}
}
