package apierror

import (
	"context"
	"errors"

	"github.com/viant/authsession/client"
	"github.com/viant/authsession/internal/conv"
)

// DefaultStatus is assumed when an error carries no status.
const DefaultStatus = 400

// Classified is the part of an API error the dispatcher acts on.
type Classified struct {
	Status      int
	Message     string
	FieldErrors map[string]any
	IsAbort     bool
}

// Class names the session lifecycle action of the error.
func (c *Classified) Class() string {
	switch {
	case c.IsAbort:
		return "abort"
	case c.Status == 401:
		return "unauthenticated"
	case c.Status == 403:
		return "forbidden"
	case len(c.FieldErrors) > 0:
		return "validation"
	}
	return "other"
}

// Classify derives the status, message and field errors of err. It returns nil
// for a nil error, including a nil *client.Error.
func Classify(err error, defaultMessage string) *Classified {
	if err == nil {
		return nil
	}
	ret := &Classified{}
	var apiErr *client.Error
	if errors.As(err, &apiErr) {
		if apiErr == nil {
			return nil
		}
		ret.IsAbort = apiErr.IsAbort
		ret.Status = int(conv.AsInt32(apiErr.Status))
		ret.Message = apiErr.Message()
		ret.FieldErrors = apiErr.Data()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, client.ErrAborted) {
		ret.IsAbort = true
	}
	if ret.Status == 0 {
		ret.Status = DefaultStatus
	}
	if ret.Message == "" {
		ret.Message = err.Error()
	}
	if ret.Message == "" {
		ret.Message = defaultMessage
	}
	return ret
}
