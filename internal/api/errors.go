package api

import (
	"errors"
	"fmt"
)

// RequestError is returned for any non-success response or transport
// failure. Detail carries the server-provided message when one was present.
type RequestError struct {
	Op       string
	Status   int
	Detail   string
	Fallback string
	Err      error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s: HTTP %d", e.Op, e.Status)
}

func (e *RequestError) Unwrap() error { return e.Err }

// Message returns the text to surface in the status area: the server
// message verbatim, or the operation's generic fallback when none was given.
func (e *RequestError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Fallback
}

// Message extracts a user-facing message from any error returned by the
// client. Non-RequestError values surface their Error string.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var re *RequestError
	if errors.As(err, &re) {
		return re.Message()
	}
	return err.Error()
}
