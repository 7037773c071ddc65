package api

import (
	"errors"
	"fmt"
)

// FallbackMessage is shown when a failed response carries no message of its own.
const FallbackMessage = "Something went wrong"

// ErrAuthorizationDenied is returned when the API rejects the session token (HTTP 401),
// or when an admin call is attempted without one. Callers must clear the session.
var ErrAuthorizationDenied = errors.New("authorization denied")

// RequestError is any other failed call: a non-2xx status or a transport failure.
type RequestError struct {
	Method string
	Path   string
	Status int // zero for transport failures
	// Message comes from the response body when the API sent one.
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
}

func (e *RequestError) Unwrap() error { return e.Err }

// Message extracts the text to show a user for err: the API's own message when there is
// one, otherwise fallback (FallbackMessage when fallback is empty).
func Message(err error, fallback string) string {
	if fallback == "" {
		fallback = FallbackMessage
	}
	var re *RequestError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return fallback
}
