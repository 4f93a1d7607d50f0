package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

const maxErrorBody = 512

// FetchError is returned for any non-2xx response, transport failure or
// undecodable body from the upstream API.
type FetchError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NotFound reports whether the upstream answered 404
func (e *FetchError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsFetchError reports whether err carries a FetchError
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// IsNotFound reports whether err carries a 404 FetchError
func IsNotFound(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.NotFound()
}
