package client

import (
	"errors"
	"fmt"
)

// ErrUnsupportedOperation is returned when a caller asks for a variant of an
// operation that the client does not implement, such as syncing a single
// device or POSTing a request body.
var ErrUnsupportedOperation = errors.New("unsupported operation")

// HTTPError is returned for any response outside the 2xx range.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Body       HTTPBody
}

func (e *HTTPError) Error() string {
	if len(e.Body) > 0 {
		return fmt.Sprintf("%s %s returned %s: %s", e.Method, e.URL, e.Status, string(e.Body))
	}
	return fmt.Sprintf("%s %s returned %s", e.Method, e.URL, e.Status)
}

// MalformedResponseError is returned when a response body cannot be decoded
// or lacks the envelope key the dialect expects.
type MalformedResponseError struct {
	URL string
	Key string
	Err error
}

func (e *MalformedResponseError) Error() string {
	switch {
	case e.Err != nil && e.Key != "":
		return fmt.Sprintf("malformed response from %s (key %q): %v", e.URL, e.Key, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("malformed response from %s: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("malformed response from %s: missing key %q", e.URL, e.Key)
	}
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// IsMalformedResponse reports whether err (or anything it wraps) is a
// *MalformedResponseError.
func IsMalformedResponse(err error) bool {
	var merr *MalformedResponseError
	return errors.As(err, &merr)
}

// StatusCode returns the HTTP status code carried by err, or 0 when err is
// not an *HTTPError.
func StatusCode(err error) int {
	var herr *HTTPError
	if errors.As(err, &herr) {
		return herr.StatusCode
	}
	return 0
}
