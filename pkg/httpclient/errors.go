package httpclient

import (
	"errors"
	"net/http"
	"strings"
)

// StatusError is returned for non-2xx responses. Its message is the response body,
// or the status text when the body is empty.
type StatusError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *StatusError) Error() string { return e.Message }

func newStatusError(resp *Response) *StatusError {
	msg := string(resp.Body)
	if len(resp.Body) == 0 {
		msg = resp.StatusText()
	}
	return &StatusError{
		StatusCode: resp.StatusCode,
		Message:    msg,
		Body:       resp.Body,
	}
}

// IsStatus reports whether err carries a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// Response is a fully buffered HTTP response.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool { return r != nil && r.StatusCode >= 200 && r.StatusCode < 300 }

// StatusText returns the reason phrase, e.g. "Not Found".
func (r *Response) StatusText() string {
	if r == nil {
		return ""
	}
	if txt := http.StatusText(r.StatusCode); txt != "" {
		return txt
	}
	return strings.TrimSpace(r.Status)
}
