package httpx

import (
	"fmt"
	"net/http"

	"github.com/tidwall/sjson"
)

// Error is an HTTP error response. The body is {"error_message": "..."}.
type Error struct {
	Description string
	StatusCode  int
}

// Send writes the error response. A nil writer is ignored.
func (e *Error) Send(w http.ResponseWriter) {
	if w == nil {
		return
	}
	body, err := sjson.SetBytes([]byte(`{}`), "error_message", e.Description)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_, _ = w.Write(body)
}

func (e *Error) Error() string {
	return e.Description
}

func describe(def string, str []string) string {
	if len(str) > 0 && str[0] != "" {
		return str[0]
	}
	return def
}

// ErrUnableToParseReqData is a 400 for bodies that do not decode.
func ErrUnableToParseReqData(str ...string) *Error {
	return &Error{
		Description: describe("unable to parse request data", str),
		StatusCode:  http.StatusBadRequest,
	}
}

// ErrUnableToReadRequest is a 400 for bodies that cannot be read.
func ErrUnableToReadRequest() *Error {
	return &Error{
		Description: "unable to read request",
		StatusCode:  http.StatusBadRequest,
	}
}

// ErrInvalidRequest is a 400.
func ErrInvalidRequest(str ...string) *Error {
	return &Error{
		Description: describe("invalid request", str),
		StatusCode:  http.StatusBadRequest,
	}
}

// ErrUnAuthorized is a 401.
func ErrUnAuthorized(str ...string) *Error {
	return &Error{
		Description: describe("unauthorized", str),
		StatusCode:  http.StatusUnauthorized,
	}
}

// ErrForbidden is a 403.
func ErrForbidden(str ...string) *Error {
	return &Error{
		Description: describe("forbidden", str),
		StatusCode:  http.StatusForbidden,
	}
}

// ErrNotFound is a 404.
func ErrNotFound(str ...string) *Error {
	return &Error{
		Description: describe("not found", str),
		StatusCode:  http.StatusNotFound,
	}
}

// ErrApplicationError is a 500.
func ErrApplicationError(str ...string) *Error {
	return &Error{
		Description: describe("unable to process request", str),
		StatusCode:  http.StatusInternalServerError,
	}
}

// ErrRequestTimeout is a 503 sent when a handler exceeds its deadline.
func ErrRequestTimeout() *Error {
	return &Error{
		Description: "request timed out",
		StatusCode:  http.StatusServiceUnavailable,
	}
}

// ErrRequestTooLarge is a 413.
func ErrRequestTooLarge(limit int64) *Error {
	return &Error{
		Description: fmt.Sprintf("request body exceeds %d bytes", limit),
		StatusCode:  http.StatusRequestEntityTooLarge,
	}
}
