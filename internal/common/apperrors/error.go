// Package apperrors provides the chainable error values used across the client.
// Errors carry an optional HTTP status code, can wrap any number of causes and
// remain compatible with errors.Is / errors.As so callers can test a returned
// error against the sentinel it was derived from.
package apperrors

// Error is a derivable error value. Deriving never mutates the receiver, so
// package level sentinels can be shared freely.
type Error interface {
	error
	Unwrap() []error // parent first, then causes

	New(msg string) Error                  // derived sentinel
	Msg(msg string) Error                  // new message, wraps the receiver
	Msgf(format string, args ...any) Error // formatted variant of Msg
	Err(causes ...error) Error             // attaches causes to the receiver
	SetStatusCode(code int) Error          // copy with an HTTP status code
	StatusCode() int                       // status of this error or its parents
}

// StatusCode returns the first non-zero status carried by err or anything it
// wraps, or 0 when there is none. Besides Error values it honours any error
// with a StatusCode() int method, such as service and authentication errors.
func StatusCode(err error) int {
	if err == nil {
		return 0
	}
	if sc, ok := err.(interface{ StatusCode() int }); ok {
		if code := sc.StatusCode(); code != 0 {
			return code
		}
	}
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			if code := StatusCode(e); code != 0 {
				return code
			}
		}
	case interface{ Unwrap() error }:
		return StatusCode(u.Unwrap())
	}
	return 0
}
