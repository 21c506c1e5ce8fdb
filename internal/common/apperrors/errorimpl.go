package apperrors

import (
	"fmt"
	"strings"
)

type appError struct {
	msg    string
	parent *appError
	causes []error
	status int
}

// New creates a root error, typically a package sentinel.
func New(msg string) Error {
	return &appError{msg: msg}
}

// Error returns the message followed by the messages of attached causes.
func (e *appError) Error() string {
	if len(e.causes) == 0 {
		return e.msg
	}
	parts := make([]string, 0, len(e.causes))
	for _, c := range e.causes {
		parts = append(parts, c.Error())
	}
	return e.msg + ": " + strings.Join(parts, "; ")
}

func (e *appError) Unwrap() []error {
	var errs []error
	if e.parent != nil {
		errs = append(errs, e.parent)
	}
	return append(errs, e.causes...)
}

// New derives a sentinel from e; Msg derives an occurrence. Both match e with
// errors.Is and inherit its status code.
func (e *appError) New(msg string) Error {
	return &appError{msg: msg, parent: e, status: e.status}
}

func (e *appError) Msg(msg string) Error {
	return &appError{msg: msg, parent: e, status: e.status}
}

func (e *appError) Msgf(format string, args ...any) Error {
	return e.Msg(fmt.Sprintf(format, args...))
}

func (e *appError) Err(causes ...error) Error {
	cp := *e
	cp.parent = e
	cp.causes = append(append([]error(nil), e.causes...), causes...)
	return &cp
}

func (e *appError) SetStatusCode(code int) Error {
	cp := *e
	cp.status = code
	return &cp
}

// StatusCode returns the status set on e, or the closest one set on a parent.
func (e *appError) StatusCode() int {
	for p := e; p != nil; p = p.parent {
		if p.status != 0 {
			return p.status
		}
	}
	return 0
}
