package auth

import (
	"fmt"

	"github.com/semantria/semantria-go/internal/common/apperrors"
)

var (
	// ErrAuthentication is matched by every credential resolution failure.
	ErrAuthentication apperrors.Error = apperrors.New("authentication error")
	// ErrInvalidCredentials is returned for credentials missing required fields.
	ErrInvalidCredentials apperrors.Error = ErrAuthentication.New("invalid credentials")
)

// Error is returned when the authorization endpoint rejects a request.
type Error struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("authentication error: %s: %d %s", e.Op, e.Status, msg)
	}
	return fmt.Sprintf("authentication error: %s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == error(ErrAuthentication) }

// StatusCode returns the HTTP status the endpoint answered with.
func (e *Error) StatusCode() int { return e.Status }
