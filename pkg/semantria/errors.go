package semantria

import (
	"errors"
	"fmt"

	"github.com/semantria/semantria-go/internal/common/apperrors"
	"github.com/semantria/semantria-go/internal/common/httpclient"
	"github.com/semantria/semantria-go/pkg/semantria/auth"
	"github.com/semantria/semantria-go/pkg/semantria/serializer"
)

// Error taxonomy. Every error returned by a Session matches one of these
// with errors.Is.
var (
	ErrSerialization                       = serializer.ErrSerialization
	ErrAuthentication                      = auth.ErrAuthentication
	ErrTransport                           = httpclient.ErrTransport
	ErrService             apperrors.Error = apperrors.New("service error")
	ErrUnsupportedResource apperrors.Error = apperrors.New("unsupported resource kind")
	ErrInvalidArgument     apperrors.Error = apperrors.New("invalid argument")
	ErrMissingID           apperrors.Error = ErrInvalidArgument.New("resource id is required")
	ErrEmptyInput          apperrors.Error = ErrInvalidArgument.New("at least one item is required")
	ErrUnexpectedPayload   apperrors.Error = ErrService.New("unexpected payload")

	// ErrHandled is additionally matched by a ServiceError that was
	// delivered to at least one OnError handler.
	ErrHandled apperrors.Error = apperrors.New("error delivered to handler")
)

// ServiceError is a response whose status is neither 200 nor 202.
type ServiceError struct {
	// Kind names the resource or operation the request was for.
	Kind    string
	Method  string
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Kind, e.Status, e.Message)
}

func (e *ServiceError) Is(target error) bool { return target == error(ErrService) }

// StatusCode returns the HTTP status.
func (e *ServiceError) StatusCode() int { return e.Status }

// UnsupportedResourceError is returned for a Kind outside the registry.
type UnsupportedResourceError struct {
	Kind Kind
}

func (e *UnsupportedResourceError) Error() string {
	return fmt.Sprintf("unsupported resource kind %d", int(e.Kind))
}

func (e *UnsupportedResourceError) Is(target error) bool {
	return target == error(ErrUnsupportedResource)
}

type handledError struct {
	err *ServiceError
}

func (e *handledError) Error() string { return e.err.Error() }

func (e *handledError) Unwrap() []error { return []error{e.err, ErrHandled} }

// IsHandled reports whether err was already delivered to an OnError handler.
func IsHandled(err error) bool { return errors.Is(err, ErrHandled) }
