// Package serializer converts request and response payloads to and from the
// two wire formats the service speaks. Both implementations satisfy the same
// Serializer contract so the session can swap them at runtime.
package serializer

import (
	"fmt"
	"strings"

	"github.com/semantria/semantria-go/internal/common/apperrors"
)

// Format is the wire format tag. It doubles as the URL suffix of every
// formatted endpoint ("/status.json").
type Format string

const (
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
)

// ErrSerialization is matched by every error this package returns.
var ErrSerialization apperrors.Error = apperrors.New("serialization error")

// Serializer marshals and unmarshals values in a single wire format.
type Serializer interface {
	Type() Format
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// Error reports a payload that could not be mapped to or from a Go value.
type Error struct {
	Format Format
	Op     string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Format, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == error(ErrSerialization) }

// ParseFormat accepts "json" or "xml" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatXML:
		return f, nil
	}
	return "", &Error{Format: Format(s), Op: "parse format", Err: fmt.Errorf("unsupported format %q", s)}
}

// ContentType returns the MIME type sent with bodies of this format.
func (f Format) ContentType() string {
	if f == FormatXML {
		return "application/xml"
	}
	return "application/json"
}

// String returns the lower case tag.
func (f Format) String() string { return string(f) }

// New returns the serializer for the given format.
func New(f Format) (Serializer, error) {
	switch f {
	case FormatJSON:
		return JSON(), nil
	case FormatXML:
		return XML(), nil
	}
	return nil, &Error{Format: f, Op: "new", Err: fmt.Errorf("unsupported format %q", f)}
}
