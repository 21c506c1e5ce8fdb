// Package uuid generates the identifiers the client invents on the caller's
// behalf: document and collection ids for CLI submissions and per-call
// request ids used to correlate log lines. It wraps github.com/google/uuid and
// uses version 7 so generated ids sort by creation time.
package uuid

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UUID represents a UUID, aliased from github.com/google/uuid.UUID
type UUID = uuid.UUID

// New returns a new random UUIDv7. Panics if UUID generation fails.
func New() UUID {
	uuidv7, err := uuid.NewV7()
	if err != nil {
		panic(err)
	}
	return uuidv7
}

// NewID returns a textual UUIDv7, optionally prefixed ("doc-0190...").
func NewID(prefix string) string {
	id := New().String()
	if prefix == "" {
		return id
	}
	return strings.TrimSuffix(prefix, "-") + "-" + id
}

// RequestID returns a short id for log correlation.
func RequestID() string {
	id := New().String()
	return id[len(id)-12:]
}

// Parse parses a UUID string into a UUID value. Returns an error if the string is not a valid UUID.
func Parse(s string) (UUID, error) {
	return uuid.Parse(s)
}

// CreatedAt extracts the timestamp from a UUIDv7 id produced by NewID,
// ignoring any prefix. ok is false when the id is not a UUIDv7.
func CreatedAt(id string) (t time.Time, ok bool) {
	if len(id) < 36 {
		return time.Time{}, false
	}
	u, err := uuid.Parse(id[len(id)-36:])
	if err != nil || u.Version() != uuid.Version(7) {
		return time.Time{}, false
	}
	tsMillis := binary.BigEndian.Uint64(u[0:8]) >> 16
	return time.UnixMilli(int64(tsMillis)), true
}
