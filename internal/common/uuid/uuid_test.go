package uuid

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	id := New()
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestNewID(t *testing.T) {
	plain := NewID("")
	_, err := Parse(plain)
	require.NoError(t, err)

	prefixed := NewID("doc-")
	assert.True(t, strings.HasPrefix(prefixed, "doc-"))
	assert.Len(t, prefixed, len("doc-")+36)
	assert.NotEqual(t, NewID("doc"), NewID("doc"))
}

func TestRequestID(t *testing.T) {
	assert.Len(t, RequestID(), 12)
}

func TestCreatedAt(t *testing.T) {
	before := time.Now().Add(-time.Second)
	ts, ok := CreatedAt(NewID("coll"))
	require.True(t, ok)
	assert.True(t, ts.After(before))

	_, ok = CreatedAt("D1")
	assert.False(t, ok)

	_, ok = CreatedAt(uuid.NewString())
	assert.False(t, ok)
}
