package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHandlePolicy(t *testing.T) {
	p, err := ParseHandlePolicy("")
	require.NoError(t, err)
	assert.Equal(t, HandleCounted, p)

	p, err = ParseHandlePolicy("Uncounted")
	require.NoError(t, err)
	assert.Equal(t, HandleUncounted, p)

	_, err = ParseHandlePolicy("weak")
	assert.Error(t, err)

	assert.Equal(t, "counted", HandleCounted.String())
	assert.Equal(t, "uncounted", HandleUncounted.String())
}

func TestHandle_CountedRoundTrip(t *testing.T) {
	s := newTestService()

	const n = 5
	handles := make([]*Handle[*testService], 0, n)
	for i := 0; i < n; i++ {
		handles = append(handles, NewHandle(s, HandleCounted))
	}
	assert.Equal(t, int32(1+n), s.RefCount())

	for _, h := range handles {
		h.Close()
		h.Close() // idempotent
	}
	assert.Equal(t, int32(1), s.RefCount())
	assert.Equal(t, 0, s.destroyed)

	// The creator's reference is the last one; dropping it destroys once.
	s.Release()
	assert.Equal(t, 1, s.destroyed)
}

func TestHandle_OutlivesCreatorReference(t *testing.T) {
	s := newTestService()
	h := NewHandle(s, HandleCounted)

	s.Release()
	assert.Equal(t, 0, s.destroyed)
	assert.Same(t, s, h.Get())

	h.Close()
	assert.Equal(t, 1, s.destroyed)
	assert.False(t, h.Valid())
	assert.Nil(t, h.Get())
}

func TestHandle_CloneAndReset(t *testing.T) {
	a := newTestService()
	b := newTestService()

	h := NewHandle(a, HandleCounted)
	c := h.Clone()
	assert.Equal(t, int32(3), a.RefCount())

	c.Reset(b)
	assert.Equal(t, int32(2), a.RefCount())
	assert.Equal(t, int32(2), b.RefCount())
	assert.Same(t, b, c.Get())

	// Resetting to the same service keeps the count stable.
	c.Reset(b)
	assert.Equal(t, int32(2), b.RefCount())

	c.Reset(nil)
	assert.False(t, c.Valid())
	assert.Equal(t, int32(1), b.RefCount())

	h.Close()
	assert.Equal(t, int32(1), a.RefCount())
}

func TestHandle_Uncounted(t *testing.T) {
	s := newTestService()

	h := NewHandle(s, HandleUncounted)
	c := h.Clone()
	assert.Equal(t, int32(1), s.RefCount())
	assert.Equal(t, HandleUncounted, c.Policy())

	c.Close()
	h.Close()
	assert.Equal(t, int32(1), s.RefCount())
	assert.Equal(t, 0, s.destroyed)
}

func TestIsNil(t *testing.T) {
	var typed *testService

	assert.True(t, IsNil(nil))
	assert.True(t, IsNil(typed))
	assert.False(t, IsNil(newTestService()))
}
