package services

import (
	"fmt"
	"reflect"
	"strings"
)

// HandlePolicy selects whether handles take part in reference counting.
type HandlePolicy int

const (
	// HandleCounted handles add a reference on acquisition and drop it on Close.
	HandleCounted HandlePolicy = iota
	// HandleUncounted handles are plain pass-through wrappers.
	HandleUncounted
)

func (p HandlePolicy) String() string {
	switch p {
	case HandleCounted:
		return "counted"
	case HandleUncounted:
		return "uncounted"
	default:
		return fmt.Sprintf("HandlePolicy(%d)", int(p))
	}
}

// ParseHandlePolicy parses "counted" or "uncounted". An empty string is counted.
func ParseHandlePolicy(s string) (HandlePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "counted":
		return HandleCounted, nil
	case "uncounted":
		return HandleUncounted, nil
	default:
		return HandleCounted, fmt.Errorf("unknown handle policy %q", s)
	}
}

// Handle keeps a service alive for as long as a consumer holds it beyond the
// call that obtained it. Handles are not safe for concurrent use; give each
// goroutine its own Clone.
type Handle[T Service] struct {
	val    T
	valid  bool
	policy HandlePolicy
}

// NewHandle wraps v, adding a reference under HandleCounted.
func NewHandle[T Service](v T, policy HandlePolicy) *Handle[T] {
	h := &Handle[T]{policy: policy}
	h.Reset(v)
	return h
}

// Get returns the wrapped service, or the zero value after Close.
func (h *Handle[T]) Get() T {
	return h.val
}

// Valid reports whether the handle currently wraps a service.
func (h *Handle[T]) Valid() bool {
	return h.valid
}

// Policy returns the counting policy of the handle.
func (h *Handle[T]) Policy() HandlePolicy {
	return h.policy
}

// Clone returns a second handle to the same service with its own reference.
func (h *Handle[T]) Clone() *Handle[T] {
	c := &Handle[T]{policy: h.policy}
	if h.valid {
		c.Reset(h.val)
	}
	return c
}

// Reset points the handle at v, releasing the previous service.
func (h *Handle[T]) Reset(v T) {
	if IsNil(v) {
		h.Close()
		return
	}
	if h.policy == HandleCounted {
		v.AddRef()
	}
	h.Close()
	h.val = v
	h.valid = true
}

// Close drops the handle's reference. Calling Close twice is a no-op.
func (h *Handle[T]) Close() {
	if !h.valid {
		return
	}
	v := h.val
	var zero T
	h.val = zero
	h.valid = false
	if h.policy == HandleCounted {
		v.Release()
	}
}

// IsNil reports whether v is nil or a typed nil pointer stored in the
// interface.
func IsNil(v Service) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
