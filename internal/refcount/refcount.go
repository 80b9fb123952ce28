// Package refcount provides the thread-safe reference counter shared by
// services and factories.
package refcount

import "sync/atomic"

// Object is anything whose lifetime is governed by a reference count.
type Object interface {
	// AddRef increments the count and returns the new value.
	AddRef() int32
	// Release decrements the count and returns the new value. The object is
	// destroyed synchronously by the call that brings the count to zero.
	Release() int32
}

// Counter is an atomic reference count. The zero value has a count of zero;
// owners call Init once when the object is constructed.
//
// Counter does not destroy anything itself. The owner checks the value
// returned by Release and runs its destructor when it is zero.
type Counter struct {
	n atomic.Int32
}

// Init sets the count to one, the reference held by the creator.
func (c *Counter) Init() {
	c.n.Store(1)
}

// AddRef increments the count and returns the new value.
func (c *Counter) AddRef() int32 {
	return c.n.Add(1)
}

// Release decrements the count and returns the new value.
// It panics when called on an object that was already fully released.
func (c *Counter) Release() int32 {
	n := c.n.Add(-1)
	if n < 0 {
		panic("refcount: release of an object with no references")
	}
	return n
}

// Count returns the current value.
func (c *Counter) Count() int32 {
	return c.n.Load()
}
