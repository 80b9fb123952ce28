package services

import (
	"context"

	"svcctl/internal/refcount"
)

// Base carries the reference count of a concrete service. Embed it and call
// Init from the constructor:
//
//	type Reader struct {
//	    services.Base
//	}
//
//	func newReader() *Reader {
//	    r := &Reader{}
//	    r.Init(func(ctx context.Context) { /* tear down */ })
//	    return r
//	}
type Base struct {
	refs      refcount.Counter
	onDestroy func(ctx context.Context)
}

// Init sets the count to one. onDestroy may be nil.
func (b *Base) Init(onDestroy func(ctx context.Context)) {
	b.onDestroy = onDestroy
	b.refs.Init()
}

// AddRef increments the reference count.
func (b *Base) AddRef() int32 {
	return b.refs.AddRef()
}

// Release drops a reference and runs the destructor when none are left.
func (b *Base) Release() int32 {
	return b.ReleaseContext(context.Background())
}

// ReleaseContext is Release with the caller's context handed to the destructor.
func (b *Base) ReleaseContext(ctx context.Context) int32 {
	n := b.refs.Release()
	if n == 0 && b.onDestroy != nil {
		b.onDestroy(ctx)
	}
	return n
}

// RefCount reports the current number of references.
func (b *Base) RefCount() int32 {
	return b.refs.Count()
}
