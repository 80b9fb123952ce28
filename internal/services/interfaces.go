package services

import (
	"context"

	"svcctl/internal/refcount"
)

// ID identifies a service type. IDs are small non-negative integers and are
// used directly as slot indexes by the registry.
type ID int

// Service is the unit the registry manages. Beyond reference counting the
// registry never looks inside a service.
type Service interface {
	refcount.Object
}

// ContextReleaser is implemented by services whose destructor needs the
// context of the call that dropped the last reference. The registry releases
// its own reference through this interface so a destructor running during
// teardown can resolve the services it declared as destroy dependencies.
type ContextReleaser interface {
	ReleaseContext(ctx context.Context) int32
}

// Identified is implemented by service types that carry a fixed ID. The
// method must not dereference its receiver: typed lookups call it on the
// zero value of the type.
type Identified interface {
	Service
	ServiceID() ID
}

// Resolver hands out live services by ID.
//
// A factory's Create and a service's destructor receive a context that marks
// an operation already in progress on the registry. Nested lookups must use
// that context, otherwise the call waits for the very operation it runs in.
type Resolver interface {
	Get(ctx context.Context, id ID) (Service, error)
}

// Factory describes one service type and knows how to build it.
//
// A factory is reference counted and owned by exactly one registry slot once
// registered.
type Factory interface {
	refcount.Object

	// Service metadata
	ID() ID
	Name() string
	Description() string

	// CreateDependencies lists the services that must exist before Create
	// runs. Only these are visible from inside Create.
	CreateDependencies() []ID

	// DestroyDependencies lists the services that must still be alive while
	// this service is destroyed. They are torn down after it.
	DestroyDependencies() []ID

	// Create builds a new instance holding one reference.
	Create(ctx context.Context, r Resolver) (Service, error)
}

// Release drops one reference on s, forwarding ctx to the destructor when s
// supports it.
func Release(ctx context.Context, s Service) int32 {
	if cr, ok := s.(ContextReleaser); ok {
		return cr.ReleaseContext(ctx)
	}
	return s.Release()
}
