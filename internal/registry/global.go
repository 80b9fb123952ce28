package registry

import (
	"context"
	"fmt"
	"sync"

	"svcctl/internal/services"
)

var (
	// Process-wide registry instance
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide registry, building it on first use.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = New()
	})
	return defaultRegistry
}

// MustRegister registers f with the default registry and panics on failure.
// It is meant for package init functions:
//
//	func init() {
//	    registry.MustRegister(readerFactory)
//	}
func MustRegister(f services.Factory) {
	if err := Default().Register(context.Background(), f); err != nil {
		panic(err)
	}
}

// Lookup resolves the service of type T through r, using T's ServiceID.
// A slot that failed earlier yields the zero value and no error.
func Lookup[T services.Identified](ctx context.Context, r services.Resolver) (T, error) {
	var zero T
	id := zero.ServiceID()

	svc, err := r.Get(ctx, id)
	if err != nil || svc == nil {
		return zero, err
	}

	v, ok := svc.(T)
	if !ok {
		return zero, &Error{Op: OpGet, ID: id, Err: fmt.Errorf("%w: %T", ErrWrongType, svc)}
	}
	return v, nil
}
