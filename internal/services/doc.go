// Package services defines the building blocks of a managed service.
//
// # Core Concepts
//
// Service: a reference-counted object owned by a registry slot. Concrete
// types embed Base, which implements the counting and runs a destructor when
// the last reference is dropped.
//
// Factory: per-type metadata (ID, name, description), the two declared
// dependency lists and the constructor. NewFactory builds one from a
// FactoryConfig.
//
// Handle: a wrapper that holds a reference for a consumer keeping a service
// beyond the call that returned it. Whether handles count is a single
// HandlePolicy chosen per deployment.
//
// # Dependency Declarations
//
// A factory declares two ordered ID lists:
//
//   - CreateDependencies: created before the service's constructor runs, and
//     the only services the constructor may resolve.
//   - DestroyDependencies: kept alive while the service is destroyed, and the
//     only services its destructor may resolve.
//
// Duplicates and self references are legal here; the registry reports them as
// cycles when they matter.
//
// # Example Usage
//
//	const SIDReader services.ID = 1
//
//	type Reader struct {
//	    services.Base
//	    writer *Writer
//	}
//
//	func (*Reader) ServiceID() services.ID { return SIDReader }
//
//	var readerFactory = services.NewFactory(services.FactoryConfig{
//	    ID:                 SIDReader,
//	    Name:               "reader",
//	    CreateDependencies: []services.ID{SIDWriter},
//	    New: func(ctx context.Context, r services.Resolver) (services.Service, error) {
//	        w, err := r.Get(ctx, SIDWriter)
//	        if err != nil {
//	            return nil, err
//	        }
//	        rd := &Reader{writer: w.(*Writer)}
//	        rd.Init(nil)
//	        return rd, nil
//	    },
//	})
package services
