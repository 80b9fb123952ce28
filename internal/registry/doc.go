// Package registry is the service lifecycle manager of svcctl.
//
// A Registry maps small integer IDs to slots. Each slot holds the factory of
// one service type, the live instance once created, a lifecycle status and
// the declared dependency edges in both directions.
//
// # Creation
//
// Get creates a service on first use. The slot moves through
//
//	none -> creating_requirements -> creating -> created
//
// Every declared create dependency is created first. While the factory runs,
// only those dependencies are resolvable; anything else fails with
// ErrOutOfDependency. Re-entering a slot that is still being created fails
// with ErrCycleCreate, which is how dependency cycles are detected.
//
// # Destruction
//
// DestroyAll tears everything down:
//
//	created -> destroying_dependents -> destroying -> destroyed
//
// Services that declared a slot as a destroy dependency are destroyed before
// it, and a destructor may only resolve its own destroy dependencies.
// Re-entering a slot still being destroyed fails with ErrCycleDestroy.
//
// Any failure moves the slot to the terminal exception status. Such a slot is
// never retried; later lookups return no instance and no error.
//
// # Locking
//
// Mutating operations hold the registry mutex. Constructors and destructors
// run under that lock and receive a context marking the operation; lookups
// made with that context do not lock again. Looking up an already created
// service from outside an operation takes no lock at all.
//
// # Example Usage
//
//	reg := registry.New(registry.WithCapacity(64))
//	if err := reg.Register(ctx, readerFactory); err != nil {
//	    return err
//	}
//
//	reader, err := registry.Lookup[*Reader](ctx, reg)
//	if err != nil {
//	    return err
//	}
//	...
//	if err := reg.DestroyAll(ctx); err != nil {
//	    return err
//	}
package registry
