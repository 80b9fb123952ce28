package registry

import (
	"context"
	"fmt"
	"time"

	"svcctl/internal/services"
	"svcctl/pkg/logging"
)

// create builds the service in s after its create requirements. Called with
// the lock held and s in StatusNone.
func (r *Registry) create(ctx context.Context, s *slot) error {
	start := time.Now()

	s.setStatus(StatusCreatingRequirements)
	for _, dep := range s.createRequires {
		// Declared requirements are resolved regardless of any limiter the
		// caller runs under; only the factory call itself is restricted.
		req := &r.slots[dep]
		if _, err := r.resolve(ctx, req); err != nil {
			return r.fail(OpCreate, s, err)
		}
		// A requirement in the exception state resolves to nothing.
		if st := req.loadStatus(); st != StatusCreated && st != StatusDestroyingDependents {
			return r.fail(OpCreate, s, &Error{Op: OpGet, ID: req.id, Name: req.name, Err: ErrRequirementFailed})
		}
	}

	s.setStatus(StatusCreating)
	svc, err := r.construct(ctx, s)
	if err != nil {
		return r.fail(OpCreate, s, err)
	}
	if svc == nil {
		return r.fail(OpCreate, s, ErrNoInstance)
	}

	s.setInstance(svc)
	s.setStatus(StatusCreated)

	r.metrics.ServiceCreated(s.name, time.Since(start))
	logging.Debug(subsystem, "Created service %d (%s)", s.id, s.name)
	return nil
}

// construct calls the factory with only the create requirements visible.
func (r *Registry) construct(ctx context.Context, s *slot) (svc services.Service, err error) {
	restore := r.limit(s.createRequires)
	defer restore()
	defer func() {
		if rec := recover(); rec != nil {
			svc = nil
			err = fmt.Errorf("%w: %v", ErrPanic, rec)
		}
	}()

	svc, err = s.factory.Create(ctx, r)
	if err != nil {
		return nil, err
	}
	if services.IsNil(svc) {
		return nil, nil
	}
	return svc, nil
}

// DestroyAll destroys every live service, dependents first. Destructors may
// bring new services to life, so slots are rescanned until a full pass
// destroys nothing.
//
// Other goroutines must have stopped using the registry before DestroyAll
// is called.
func (r *Registry) DestroyAll(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if r.inOperation(ctx) {
		return &Error{Op: OpDestroy, ID: -1, Err: ErrInProgress}
	}

	ctx, unlock := r.enter(ctx)
	defer unlock()
	return r.destroyAll(ctx)
}

func (r *Registry) destroyAll(ctx context.Context) error {
	for pass := 1; ; pass++ {
		destroyed := 0
		for i := range r.slots {
			done, err := r.destroy(ctx, &r.slots[i])
			if err != nil {
				return err
			}
			if done {
				destroyed++
			}
		}
		logging.Debug(subsystem, "Teardown pass %d destroyed %d services", pass, destroyed)
		if destroyed == 0 {
			return nil
		}
	}
}

// destroy tears down s after everything that declared s as a destroy
// dependency. It reports whether s was destroyed by this call.
func (r *Registry) destroy(ctx context.Context, s *slot) (bool, error) {
	switch s.loadStatus() {
	case StatusNone, StatusDestroyed, StatusException:
		return false, nil
	case StatusDestroyingDependents, StatusDestroying:
		return false, &Error{Op: OpDestroy, ID: s.id, Name: s.name, Err: ErrCycleDestroy}
	case StatusCreatingRequirements, StatusCreating:
		return false, &Error{Op: OpDestroy, ID: s.id, Name: s.name, Err: ErrInProgress}
	}

	s.setStatus(StatusDestroyingDependents)
	for _, dep := range s.destroyDependents {
		if _, err := r.destroy(ctx, &r.slots[dep]); err != nil {
			return false, r.fail(OpDestroy, s, err)
		}
	}

	s.setStatus(StatusDestroying)
	if svc := s.loadInstance(); svc != nil {
		s.setInstance(nil)
		restore := r.limit(s.destroyRequires)
		err := r.release(ctx, svc)
		restore()
		if err != nil {
			r.metrics.ServiceGone()
			return false, r.fail(OpDestroy, s, err)
		}
	}

	s.setStatus(StatusDestroyed)

	r.metrics.ServiceDestroyed(s.name)
	logging.Debug(subsystem, "Destroyed service %d (%s)", s.id, s.name)
	return true, nil
}

// release drops the registry's reference on svc, recovering a panicking destructor.
func (r *Registry) release(ctx context.Context, svc services.Service) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, rec)
		}
	}()
	services.Release(ctx, svc)
	return nil
}

// fail moves s to the terminal exception state and wraps err.
func (r *Registry) fail(op Op, s *slot, err error) error {
	s.setStatus(StatusException)
	r.metrics.Failure(op, Kind(err))
	logging.Warn(subsystem, "Service %d (%s) failed during %s: %v", s.id, s.name, op, err)
	return &Error{Op: op, ID: s.id, Name: s.name, Err: err}
}
