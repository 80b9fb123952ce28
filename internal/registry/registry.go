package registry

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"svcctl/internal/services"
	"svcctl/pkg/logging"
)

const subsystem = "Registry"

// DefaultCapacity is the number of slots of a registry built without WithCapacity.
const DefaultCapacity = 256

// instanceBox lets a service interface value live behind an atomic pointer.
type instanceBox struct {
	svc services.Service
}

// slot is the per-ID record of the registry.
type slot struct {
	id      services.ID
	name    string
	factory services.Factory

	// status and instance are read without the lock on the fast path of Get.
	// The instance is always stored before the status that publishes it.
	status   atomic.Int32
	instance atomic.Pointer[instanceBox]

	createRequires    []services.ID
	createDependents  []services.ID
	destroyRequires   []services.ID
	destroyDependents []services.ID

	// enabled is owned by the visibility limiter and only touched under the lock.
	enabled bool
}

func (s *slot) loadStatus() Status {
	return Status(s.status.Load())
}

func (s *slot) setStatus(st Status) {
	s.status.Store(int32(st))
}

func (s *slot) loadInstance() services.Service {
	if b := s.instance.Load(); b != nil {
		return b.svc
	}
	return nil
}

func (s *slot) setInstance(svc services.Service) {
	if svc == nil {
		s.instance.Store(nil)
		return
	}
	s.instance.Store(&instanceBox{svc: svc})
}

// reset empties the slot. The caller has already dropped the references.
func (s *slot) reset() {
	s.name = ""
	s.factory = nil
	s.setInstance(nil)
	s.setStatus(StatusNone)
	s.createRequires = nil
	s.createDependents = nil
	s.destroyRequires = nil
	s.destroyDependents = nil
	s.enabled = true
}

// Registry creates, hands out and destroys services by ID, honouring their
// declared create and destroy dependencies.
//
// A Registry must not be copied after first use.
type Registry struct {
	mu      sync.Mutex
	slots   []slot
	policy  services.HandlePolicy
	metrics *Metrics
}

// Option configures a Registry.
type Option func(*Registry)

// WithCapacity sets the number of slots. Non-positive values keep the default.
func WithCapacity(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.slots = make([]slot, n)
		}
	}
}

// WithHandlePolicy selects the counting policy of handles returned by Acquire.
func WithHandlePolicy(p services.HandlePolicy) Option {
	return func(r *Registry) {
		r.policy = p
	}
}

// WithMetrics attaches Prometheus metrics. A nil *Metrics disables them.
func WithMetrics(m *Metrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

// New returns an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		slots:  make([]slot, DefaultCapacity),
		policy: services.HandleCounted,
	}
	for _, opt := range opts {
		opt(r)
	}
	for i := range r.slots {
		r.slots[i].id = services.ID(i)
		r.slots[i].enabled = true
	}
	return r
}

// Capacity returns the number of slots, one past the largest valid ID.
func (r *Registry) Capacity() int {
	return len(r.slots)
}

// HandlePolicy returns the policy used by Acquire.
func (r *Registry) HandlePolicy() services.HandlePolicy {
	return r.policy
}

// opKey marks a context as belonging to an operation that already holds
// the lock of one particular registry.
type opKey struct {
	r *Registry
}

func (r *Registry) inOperation(ctx context.Context) bool {
	return ctx.Value(opKey{r}) != nil
}

// enter takes the registry lock unless ctx already belongs to an operation
// on this registry. The returned context carries the operation marker.
func (r *Registry) enter(ctx context.Context) (context.Context, func()) {
	if ctx == nil {
		ctx = context.Background()
	}
	if r.inOperation(ctx) {
		return ctx, func() {}
	}
	r.mu.Lock()
	return context.WithValue(ctx, opKey{r}, struct{}{}), r.mu.Unlock
}

func (r *Registry) slotFor(id services.ID) (*slot, bool) {
	if id < 0 || int(id) >= len(r.slots) {
		return nil, false
	}
	return &r.slots[id], true
}

func (r *Registry) validID(id services.ID) bool {
	return id >= 0 && int(id) < len(r.slots)
}

// Register stores f in the slot named by f.ID() and records its declared
// dependencies. The registry takes its own reference on f.
func (r *Registry) Register(ctx context.Context, f services.Factory) error {
	if f == nil {
		return &Error{Op: OpRegister, ID: -1, Err: ErrNilFactory}
	}

	_, unlock := r.enter(ctx)
	defer unlock()

	id := f.ID()
	s, ok := r.slotFor(id)
	if !ok {
		return &Error{Op: OpRegister, ID: id, Name: f.Name(), Err: ErrIDInvalid}
	}
	if s.factory != nil {
		return &Error{Op: OpRegister, ID: id, Name: f.Name(), Err: ErrIDConflict}
	}

	createDeps := f.CreateDependencies()
	destroyDeps := f.DestroyDependencies()
	for _, deps := range [][]services.ID{createDeps, destroyDeps} {
		if len(deps) > len(r.slots) {
			return &Error{Op: OpRegister, ID: id, Name: f.Name(), Err: ErrDependencyList}
		}
		for _, d := range deps {
			if !r.validID(d) {
				return &Error{Op: OpRegister, ID: id, Name: f.Name(), Err: ErrDependencyList}
			}
		}
	}

	f.AddRef()
	s.factory = f
	s.name = f.Name()
	s.createRequires = slices.Clone(createDeps)
	s.destroyRequires = slices.Clone(destroyDeps)

	for _, d := range createDeps {
		r.slots[d].createDependents = append(r.slots[d].createDependents, id)
	}
	for _, d := range destroyDeps {
		r.slots[d].destroyDependents = append(r.slots[d].destroyDependents, id)
	}

	logging.Debug(subsystem, "Registered service %d (%s), create deps %v, destroy deps %v", id, s.name, createDeps, destroyDeps)
	return nil
}

// Get returns the instance for id, creating it and its create dependencies
// on first use.
//
// A slot that failed earlier yields (nil, nil): the failure was already
// reported to the caller that triggered it.
func (r *Registry) Get(ctx context.Context, id services.ID) (services.Service, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	s, ok := r.slotFor(id)
	if !ok {
		return nil, &Error{Op: OpGet, ID: id, Err: ErrIDInvalid}
	}

	if r.inOperation(ctx) {
		if !s.enabled {
			return nil, &Error{Op: OpGet, ID: id, Name: s.name, Err: ErrOutOfDependency}
		}
		return r.resolve(ctx, s)
	}

	// Fast path: a published instance needs no lock.
	if s.loadStatus() == StatusCreated {
		if svc := s.loadInstance(); svc != nil {
			return svc, nil
		}
	}

	ctx, unlock := r.enter(ctx)
	defer unlock()
	return r.resolve(ctx, s)
}

// Acquire resolves id and wraps the instance in a handle that follows the
// registry's handle policy. The caller closes the handle when done. A slot
// without an instance yields an empty handle.
func (r *Registry) Acquire(ctx context.Context, id services.ID) (*services.Handle[services.Service], error) {
	svc, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return services.NewHandle(svc, r.policy), nil
}

// resolve applies the per-status rules of Get. Called with the lock held.
func (r *Registry) resolve(ctx context.Context, s *slot) (services.Service, error) {
	switch st := s.loadStatus(); st {
	case StatusNone:
		if s.factory == nil {
			return nil, &Error{Op: OpGet, ID: s.id, Err: ErrNotRegistered}
		}
		if err := r.create(ctx, s); err != nil {
			return nil, err
		}
		return s.loadInstance(), nil
	case StatusCreatingRequirements, StatusCreating:
		return nil, &Error{Op: OpGet, ID: s.id, Name: s.name, Err: ErrCycleCreate}
	case StatusCreated, StatusDestroyingDependents:
		return s.loadInstance(), nil
	case StatusDestroying:
		return nil, &Error{Op: OpGet, ID: s.id, Name: s.name, Err: ErrCycleDestroy}
	case StatusDestroyed:
		return nil, &Error{Op: OpGet, ID: s.id, Name: s.name, Err: ErrDestroyed}
	default: // StatusException
		return nil, nil
	}
}

// Status reports the lifecycle state of id.
func (r *Registry) Status(id services.ID) (Status, error) {
	s, ok := r.slotFor(id)
	if !ok {
		return StatusNone, &Error{Op: OpGet, ID: id, Err: ErrIDInvalid}
	}
	return s.loadStatus(), nil
}

// Clear tears down every live service and empties all slots, dropping the
// registry's factory references. Slots are reset even when teardown fails;
// the teardown error is returned.
func (r *Registry) Clear(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if r.inOperation(ctx) {
		return &Error{Op: OpClear, ID: -1, Err: ErrInProgress}
	}

	ctx, unlock := r.enter(ctx)
	defer unlock()

	err := r.destroyAll(ctx)

	for i := range r.slots {
		s := &r.slots[i]
		if svc := s.loadInstance(); svc != nil {
			s.setInstance(nil)
			if rerr := r.release(ctx, svc); rerr != nil {
				logging.Warn(subsystem, "Releasing service %d (%s) during clear failed: %v", s.id, s.name, rerr)
			}
			r.metrics.ServiceGone()
		}
		if s.factory != nil {
			s.factory.Release()
		}
		s.reset()
	}

	logging.Debug(subsystem, "Registry cleared")
	return err
}
