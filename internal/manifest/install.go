package manifest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"svcctl/internal/services"
	"svcctl/pkg/logging"
)

const subsystem = "Manifest"

// ErrFailOnCreate is returned by constructors of entries marked failOnCreate.
var ErrFailOnCreate = errors.New("manifest: constructor configured to fail")

// Phase names a lifecycle event recorded in a Trace.
type Phase string

const (
	PhaseCreate  Phase = "create"
	PhaseDestroy Phase = "destroy"
)

// Event is one recorded constructor or destructor run.
type Event struct {
	Phase Phase       `json:"phase"`
	ID    services.ID `json:"id"`
	Name  string      `json:"name"`
}

func (e Event) String() string {
	return fmt.Sprintf("%s:%d", e.Phase, e.ID)
}

// Trace records the order in which manifest services are built and torn
// down. It is safe for concurrent use.
type Trace struct {
	mu     sync.Mutex
	events []Event
	errs   []error
}

// NewTrace returns an empty trace.
func NewTrace() *Trace {
	return &Trace{}
}

func (t *Trace) record(e Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, e)
}

func (t *Trace) recordErr(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errs = append(t.errs, err)
}

// Events returns a copy of all recorded events.
func (t *Trace) Events() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Event(nil), t.events...)
}

// Order returns the IDs of the events of one phase, in order.
func (t *Trace) Order(phase Phase) []services.ID {
	t.mu.Lock()
	defer t.mu.Unlock()

	var ids []services.ID
	for _, e := range t.events {
		if e.Phase == phase {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// Errors returns the lookup errors destructors ran into. Destructors cannot
// return errors, so they are collected here instead.
func (t *Trace) Errors() []error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]error(nil), t.errs...)
}

// Registrar is the part of the registry Install needs.
type Registrar interface {
	Register(ctx context.Context, f services.Factory) error
}

// node is the service type every manifest entry builds.
type node struct {
	services.Base
	entry Service
}

// Install registers one tracing factory per manifest entry. Registration
// stops at the first error.
func Install(ctx context.Context, reg Registrar, m *Manifest, trace *Trace) error {
	for _, entry := range m.Services {
		f := NewFactory(entry, trace)
		err := reg.Register(ctx, f)
		// The registry holds its own reference on success.
		f.Release()
		if err != nil {
			return fmt.Errorf("failed to install service %d (%s): %w", entry.ID, entry.Name, err)
		}
	}
	logging.Debug(subsystem, "Installed %d services", len(m.Services))
	return nil
}

// NewFactory builds the factory of one manifest entry. Its constructor
// resolves the entry's uses and records a create event; its destructor
// resolves the destroy uses and records a destroy event.
func NewFactory(entry Service, trace *Trace) *services.FuncFactory {
	return services.NewFactory(services.FactoryConfig{
		ID:                  entry.ID,
		Name:                entry.Name,
		Description:         entry.Description,
		CreateDependencies:  entry.CreateDependencies,
		DestroyDependencies: entry.DestroyDependencies,
		New: func(ctx context.Context, r services.Resolver) (services.Service, error) {
			for _, id := range entry.ConstructorUses() {
				if _, err := r.Get(ctx, id); err != nil {
					return nil, err
				}
			}
			if entry.FailOnCreate {
				return nil, fmt.Errorf("%w: %s", ErrFailOnCreate, entry.Name)
			}

			n := &node{entry: entry}
			n.Init(func(ctx context.Context) {
				for _, id := range entry.DestructorUses() {
					if _, err := r.Get(ctx, id); err != nil {
						logging.Warn(subsystem, "Destructor of %s could not resolve %d: %v", entry.Name, id, err)
						trace.recordErr(err)
					}
				}
				trace.record(Event{Phase: PhaseDestroy, ID: entry.ID, Name: entry.Name})
			})
			trace.record(Event{Phase: PhaseCreate, ID: entry.ID, Name: entry.Name})
			return n, nil
		},
	})
}
