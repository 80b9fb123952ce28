package services

import (
	"context"
	"errors"
	"slices"

	"svcctl/internal/refcount"
)

// ErrNilConstructor is returned by a factory built without a constructor.
var ErrNilConstructor = errors.New("services: factory has no constructor")

// FactoryConfig declares a service type.
type FactoryConfig struct {
	ID          ID
	Name        string
	Description string

	// CreateDependencies must be fully constructed before New runs.
	CreateDependencies []ID
	// DestroyDependencies are destroyed after this service.
	DestroyDependencies []ID

	// New constructs the service. The returned value holds one reference.
	New func(ctx context.Context, r Resolver) (Service, error)

	// OnRelease runs when the last reference to the factory is dropped.
	OnRelease func()
}

// FuncFactory is the Factory built by NewFactory.
type FuncFactory struct {
	refs refcount.Counter
	cfg  FactoryConfig
}

// NewFactory builds a factory from cfg. Dependency lists are copied.
func NewFactory(cfg FactoryConfig) *FuncFactory {
	cfg.CreateDependencies = slices.Clone(cfg.CreateDependencies)
	cfg.DestroyDependencies = slices.Clone(cfg.DestroyDependencies)

	f := &FuncFactory{cfg: cfg}
	f.refs.Init()
	return f
}

func (f *FuncFactory) ID() ID              { return f.cfg.ID }
func (f *FuncFactory) Name() string        { return f.cfg.Name }
func (f *FuncFactory) Description() string { return f.cfg.Description }

// CreateDependencies returns a copy of the declared create-phase dependencies.
func (f *FuncFactory) CreateDependencies() []ID {
	return slices.Clone(f.cfg.CreateDependencies)
}

// DestroyDependencies returns a copy of the declared destroy-phase dependencies.
func (f *FuncFactory) DestroyDependencies() []ID {
	return slices.Clone(f.cfg.DestroyDependencies)
}

// Create runs the configured constructor.
func (f *FuncFactory) Create(ctx context.Context, r Resolver) (Service, error) {
	if f.cfg.New == nil {
		return nil, ErrNilConstructor
	}
	return f.cfg.New(ctx, r)
}

func (f *FuncFactory) AddRef() int32 {
	return f.refs.AddRef()
}

func (f *FuncFactory) Release() int32 {
	n := f.refs.Release()
	if n == 0 && f.cfg.OnRelease != nil {
		f.cfg.OnRelease()
	}
	return n
}

// RefCount reports the current number of references.
func (f *FuncFactory) RefCount() int32 {
	return f.refs.Count()
}
