package registry

import (
	"errors"
	"fmt"

	"svcctl/internal/services"
)

var (
	// ErrIDInvalid is returned for an ID outside the registry capacity.
	ErrIDInvalid = errors.New("registry: service id out of range")

	// ErrIDConflict is returned when a second factory is registered for an ID.
	ErrIDConflict = errors.New("registry: service id already registered")

	// ErrDependencyList is returned when a declared dependency list is longer
	// than the capacity or names an ID outside it.
	ErrDependencyList = errors.New("registry: malformed dependency list")

	// ErrNilFactory is returned when Register is called with a nil factory.
	ErrNilFactory = errors.New("registry: nil factory")

	// ErrNotRegistered is returned when a service with no factory is requested.
	ErrNotRegistered = errors.New("registry: service not registered")

	// ErrDestroyed is returned when a service is requested after its teardown.
	ErrDestroyed = errors.New("registry: service already destroyed")

	// ErrCycleCreate is returned when a creation re-enters a slot still being created.
	ErrCycleCreate = errors.New("registry: creation cycle detected")

	// ErrCycleDestroy is returned when a destruction re-enters a slot still being destroyed.
	ErrCycleDestroy = errors.New("registry: destruction cycle detected")

	// ErrOutOfDependency is returned when a constructor or destructor reaches a
	// service it did not declare.
	ErrOutOfDependency = errors.New("registry: service outside declared dependencies")

	// ErrInProgress is returned when an operation meets a slot, or a registry,
	// in the middle of another transition.
	ErrInProgress = errors.New("registry: operation already in progress")

	// ErrRequirementFailed is returned when a create requirement failed
	// earlier and its dependent can therefore not be built.
	ErrRequirementFailed = errors.New("registry: create requirement failed earlier")

	// ErrNoInstance is returned when a factory reports success without an instance.
	ErrNoInstance = errors.New("registry: factory returned no instance")

	// ErrPanic wraps a panic raised by a constructor or destructor.
	ErrPanic = errors.New("registry: panic in service code")

	// ErrWrongType is returned by Lookup when the live instance is not of the requested type.
	ErrWrongType = errors.New("registry: service has unexpected type")
)

// Op names the registry operation that failed.
type Op string

const (
	OpRegister Op = "register"
	OpGet      Op = "get"
	OpCreate   Op = "create"
	OpDestroy  Op = "destroy"
	OpClear    Op = "clear"
)

// Error is the error type returned by registry operations. It unwraps to one
// of the sentinel errors above, or to the error raised by service code, so
// callers test it with errors.Is.
type Error struct {
	Op   Op
	ID   services.ID
	Name string
	Err  error
}

func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s service %d (%s): %v", e.Op, e.ID, e.Name, e.Err)
	}
	return fmt.Sprintf("%s service %d: %v", e.Op, e.ID, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// kinds maps each sentinel to the short label used in logs and metrics.
var kinds = []struct {
	err  error
	kind string
}{
	{ErrIDInvalid, "id_invalid"},
	{ErrIDConflict, "id_conflict"},
	{ErrDependencyList, "dependency_list"},
	{ErrNilFactory, "nil_factory"},
	{ErrNotRegistered, "not_registered"},
	{ErrDestroyed, "destroyed"},
	{ErrCycleCreate, "cycle_create"},
	{ErrCycleDestroy, "cycle_destroy"},
	{ErrOutOfDependency, "out_of_dependency"},
	{ErrInProgress, "in_progress"},
	{ErrRequirementFailed, "requirement_failed"},
	{ErrNoInstance, "no_instance"},
	{ErrPanic, "panic"},
	{ErrWrongType, "wrong_type"},
}

// Kind returns a short label for the registry sentinel in err's
// chain, "service" for errors raised by service code, or "" for nil.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "service"
}
