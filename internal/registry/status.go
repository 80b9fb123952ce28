package registry

import "fmt"

// Status is the lifecycle state of a slot.
//
//	none -> creating_requirements -> creating -> created
//	created -> destroying_dependents -> destroying -> destroyed
//
// Any intermediate state may move to exception, which is terminal.
type Status int32

const (
	StatusNone Status = iota
	StatusCreatingRequirements
	StatusCreating
	StatusCreated
	StatusDestroyingDependents
	StatusDestroying
	StatusDestroyed
	StatusException
)

var statusNames = [...]string{
	StatusNone:                 "none",
	StatusCreatingRequirements: "creating_requirements",
	StatusCreating:             "creating",
	StatusCreated:              "created",
	StatusDestroyingDependents: "destroying_dependents",
	StatusDestroying:           "destroying",
	StatusDestroyed:            "destroyed",
	StatusException:            "exception",
}

func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", int32(s))
}

// MarshalText renders the status by name, so snapshots read well as JSON.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a status name produced by MarshalText.
func (s *Status) UnmarshalText(text []byte) error {
	for i, name := range statusNames {
		if name == string(text) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}
