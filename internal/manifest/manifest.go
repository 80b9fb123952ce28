package manifest

import (
	"fmt"
	"os"
	"slices"

	validator "github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"svcctl/internal/services"
)

// Manifest declares a graph of demo services.
type Manifest struct {
	Services []Service `yaml:"services" validate:"required,unique=ID,dive"`
}

// Service is one manifest entry. Uses and DestroyUses default to the
// declared create and destroy dependencies when left out.
type Service struct {
	ID                  services.ID   `yaml:"id" validate:"gte=0"`
	Name                string        `yaml:"name" validate:"required,stringnotempty"`
	Description         string        `yaml:"description,omitempty"`
	CreateDependencies  []services.ID `yaml:"createDependencies,omitempty" validate:"dive,gte=0"`
	DestroyDependencies []services.ID `yaml:"destroyDependencies,omitempty" validate:"dive,gte=0"`
	Uses                []services.ID `yaml:"uses,omitempty" validate:"dive,gte=0"`
	DestroyUses         []services.ID `yaml:"destroyUses,omitempty" validate:"dive,gte=0"`
	FailOnCreate        bool          `yaml:"failOnCreate,omitempty"`
}

// ConstructorUses returns the IDs the constructor resolves.
func (s Service) ConstructorUses() []services.ID {
	if s.Uses == nil {
		return s.CreateDependencies
	}
	return s.Uses
}

// DestructorUses returns the IDs the destructor resolves.
func (s Service) DestructorUses() []services.ID {
	if s.DestroyUses == nil {
		return s.DestroyDependencies
	}
	return s.DestroyUses
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes and validates a manifest document.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks IDs and names. Dependency IDs are only checked for sign
// here; the registry rejects those beyond its capacity at registration.
func (m *Manifest) Validate() error {
	validate := validator.New()
	if err := validate.RegisterValidation("stringnotempty", validateStringNotEmpty); err != nil {
		return fmt.Errorf("failed to register stringnotempty validation: %w", err)
	}
	return validate.Struct(m)
}

func validateStringNotEmpty(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if r != ' ' && r != '\t' {
			return true
		}
	}
	return false
}

// IDs returns the declared service IDs in ascending order.
func (m *Manifest) IDs() []services.ID {
	ids := make([]services.ID, 0, len(m.Services))
	for _, s := range m.Services {
		ids = append(ids, s.ID)
	}
	slices.Sort(ids)
	return ids
}

// Lookup returns the entry with the given ID.
func (m *Manifest) Lookup(id services.ID) (Service, bool) {
	for _, s := range m.Services {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}
