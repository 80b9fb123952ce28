package registry

import (
	"slices"

	"svcctl/internal/services"
)

// SlotInfo is a point-in-time view of one registered slot.
type SlotInfo struct {
	ID          services.ID `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Status      Status      `json:"status"`
	Live        bool        `json:"live"`

	CreateRequires    []services.ID `json:"createRequires,omitempty"`
	CreateDependents  []services.ID `json:"createDependents,omitempty"`
	DestroyRequires   []services.ID `json:"destroyRequires,omitempty"`
	DestroyDependents []services.ID `json:"destroyDependents,omitempty"`
}

// Snapshot returns every slot that has a factory, in ID order. It takes the
// registry lock and therefore must not be called from a constructor or
// destructor.
func (r *Registry) Snapshot() []SlotInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []SlotInfo
	for i := range r.slots {
		s := &r.slots[i]
		if s.factory == nil {
			continue
		}
		out = append(out, SlotInfo{
			ID:                s.id,
			Name:              s.name,
			Description:       s.factory.Description(),
			Status:            s.loadStatus(),
			Live:              s.loadInstance() != nil,
			CreateRequires:    slices.Clone(s.createRequires),
			CreateDependents:  slices.Clone(s.createDependents),
			DestroyRequires:   slices.Clone(s.destroyRequires),
			DestroyDependents: slices.Clone(s.destroyDependents),
		})
	}
	return out
}

// Registered returns the IDs that have a factory, in ascending order.
func (r *Registry) Registered() []services.ID {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ids []services.ID
	for i := range r.slots {
		if r.slots[i].factory != nil {
			ids = append(ids, r.slots[i].id)
		}
	}
	return ids
}
