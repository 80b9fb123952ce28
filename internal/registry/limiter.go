package registry

import "svcctl/internal/services"

// limit makes only ids resolvable from inside the current operation. The
// returned function puts back the visibility that was in force before, so
// nested limiters unwind correctly; for the outermost one that means every
// slot is reachable again. Called with the lock held.
func (r *Registry) limit(ids []services.ID) (restore func()) {
	prev := make([]bool, len(r.slots))
	for i := range r.slots {
		prev[i] = r.slots[i].enabled
		r.slots[i].enabled = false
	}
	for _, id := range ids {
		if r.validID(id) {
			r.slots[id].enabled = true
		}
	}

	return func() {
		for i := range r.slots {
			r.slots[i].enabled = prev[i]
		}
	}
}
