package registry

import (
	"fmt"
	"slices"
	"sync"

	"github.com/viant/hydrogrid/model"
)

// Registry keeps generation units ordered by allocation priority. A single
// mutex guards the order, the active flags and the aggregate total.
type Registry struct {
	mux   sync.Mutex
	units []*model.Unit
	total float64
}

// New creates a registry populated through InsertSorted.
func New(units ...*model.Unit) *Registry {
	ret := &Registry{}
	for _, aUnit := range units {
		ret.InsertSorted(aUnit)
	}
	return ret
}

// InsertSorted places aUnit after every unit ranking ahead of or equal to it,
// so equal-priority units keep insertion order.
func (r *Registry) InsertSorted(aUnit *model.Unit) {
	key := model.PriorityOf(aUnit)

	r.mux.Lock()
	defer r.mux.Unlock()

	idx := len(r.units)
	for i, candidate := range r.units {
		if key.Compare(model.PriorityOf(candidate)) < 0 {
			idx = i
			break
		}
	}
	r.units = slices.Insert(r.units, idx, aUnit)
	if aUnit.IsActive() {
		r.total += aUnit.Capacity
	}
}

// Resort re-orders all units by current priority. Keys are sampled once per
// unit before sorting, so water levels changing mid-sort cannot break the
// comparator. The sort is stable.
func (r *Registry) Resort() {
	r.mux.Lock()
	defer r.mux.Unlock()

	type entry struct {
		unit *model.Unit
		key  model.Priority
	}
	entries := make([]entry, len(r.units))
	for i, aUnit := range r.units {
		entries[i] = entry{unit: aUnit, key: model.PriorityOf(aUnit)}
	}
	slices.SortStableFunc(entries, func(a, b entry) int {
		return a.key.Compare(b.key)
	})
	for i := range entries {
		r.units[i] = entries[i].unit
	}
}

// Update runs fn holding the registry lock for its whole duration.
func (r *Registry) Update(fn func(tx *Tx)) {
	r.mux.Lock()
	defer r.mux.Unlock()
	fn(&Tx{registry: r})
}

// Deactivate clears the active flag of aUnit and subtracts its capacity from
// the total. It returns false when the unit was already inactive.
func (r *Registry) Deactivate(aUnit *model.Unit) bool {
	r.mux.Lock()
	defer r.mux.Unlock()
	return r.deactivate(aUnit)
}

// DeactivateAll releases every unit; the total drops to zero.
func (r *Registry) DeactivateAll() int {
	r.mux.Lock()
	defer r.mux.Unlock()
	released := 0
	for _, aUnit := range r.units {
		if r.deactivate(aUnit) {
			released++
		}
	}
	return released
}

// Total returns the aggregate active capacity.
func (r *Registry) Total() float64 {
	r.mux.Lock()
	defer r.mux.Unlock()
	return r.total
}

// Len returns the number of registered units.
func (r *Registry) Len() int {
	r.mux.Lock()
	defer r.mux.Unlock()
	return len(r.units)
}

// Units returns a copy of the current order.
func (r *Registry) Units() []*model.Unit {
	r.mux.Lock()
	defer r.mux.Unlock()
	return slices.Clone(r.units)
}

// Snapshot returns per-unit status in current order.
func (r *Registry) Snapshot() []model.UnitStatus {
	r.mux.Lock()
	defer r.mux.Unlock()
	return snapshot(r.units)
}

// Verify recomputes the active capacity and compares it with the running total.
func (r *Registry) Verify() error {
	r.mux.Lock()
	defer r.mux.Unlock()
	sum := 0.0
	for _, aUnit := range r.units {
		if aUnit.IsActive() {
			sum += aUnit.Capacity
		}
	}
	if sum != r.total {
		return fmt.Errorf("%w: running %v, recomputed %v", ErrTotalMismatch, r.total, sum)
	}
	return nil
}

func (r *Registry) activate(aUnit *model.Unit) bool {
	if !aUnit.SetActive(true) {
		return false
	}
	r.total += aUnit.Capacity
	return true
}

func (r *Registry) deactivate(aUnit *model.Unit) bool {
	if !aUnit.SetActive(false) {
		return false
	}
	r.total -= aUnit.Capacity
	return true
}

func snapshot(units []*model.Unit) []model.UnitStatus {
	ret := make([]model.UnitStatus, len(units))
	for i, aUnit := range units {
		ret[i] = aUnit.Status()
	}
	return ret
}
