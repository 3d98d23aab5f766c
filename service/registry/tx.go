package registry

import "github.com/viant/hydrogrid/model"

// Tx is a locked view of the registry handed to Update callbacks. It must not
// be retained after the callback returns.
type Tx struct {
	registry *Registry
}

// Units returns the units in priority order. The slice is owned by the
// registry; do not modify it.
func (t *Tx) Units() []*model.Unit {
	return t.registry.units
}

// Total returns the aggregate active capacity.
func (t *Tx) Total() float64 {
	return t.registry.total
}

// Activate sets aUnit active and adds its capacity to the total.
func (t *Tx) Activate(aUnit *model.Unit) bool {
	return t.registry.activate(aUnit)
}

// Deactivate clears aUnit and subtracts its capacity from the total.
func (t *Tx) Deactivate(aUnit *model.Unit) bool {
	return t.registry.deactivate(aUnit)
}

// Snapshot returns per-unit status in current order.
func (t *Tx) Snapshot() []model.UnitStatus {
	return snapshot(t.registry.units)
}
