package model

import (
	"math"
	"sync/atomic"
)

// Unit represents a single hydroelectric generation unit.
//
// Capacity and the operating band are fixed at construction. The water level
// is written only by the unit's own simulation goroutine but read by the
// allocator and the sorter, hence it is stored atomically. The active flag is
// flipped only while holding the registry lock; reads are lock-free.
type Unit struct {
	Name          string  `json:"name" yaml:"name"`
	Kind          string  `json:"kind" yaml:"kind"`
	Capacity      float64 `json:"capacity" yaml:"capacity"`
	MinWaterLevel float64 `json:"minWaterLevel" yaml:"minWaterLevel"`
	MaxWaterLevel float64 `json:"maxWaterLevel" yaml:"maxWaterLevel"`

	level  atomic.Uint64
	active atomic.Bool
}

// NewUnit creates an inactive unit with the supplied water level.
func NewUnit(name, kind string, capacity, minLevel, maxLevel, level float64) *Unit {
	ret := &Unit{
		Name:          name,
		Kind:          kind,
		Capacity:      capacity,
		MinWaterLevel: minLevel,
		MaxWaterLevel: maxLevel,
	}
	ret.SetWaterLevel(level)
	return ret
}

// WaterLevel returns the current reservoir level.
func (u *Unit) WaterLevel() float64 {
	return math.Float64frombits(u.level.Load())
}

// SetWaterLevel replaces the current reservoir level.
func (u *Unit) SetWaterLevel(level float64) {
	u.level.Store(math.Float64bits(level))
}

// AddWaterLevel adds delta to the reservoir level and returns the new value.
// Only the owning simulation goroutine calls it, so load-then-store is safe.
func (u *Unit) AddWaterLevel(delta float64) float64 {
	level := u.WaterLevel() + delta
	u.SetWaterLevel(level)
	return level
}

// IsActive reports whether the unit currently contributes to generation.
func (u *Unit) IsActive() bool {
	return u.active.Load()
}

// SetActive flips the active flag. Callers must hold the registry lock so
// that the aggregate total stays consistent with the flag.
func (u *Unit) SetActive(active bool) bool {
	return u.active.Swap(active) != active
}

// RelativeFill returns (level - min) / (max - min).
func (u *Unit) RelativeFill() float64 {
	return RelativeFill(u.WaterLevel(), u.MinWaterLevel, u.MaxWaterLevel)
}

// Eligible reports whether the unit may be activated: its level is strictly
// inside the band, so it would not be released on the next tick.
func (u *Unit) Eligible() bool {
	level := u.WaterLevel()
	return level > u.MinWaterLevel && level < u.MaxWaterLevel
}

// OutOfBand reports whether level is at or beyond either band edge.
func (u *Unit) OutOfBand(level float64) bool {
	return level <= u.MinWaterLevel || level >= u.MaxWaterLevel
}

// Status returns a point-in-time copy of the unit state.
func (u *Unit) Status() UnitStatus {
	return UnitStatus{
		Name:          u.Name,
		Kind:          u.Kind,
		Capacity:      u.Capacity,
		MinWaterLevel: u.MinWaterLevel,
		MaxWaterLevel: u.MaxWaterLevel,
		WaterLevel:    u.WaterLevel(),
		Active:        u.IsActive(),
	}
}

// UnitStatus is a serialisable snapshot of a unit.
type UnitStatus struct {
	Name          string  `json:"name" yaml:"name"`
	Kind          string  `json:"kind" yaml:"kind"`
	Capacity      float64 `json:"capacity" yaml:"capacity"`
	MinWaterLevel float64 `json:"minWaterLevel" yaml:"minWaterLevel"`
	MaxWaterLevel float64 `json:"maxWaterLevel" yaml:"maxWaterLevel"`
	WaterLevel    float64 `json:"waterLevel" yaml:"waterLevel"`
	Active        bool    `json:"active" yaml:"active"`
}

// RelativeFill normalises level against the [minLevel, maxLevel] band.
func RelativeFill(level, minLevel, maxLevel float64) float64 {
	span := maxLevel - minLevel
	if span <= 0 {
		return 0
	}
	return (level - minLevel) / span
}

// Priority is the allocation ordering key of a unit.
type Priority struct {
	Capacity float64
	Fill     float64
}

// PriorityOf samples the ordering key of u.
func PriorityOf(u *Unit) Priority {
	return Priority{Capacity: u.Capacity, Fill: u.RelativeFill()}
}

// Compare returns a negative value when p ranks ahead of o, positive when it
// ranks behind and zero for equal priority. Higher capacity ranks first, then
// the fuller reservoir.
func (p Priority) Compare(o Priority) int {
	switch {
	case p.Capacity > o.Capacity:
		return -1
	case p.Capacity < o.Capacity:
		return 1
	case p.Fill > o.Fill:
		return -1
	case p.Fill < o.Fill:
		return 1
	}
	return 0
}
