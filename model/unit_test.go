package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriority_Compare(t *testing.T) {
	testCases := []struct {
		name   string
		a      Priority
		b      Priority
		expect int
	}{
		{name: "higher capacity first", a: Priority{Capacity: 15, Fill: 0.1}, b: Priority{Capacity: 5, Fill: 0.9}, expect: -1},
		{name: "lower capacity last", a: Priority{Capacity: 2, Fill: 1}, b: Priority{Capacity: 5, Fill: 0}, expect: 1},
		{name: "fuller reservoir first", a: Priority{Capacity: 5, Fill: 0.8}, b: Priority{Capacity: 5, Fill: 0.4}, expect: -1},
		{name: "emptier reservoir last", a: Priority{Capacity: 5, Fill: 0.2}, b: Priority{Capacity: 5, Fill: 0.4}, expect: 1},
		{name: "equal", a: Priority{Capacity: 5, Fill: 0.5}, b: Priority{Capacity: 5, Fill: 0.5}, expect: 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.a.Compare(tc.b))
		})
	}
}

func TestUnit_State(t *testing.T) {
	aUnit := NewUnit("H2-1", "H2", 5, 25, 100, 62.5)
	assert.InDelta(t, 0.5, aUnit.RelativeFill(), 1e-9)
	assert.True(t, aUnit.Eligible())
	assert.False(t, aUnit.IsActive())

	assert.True(t, aUnit.SetActive(true))
	assert.False(t, aUnit.SetActive(true), "no flip when already active")
	assert.True(t, aUnit.IsActive())

	assert.Equal(t, 57.5, aUnit.AddWaterLevel(-5))
	aUnit.SetWaterLevel(25)
	assert.False(t, aUnit.Eligible(), "level at minimum is not eligible")
	assert.True(t, aUnit.OutOfBand(25))
	assert.True(t, aUnit.OutOfBand(100))
	assert.False(t, NewUnit("H2-2", "H2", 5, 25, 100, 100).Eligible(), "level at maximum is not eligible")
	assert.False(t, aUnit.OutOfBand(99.9))

	status := aUnit.Status()
	assert.Equal(t, "H2-1", status.Name)
	assert.Equal(t, 25.0, status.WaterLevel)
	assert.True(t, status.Active)
}

func TestInventory(t *testing.T) {
	types := DefaultUnitTypes()
	types[0].Count = 2
	types[2].Count = 1
	units := Inventory(types)
	if !assert.Len(t, units, 3) {
		return
	}
	assert.Equal(t, "H1-1", units[0].Name)
	assert.Equal(t, "H1-2", units[1].Name)
	assert.Equal(t, "H3-1", units[2].Name)
	assert.Equal(t, 125.0, units[0].WaterLevel())
	assert.Equal(t, 30.0, units[2].WaterLevel())
	assert.Equal(t, 32.0, TotalCapacity(types))
}
