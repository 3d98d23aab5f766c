package model

import "fmt"

// UnitType describes a family of identical units and how many to build.
type UnitType struct {
	Kind          string  `json:"kind" yaml:"kind"`
	Capacity      float64 `json:"capacity" yaml:"capacity"`
	MinWaterLevel float64 `json:"min" yaml:"min"`
	MaxWaterLevel float64 `json:"max" yaml:"max"`
	Count         int     `json:"count" yaml:"count"`
}

// Midpoint returns the initial water level for units of this type.
func (t UnitType) Midpoint() float64 {
	return (t.MinWaterLevel + t.MaxWaterLevel) / 2
}

// DefaultUnitTypes returns the H1/H2/H3 templates with zero counts.
func DefaultUnitTypes() []UnitType {
	return []UnitType{
		{Kind: "H1", Capacity: 15, MinWaterLevel: 50, MaxWaterLevel: 200},
		{Kind: "H2", Capacity: 5, MinWaterLevel: 25, MaxWaterLevel: 100},
		{Kind: "H3", Capacity: 2, MinWaterLevel: 10, MaxWaterLevel: 50},
	}
}

// TotalCapacity returns sum(count * capacity) over types.
func TotalCapacity(types []UnitType) float64 {
	total := 0.0
	for _, aType := range types {
		total += float64(aType.Count) * aType.Capacity
	}
	return total
}

// Inventory builds units for every type, named <kind>-<n> and starting at
// the band midpoint. Units are returned in type order.
func Inventory(types []UnitType) []*Unit {
	var units []*Unit
	for _, aType := range types {
		for i := 1; i <= aType.Count; i++ {
			name := fmt.Sprintf("%s-%d", aType.Kind, i)
			units = append(units, NewUnit(name, aType.Kind, aType.Capacity, aType.MinWaterLevel, aType.MaxWaterLevel, aType.Midpoint()))
		}
	}
	return units
}
