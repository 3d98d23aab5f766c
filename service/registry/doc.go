// Package registry holds the ordered set of generation units shared by the
// allocator, the sorter and every simulation goroutine. Units are never
// removed once registered; only their water level and active flag change.
package registry
