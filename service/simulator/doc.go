// Package simulator drives the water level of each unit, one goroutine per
// unit. Every tick a unit either continues its current rain event or draws a
// new one, then consumes water while generating. An active unit that leaves
// its band deactivates itself and fires the rebalance signal.
package simulator
