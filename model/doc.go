// Package model defines the grid data model: generation units, unit type
// templates used to build an inventory, and the weighted rain outcomes that
// drive water levels.
package model
