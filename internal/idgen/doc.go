// Package idgen generates run identifiers. NewFunc can be replaced in tests
// to make identifiers predictable.
package idgen
