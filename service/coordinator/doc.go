// Package coordinator wires the allocator, the simulation drivers and the
// sorter together for one run and sequences their shutdown.
//
// Two triggers connect the goroutines: a driver whose unit leaves its band
// fires the rebalance trigger consumed by the allocation loop, and every
// allocation pass fires the re-sort trigger consumed by the sorting loop.
// The run ends when the parent context is cancelled or the allocator
// exhausts its retry budget; either way every goroutine is joined before the
// final report is produced.
package coordinator
