// Package allocator brings aggregate generation back inside the configured
// band. Apply walks the registry in priority order activating eligible units
// until minimum generation is met, retrying a bounded number of times while
// units recover. When the retry budget runs out every unit is released and
// the halt hook fires.
package allocator
