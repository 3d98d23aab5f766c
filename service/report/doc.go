// Package report defines the records emitted while a grid runs (one per
// allocation pass and one final summary) and the sinks that receive them.
//
// Sinks compose: an EventSink forwards passes asynchronously to another
// sink, a Multi fans out to several, and a StorageSink persists the final
// summary to any afs URL.
package report
