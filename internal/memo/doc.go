// Package memo is the incremental computation engine behind the analysis
// host. Queries are registered functions over a revisioned input store;
// results are memoized together with the exact reads that produced them,
// and revalidated bottom-up after writes. A recomputation that produces
// a value equal to the previous one stops invalidation from spreading
// further (early cutoff), so an edit inside one file typically reruns
// only that file's pipeline plus a cheap index merge.
//
// Writes go through Engine.Write and act as barriers: in-flight
// computations pinned to the old revision abort with ErrSuperseded at
// their next tracked read, and their partial results are discarded
// rather than cached. Errors are never memoized.
package memo
