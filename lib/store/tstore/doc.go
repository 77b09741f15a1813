// Package tstore implements the concurrent triple store: a
// capacity-bounded mapping from a (type, key) pair to a generic value with
// cached lookup and synchronous change notification. It provides the
// canonical implementation of the store.ITripleStore interface.
//
// The package focuses on:
//   - Reader/writer locking for the authoritative collection: multiple
//     concurrent readers, exclusive writers, no timeouts
//   - An independent lock-free lookaside cache (xsync.MapOf) populated
//     opportunistically on read and write
//   - Capacity enforcement with an optimistic lock-free pre-check and an
//     authoritative check under the write lock
//   - Per-instance observers notified synchronously after each mutation
//   - Operation counters in Prometheus text format
//
// Locking Discipline:
//
// The write lock is the sole mutation gate for the authoritative map.
// Public read operations take the read lock; internal helpers that assume
// a held lock carry the Locked suffix and are the only read paths used
// from within write contexts, so no lock is ever acquired re-entrantly.
//
// Cache Coherence:
//
// The cache is never the source of truth. The invariant "cache entry
// present implies authoritative entry present and equal" is maintained by
// ordering, not by sharing the store lock:
//
//   - every removal evicts the cache entry under the write lock before
//     deleting from the authoritative map
//   - the read-miss path repopulates the cache before releasing the read
//     lock, so it cannot interleave with an eviction
//
// A Get for a removed pair therefore always fails with KeyNotFound, even
// if the cache was populated immediately before the removal.
//
// Observer Delivery:
//
// Observers run synchronously on the mutating goroutine, strictly after
// the write lock has been released. A blocking observer delays the caller
// of that mutation but never other mutations queued behind the lock.
// Events of one bulk operation are delivered in application order;
// ordering between independent callers is unspecified.
//
// Batch Semantics:
//
// AddRange applies its items under a single write-lock acquisition with
// per-item Add semantics. On a mid-batch capacity violation the remaining
// items are aborted while prior successes stay applied; there is no
// rollback. Callers needing all-or-nothing behavior must pre-check
// capacity against Len.
package tstore
