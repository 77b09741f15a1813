// Package store defines the generic interface for the concurrent triple
// store: a capacity-bounded mapping keyed by a (type, key) pair, generic
// over the stored value representation, with change notification and
// unified error handling.
//
// The package focuses on:
//   - A single interface (ITripleStore) for all store implementations, so
//     callers can swap backends without code changes
//   - A structured error system using typed return codes and descriptive
//     messages, allowing callers to branch on specific failure classes
//     instead of generic errors
//   - Event and observer types for synchronous change notification with a
//     per-instance subscription lifecycle
//   - An asynchronous adapter (AsyncStore) that offloads blocking store
//     calls to separate goroutines without ever holding a lock across a
//     suspension point
//
// Soft failures are boolean outcomes, not errors: inserting a duplicate
// (type, key) pair returns false from Add, removing or updating an absent
// pair returns false from the respective operation. These are routine,
// expected control flow for callers probing existence. Hard failures
// (capacity exceeded, key not found on Get, operations on a closed store)
// are *Error values carrying a RetCode.
//
// The canonical implementation lives in the
// "github.com/QingYi-Studio/tylddb/lib/store/tstore" package; the reusable
// conformance test suite in
// "github.com/QingYi-Studio/tylddb/lib/store/storetest".
package store
