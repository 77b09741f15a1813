// Package storetest provides a reusable conformance test suite for
// implementations of the store.ITripleStore interface. Implementation
// packages call RunTripleStoreTests with a factory from their own tests,
// so every backend is checked against the same behavioral contract:
// uniqueness of the (type, key) pair, boolean soft failures, capacity
// enforcement, snapshot isolation of query results, observer delivery and
// cache coherence after removal.
package storetest
