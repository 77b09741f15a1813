package store

import (
	"errors"
	"fmt"
	"io"
)

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

// Item is one (type, key, value) triple for bulk insertion.
type Item[V any] struct {
	Type  string
	Key   string
	Value V
}

// EventType classifies a change notification.
type EventType int

const (
	EventAdded EventType = iota
	EventUpdated
	EventRemoved
)

func (e EventType) String() string {
	switch e {
	case EventAdded:
		return "Added"
	case EventUpdated:
		return "Updated"
	case EventRemoved:
		return "Removed"
	default:
		return "Unknown"
	}
}

// Event describes one applied mutation. Observers receive it synchronously
// on the mutating goroutine, after the mutation is visible in the
// authoritative collection and the write lock has been released.
type Event[V any] struct {
	Type  EventType
	Entry Item[V]
}

// Observer is a change-notification callback registered on a store
// instance. A slow observer delays the caller of the mutation, never other
// mutations queued behind the store lock.
type Observer[V any] func(Event[V])

// TypeCount is one row of the per-type statistics mapping.
type TypeCount struct {
	Type  string
	Count int
}

// --------------------------------------------------------------------------
// Triple Store Interface
// --------------------------------------------------------------------------

// ITripleStore is the generic interface for the concurrent (type, key) ->
// value store. All returned sequences and mappings are detached snapshots;
// later mutations never change an already returned result.
//
// After Close, every operation fails with a RetCStoreClosed error.
type ITripleStore[V any] interface {

	// --------------------------------------------------------------------------
	// Write Operations
	// --------------------------------------------------------------------------

	// Add inserts iff the (type, key) pair is absent and capacity allows.
	// Returns false (no error) on a duplicate pair; returns a
	// RetCCapacityExceeded error when the store is full.
	Add(entryType, key string, value V) (added bool, err error)

	// AddRange applies Add to each item under a single write-lock
	// acquisition and returns the number of items actually inserted.
	// Duplicates are skipped silently. A capacity violation mid-batch
	// aborts the remaining items but keeps prior successes applied
	// (apply-until-failure, no rollback) and is reported as a
	// RetCCapacityExceeded error alongside the applied count.
	AddRange(items []Item[V]) (added int, err error)

	// UpdateValue replaces the value iff the pair exists. Type and key are
	// immutable once set. Returns false (no error) if the pair is absent.
	UpdateValue(entryType, key string, value V) (updated bool, err error)

	// RemoveKey removes the exact (type, key) pair. Returns false when
	// nothing matched.
	RemoveKey(entryType, key string) (removed bool, err error)

	// RemoveKeyAll removes the key from every type. Returns false when
	// nothing matched.
	RemoveKeyAll(key string) (removed bool, err error)

	// RemoveType removes every entry of the given type. Returns false when
	// nothing matched.
	RemoveType(entryType string) (removed bool, err error)

	// Clear drops every entry and evicts the whole cache. Observers are
	// not notified.
	Clear() (err error)

	// --------------------------------------------------------------------------
	// Query Operations
	// --------------------------------------------------------------------------

	// Get performs a cache-first lookup. On a cache miss it falls back to
	// the authoritative collection under a read lock, repopulates the
	// cache and returns the value. Fails with a RetCKeyNotFound error if
	// the pair is absent in both.
	Get(entryType, key string) (value V, err error)

	// ContainsKey reports whether the exact (type, key) pair exists.
	ContainsKey(entryType, key string) (ok bool, err error)

	// GetValuesByType returns a snapshot of all values of one type,
	// ordered by key.
	GetValuesByType(entryType string) (values []V, err error)

	// GetKeysByType returns a snapshot of all keys of one type, sorted.
	GetKeysByType(entryType string) (keys []string, err error)

	// GetTypeStatistics returns entry counts per type, sorted by type.
	GetTypeStatistics() (stats []TypeCount, err error)

	// SearchAllByKey returns every value stored under the key across all
	// types, ordered by type. An empty result is not an error.
	SearchAllByKey(key string) (values []V, err error)

	// Len returns the current entry count.
	Len() int

	// --------------------------------------------------------------------------
	// Lifecycle and Introspection
	// --------------------------------------------------------------------------

	// Subscribe registers an observer and returns its unsubscribe
	// function. The observer lifecycle is tied to this store instance.
	Subscribe(obs Observer[V]) (unsubscribe func())

	// GetInfo returns statistics about the store.
	GetInfo() (info StoreInfo)

	// WriteMetrics writes the store's operation counters in Prometheus
	// text format.
	WriteMetrics(w io.Writer)

	// Close tears the store down: both the authoritative collection and
	// the cache are cleared and all further operations fail.
	Close() (err error)
}

// --------------------------------------------------------------------------
// Store Info
// --------------------------------------------------------------------------

// StoreInfo describes the current shape of a store. All size values are
// estimates based on sampling.
type StoreInfo struct {
	Entries             int     `json:"entries"`
	Capacity            int     `json:"capacity"` // 0 = unbounded
	Types               int     `json:"types"`
	AvgValueSize        int     `json:"avg_value_size"`
	MedianValueSize     int     `json:"median_value_size"`
	DistributionQuality float64 `json:"distribution_quality"` // entry spread across types, 0..1
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is the store error type wrapping a return code and a message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("TripleStoreError (code %s): %s", e.Code, e.Msg)
}

// NewError creates a new store Error with the given code and message.
func NewError(code RetCode, format string, args ...interface{}) *Error {
	return &Error{
		Code: code,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// HasCode reports whether err is, or wraps, a store Error carrying the
// given code.
func HasCode(err error, code RetCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCCapacityExceeded RetCode = iota // 0: Mutation would exceed the capacity ceiling.
	RetCKeyNotFound                     // 1: The (type, key) pair is absent.
	RetCStoreClosed                     // 2: Operation invoked after Close.
	RetCNotInitialized                  // 3: Operation invoked before its required predecessor step.
)

func (c RetCode) String() string {
	switch c {
	case RetCCapacityExceeded:
		return "CapacityExceeded"
	case RetCKeyNotFound:
		return "KeyNotFound"
	case RetCStoreClosed:
		return "StoreClosed"
	case RetCNotInitialized:
		return "NotInitialized"
	default:
		return "Unknown"
	}
}
