package tstore

import (
	"io"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/QingYi-Studio/tylddb/lib/store"
	"github.com/VictoriaMetrics/metrics"
	"github.com/puzpuzpuz/xsync/v3"
)

// --------------------------------------------------------------------------
// Core triple store structure
// --------------------------------------------------------------------------

// entryKey is the composite (type, key) identity of a stored value.
type entryKey struct {
	typ string
	key string
}

// storeImpl implements store.ITripleStore with a reader/writer-locked
// authoritative map and an independent lock-free lookaside cache.
//
// Invariant: a cache entry is only ever present while the matching
// authoritative entry is present and equal. Removal paths evict the cache
// entry under the write lock before deleting from the authoritative map,
// and the read-miss path repopulates the cache before releasing the read
// lock, so no stale-read window exists.
type storeImpl[V any] struct {
	capacity int         // maximum entry count, 0 = unbounded
	sizer    func(V) int // optional value size estimator for statistics

	mu      sync.RWMutex // sole mutation gate for the authoritative map
	entries map[entryKey]V

	cache *xsync.MapOf[entryKey, V]

	size   atomic.Int64 // entry count, readable without the lock
	closed atomic.Bool

	obsMu     sync.RWMutex
	observers []observerEntry[V]
	nextObsID atomic.Uint64

	// operation counters
	metrics      *metrics.Set
	mAdds        *metrics.Counter
	mUpdates     *metrics.Counter
	mRemoves     *metrics.Counter
	mCacheHits   *metrics.Counter
	mCacheMisses *metrics.Counter
}

type observerEntry[V any] struct {
	id uint64
	fn store.Observer[V]
}

// Options configures the triple store during initialization.
type Options[V any] struct {
	Capacity int         // Maximum entry count (0 = unbounded)
	Sizer    func(V) int // Value size estimator for GetInfo (nil = skip size stats)
}

// DefaultOptions returns the default triple store options.
func DefaultOptions[V any]() *Options[V] {
	return &Options[V]{}
}

// --------------------------------------------------------------------------
// Initialization and Setup
// --------------------------------------------------------------------------

// NewTripleStore creates a new triple store instance with the specified
// options (optional).
//
// Thread-safety: This function is not thread-safe and should only be called
// once per store during initialization.
func NewTripleStore[V any](opts *Options[V]) store.ITripleStore[V] {
	if opts == nil {
		opts = DefaultOptions[V]()
	}

	set := metrics.NewSet()
	s := &storeImpl[V]{
		capacity:     opts.Capacity,
		sizer:        opts.Sizer,
		entries:      make(map[entryKey]V),
		cache:        xsync.NewMapOf[entryKey, V](),
		metrics:      set,
		mAdds:        set.NewCounter("tylddb_store_adds_total"),
		mUpdates:     set.NewCounter("tylddb_store_updates_total"),
		mRemoves:     set.NewCounter("tylddb_store_removes_total"),
		mCacheHits:   set.NewCounter("tylddb_store_cache_hits_total"),
		mCacheMisses: set.NewCounter("tylddb_store_cache_misses_total"),
	}
	return s
}

// errClosed is the uniform failure for operations after Close.
func errClosed() *store.Error {
	return store.NewError(store.RetCStoreClosed, "store is closed")
}

// --------------------------------------------------------------------------
// Interface Methods - Write Operations (docu see store/interface.go)
// --------------------------------------------------------------------------

// Add inserts iff the (type, key) pair is absent and capacity allows.
//
// The capacity is checked optimistically against the atomic entry counter
// before acquiring the lock; the authoritative check happens under the
// write lock, after the duplicate check, so two concurrent adds cannot
// both claim the last slot and a duplicate on a full store stays a soft
// failure rather than a capacity error.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (s *storeImpl[V]) Add(entryType, key string, value V) (bool, error) {
	if s.closed.Load() {
		return false, errClosed()
	}

	k := entryKey{typ: entryType, key: key}

	// optimistic pre-check, cheap rejection without the lock. A cache hit
	// proves the pair already exists, so the duplicate outcome wins over
	// the capacity one.
	if s.capacity > 0 && int(s.size.Load()) >= s.capacity {
		if _, exists := s.cache.Load(k); exists {
			return false, nil
		}
	}

	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		return false, errClosed()
	}
	if _, exists := s.entries[k]; exists {
		s.mu.Unlock()
		return false, nil
	}
	if s.capacity > 0 && len(s.entries) >= s.capacity {
		s.mu.Unlock()
		return false, store.NewError(store.RetCCapacityExceeded,
			"capacity of %d entries reached", s.capacity)
	}

	s.entries[k] = value
	s.size.Store(int64(len(s.entries)))
	s.cache.Store(k, value)
	s.mu.Unlock()

	s.mAdds.Inc()
	s.notify(store.Event[V]{
		Type:  store.EventAdded,
		Entry: store.Item[V]{Type: entryType, Key: key, Value: value},
	})
	return true, nil
}

// AddRange applies Add semantics to each item under a single write-lock
// acquisition. A capacity violation aborts the remaining items but keeps
// prior successes applied (apply-until-failure, no rollback).
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (s *storeImpl[V]) AddRange(items []store.Item[V]) (int, error) {
	if s.closed.Load() {
		return 0, errClosed()
	}

	var (
		added  int
		events []store.Event[V]
		capErr error
	)

	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		return 0, errClosed()
	}
	for _, item := range items {
		k := entryKey{typ: item.Type, key: item.Key}
		if _, exists := s.entries[k]; exists {
			continue
		}
		if s.capacity > 0 && len(s.entries) >= s.capacity {
			capErr = store.NewError(store.RetCCapacityExceeded,
				"capacity of %d entries reached after %d of %d items",
				s.capacity, added, len(items))
			break
		}
		s.entries[k] = item.Value
		s.cache.Store(k, item.Value)
		added++
		events = append(events, store.Event[V]{Type: store.EventAdded, Entry: item})
	}
	s.size.Store(int64(len(s.entries)))
	s.mu.Unlock()

	s.mAdds.Add(added)
	s.notify(events...)
	return added, capErr
}

// UpdateValue replaces the value iff the pair exists. Type and key are
// immutable once set.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (s *storeImpl[V]) UpdateValue(entryType, key string, value V) (bool, error) {
	if s.closed.Load() {
		return false, errClosed()
	}

	k := entryKey{typ: entryType, key: key}

	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		return false, errClosed()
	}
	if _, exists := s.entries[k]; !exists {
		s.mu.Unlock()
		return false, nil
	}
	s.entries[k] = value
	s.cache.Store(k, value)
	s.mu.Unlock()

	s.mUpdates.Inc()
	s.notify(store.Event[V]{
		Type:  store.EventUpdated,
		Entry: store.Item[V]{Type: entryType, Key: key, Value: value},
	})
	return true, nil
}

// RemoveKey removes the exact (type, key) pair.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (s *storeImpl[V]) RemoveKey(entryType, key string) (bool, error) {
	if s.closed.Load() {
		return false, errClosed()
	}

	k := entryKey{typ: entryType, key: key}

	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		return false, errClosed()
	}
	value, exists := s.entries[k]
	if !exists {
		s.mu.Unlock()
		return false, nil
	}
	// evict before the authoritative delete, never after
	s.cache.Delete(k)
	delete(s.entries, k)
	s.size.Store(int64(len(s.entries)))
	s.mu.Unlock()

	s.mRemoves.Inc()
	s.notify(store.Event[V]{
		Type:  store.EventRemoved,
		Entry: store.Item[V]{Type: entryType, Key: key, Value: value},
	})
	return true, nil
}

// RemoveKeyAll removes the key from every type.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (s *storeImpl[V]) RemoveKeyAll(key string) (bool, error) {
	if s.closed.Load() {
		return false, errClosed()
	}
	return s.removeMatching(func(k entryKey) bool { return k.key == key })
}

// RemoveType removes every entry of the given type.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (s *storeImpl[V]) RemoveType(entryType string) (bool, error) {
	if s.closed.Load() {
		return false, errClosed()
	}
	return s.removeMatching(func(k entryKey) bool { return k.typ == entryType })
}

// removeMatching deletes every entry the predicate matches, cache first.
func (s *storeImpl[V]) removeMatching(match func(entryKey) bool) (bool, error) {
	var events []store.Event[V]

	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		return false, errClosed()
	}
	var victims []entryKey
	for k := range s.entries {
		if match(k) {
			victims = append(victims, k)
		}
	}
	sort.Slice(victims, func(i, j int) bool {
		if victims[i].typ != victims[j].typ {
			return victims[i].typ < victims[j].typ
		}
		return victims[i].key < victims[j].key
	})
	for _, k := range victims {
		value := s.entries[k]
		s.cache.Delete(k)
		delete(s.entries, k)
		events = append(events, store.Event[V]{
			Type:  store.EventRemoved,
			Entry: store.Item[V]{Type: k.typ, Key: k.key, Value: value},
		})
	}
	s.size.Store(int64(len(s.entries)))
	s.mu.Unlock()

	s.mRemoves.Add(len(events))
	s.notify(events...)
	return len(events) > 0, nil
}

// Clear drops every entry and evicts the whole cache without notifying
// observers.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (s *storeImpl[V]) Clear() error {
	if s.closed.Load() {
		return errClosed()
	}
	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		return errClosed()
	}
	s.cache.Clear()
	s.entries = make(map[entryKey]V)
	s.size.Store(0)
	s.mu.Unlock()
	return nil
}

// --------------------------------------------------------------------------
// Interface Methods - Query Operations (docu see store/interface.go)
// --------------------------------------------------------------------------

// Get performs a cache-first lookup with authoritative fallback.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (s *storeImpl[V]) Get(entryType, key string) (V, error) {
	var zero V
	if s.closed.Load() {
		return zero, errClosed()
	}

	k := entryKey{typ: entryType, key: key}

	// opportunistic lock-free fast path
	if value, ok := s.cache.Load(k); ok {
		s.mCacheHits.Inc()
		return value, nil
	}
	s.mCacheMisses.Inc()

	s.mu.RLock()
	value, ok := s.entries[k]
	if ok {
		// repopulate while still holding the read lock: a concurrent
		// removal evicts under the write lock, which cannot interleave
		// here, so the cache never resurrects a removed entry
		s.cache.Store(k, value)
	}
	s.mu.RUnlock()

	if !ok {
		return zero, store.NewError(store.RetCKeyNotFound,
			"no value for (%s, %s)", entryType, key)
	}
	return value, nil
}

// ContainsKey reports whether the exact (type, key) pair exists.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (s *storeImpl[V]) ContainsKey(entryType, key string) (bool, error) {
	if s.closed.Load() {
		return false, errClosed()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[entryKey{typ: entryType, key: key}]
	return ok, nil
}

// GetValuesByType returns a snapshot of all values of one type, ordered by
// key.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (s *storeImpl[V]) GetValuesByType(entryType string) ([]V, error) {
	if s.closed.Load() {
		return nil, errClosed()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := s.keysByTypeLocked(entryType)
	values := make([]V, 0, len(keys))
	for _, key := range keys {
		values = append(values, s.entries[entryKey{typ: entryType, key: key}])
	}
	return values, nil
}

// GetKeysByType returns a sorted snapshot of all keys of one type.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (s *storeImpl[V]) GetKeysByType(entryType string) ([]string, error) {
	if s.closed.Load() {
		return nil, errClosed()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keysByTypeLocked(entryType), nil
}

// keysByTypeLocked collects the sorted keys of one type. The caller must
// hold at least the read lock.
func (s *storeImpl[V]) keysByTypeLocked(entryType string) []string {
	keys := make([]string, 0)
	for k := range s.entries {
		if k.typ == entryType {
			keys = append(keys, k.key)
		}
	}
	sort.Strings(keys)
	return keys
}

// GetTypeStatistics returns entry counts per type, sorted by type.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (s *storeImpl[V]) GetTypeStatistics() ([]store.TypeCount, error) {
	if s.closed.Load() {
		return nil, errClosed()
	}
	s.mu.RLock()
	counts := make(map[string]int)
	for k := range s.entries {
		counts[k.typ]++
	}
	s.mu.RUnlock()

	stats := make([]store.TypeCount, 0, len(counts))
	for typ, count := range counts {
		stats = append(stats, store.TypeCount{Type: typ, Count: count})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Type < stats[j].Type })
	return stats, nil
}

// SearchAllByKey returns every value stored under the key across all
// types, ordered by type.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (s *storeImpl[V]) SearchAllByKey(key string) ([]V, error) {
	if s.closed.Load() {
		return nil, errClosed()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var types []string
	for k := range s.entries {
		if k.key == key {
			types = append(types, k.typ)
		}
	}
	sort.Strings(types)

	values := make([]V, 0, len(types))
	for _, typ := range types {
		values = append(values, s.entries[entryKey{typ: typ, key: key}])
	}
	return values, nil
}

// Len returns the current entry count without taking the lock.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (s *storeImpl[V]) Len() int {
	return int(s.size.Load())
}

// --------------------------------------------------------------------------
// Interface Methods - Lifecycle and Observers (docu see store/interface.go)
// --------------------------------------------------------------------------

// Subscribe registers an observer on this store instance.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (s *storeImpl[V]) Subscribe(fn store.Observer[V]) func() {
	if s.closed.Load() {
		return func() {}
	}

	id := s.nextObsID.Add(1)
	s.obsMu.Lock()
	s.observers = append(s.observers, observerEntry[V]{id: id, fn: fn})
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// notify delivers events synchronously on the calling goroutine. It is
// invoked strictly after the write lock was released, so a blocking
// observer delays only the mutating caller.
func (s *storeImpl[V]) notify(events ...store.Event[V]) {
	if len(events) == 0 {
		return
	}

	s.obsMu.RLock()
	observers := make([]store.Observer[V], len(s.observers))
	for i, o := range s.observers {
		observers[i] = o.fn
	}
	s.obsMu.RUnlock()

	for _, ev := range events {
		for _, fn := range observers {
			fn(ev)
		}
	}
}

// WriteMetrics writes the operation counters in Prometheus text format.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (s *storeImpl[V]) WriteMetrics(w io.Writer) {
	s.metrics.WritePrometheus(w)
}

// Close tears the store down. All further operations fail with a
// RetCStoreClosed error.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (s *storeImpl[V]) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	s.mu.Lock()
	s.cache.Clear()
	s.entries = make(map[entryKey]V)
	s.size.Store(0)
	s.mu.Unlock()

	s.obsMu.Lock()
	s.observers = nil
	s.obsMu.Unlock()
	return nil
}
