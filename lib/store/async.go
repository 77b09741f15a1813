package store

// --------------------------------------------------------------------------
// Async Adapter
// --------------------------------------------------------------------------

// BoolResult carries the outcome of an offloaded boolean operation.
type BoolResult struct {
	Ok  bool
	Err error
}

// ValueResult carries the outcome of an offloaded lookup.
type ValueResult[V any] struct {
	Value V
	Err   error
}

// AsyncStore offloads blocking store calls to separate goroutines. The
// suspension point is entirely in the scheduling of the offloaded call; no
// lock is ever held while a result channel is pending. Each returned
// channel is buffered with capacity one, so the offloaded goroutine never
// blocks on an abandoned result.
type AsyncStore[V any] struct {
	s ITripleStore[V]
}

// NewAsyncStore wraps a store with asynchronous variants of its blocking
// operations.
func NewAsyncStore[V any](s ITripleStore[V]) *AsyncStore[V] {
	return &AsyncStore[V]{s: s}
}

// Store returns the wrapped synchronous store.
func (a *AsyncStore[V]) Store() ITripleStore[V] {
	return a.s
}

// AddAsync offloads Add.
func (a *AsyncStore[V]) AddAsync(entryType, key string, value V) <-chan BoolResult {
	ch := make(chan BoolResult, 1)
	go func() {
		ok, err := a.s.Add(entryType, key, value)
		ch <- BoolResult{Ok: ok, Err: err}
	}()
	return ch
}

// UpdateValueAsync offloads UpdateValue.
func (a *AsyncStore[V]) UpdateValueAsync(entryType, key string, value V) <-chan BoolResult {
	ch := make(chan BoolResult, 1)
	go func() {
		ok, err := a.s.UpdateValue(entryType, key, value)
		ch <- BoolResult{Ok: ok, Err: err}
	}()
	return ch
}

// GetAsync offloads Get.
func (a *AsyncStore[V]) GetAsync(entryType, key string) <-chan ValueResult[V] {
	ch := make(chan ValueResult[V], 1)
	go func() {
		v, err := a.s.Get(entryType, key)
		ch <- ValueResult[V]{Value: v, Err: err}
	}()
	return ch
}

// RemoveKeyAsync offloads RemoveKey.
func (a *AsyncStore[V]) RemoveKeyAsync(entryType, key string) <-chan BoolResult {
	ch := make(chan BoolResult, 1)
	go func() {
		ok, err := a.s.RemoveKey(entryType, key)
		ch <- BoolResult{Ok: ok, Err: err}
	}()
	return ch
}
