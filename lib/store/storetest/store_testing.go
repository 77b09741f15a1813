package storetest

import (
	"fmt"
	"testing"

	"github.com/QingYi-Studio/tylddb/lib/store"
)

// Factory creates a fresh store instance with the given capacity ceiling
// (0 = unbounded). The suite fixes the value type to string; values are
// opaque to the store.
type Factory func(capacity int) store.ITripleStore[string]

// RunTripleStoreTests runs the full conformance suite for an ITripleStore
// implementation.
func RunTripleStoreTests(t *testing.T, name string, factory Factory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Add&Get", func(t *testing.T) {
			testAddGet(t, factory(0))
		})

		t.Run("DuplicateAdd", func(t *testing.T) {
			testDuplicateAdd(t, factory(0))
		})

		t.Run("UpdateValue", func(t *testing.T) {
			testUpdateValue(t, factory(0))
		})

		t.Run("Remove", func(t *testing.T) {
			testRemove(t, factory(0))
		})

		t.Run("RemoveAcrossTypes", func(t *testing.T) {
			testRemoveAcrossTypes(t, factory(0))
		})

		t.Run("Capacity", func(t *testing.T) {
			testCapacity(t, factory(3))
		})

		t.Run("AddRangePartial", func(t *testing.T) {
			testAddRangePartial(t, factory(2))
		})

		t.Run("Snapshots", func(t *testing.T) {
			testSnapshots(t, factory(0))
		})

		t.Run("SearchAllByKey", func(t *testing.T) {
			testSearchAllByKey(t, factory(0))
		})

		t.Run("Observers", func(t *testing.T) {
			testObservers(t, factory(0))
		})

		t.Run("CacheCoherence", func(t *testing.T) {
			testCacheCoherence(t, factory(0))
		})

		t.Run("Close", func(t *testing.T) {
			testClose(t, factory(0))
		})
	})
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testAddGet(t *testing.T, s store.ITripleStore[string]) {
	defer s.Close()

	added, err := s.Add("string", "command_mode", "cmd")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if !added {
		t.Error("Expected Add to report true for a fresh pair")
	}

	value, err := s.Get("string", "command_mode")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != "cmd" {
		t.Errorf("Expected value %q, got %q", "cmd", value)
	}

	// second Get is served from the cache, result must be identical
	value, err = s.Get("string", "command_mode")
	if err != nil {
		t.Fatalf("Cached Get failed: %v", err)
	}
	if value != "cmd" {
		t.Errorf("Expected cached value %q, got %q", "cmd", value)
	}

	if _, err := s.Get("string", "missing"); !store.HasCode(err, store.RetCKeyNotFound) {
		t.Errorf("Expected KeyNotFound for absent pair, got %v", err)
	}
}

func testDuplicateAdd(t *testing.T, s store.ITripleStore[string]) {
	defer s.Close()

	if added, _ := s.Add("string", "k", "first"); !added {
		t.Fatal("First Add should succeed")
	}
	added, err := s.Add("string", "k", "second")
	if err != nil {
		t.Fatalf("Duplicate Add must not error: %v", err)
	}
	if added {
		t.Error("Duplicate Add must report false")
	}

	// the original value must survive, duplicates are rejected not overwritten
	value, _ := s.Get("string", "k")
	if value != "first" {
		t.Errorf("Expected original value %q after duplicate Add, got %q", "first", value)
	}

	// same key under a different type is a distinct pair
	if added, _ := s.Add("integer", "k", "42"); !added {
		t.Error("Same key under a different type must be insertable")
	}
	if s.Len() != 2 {
		t.Errorf("Expected 2 entries, got %d", s.Len())
	}
}

func testUpdateValue(t *testing.T, s store.ITripleStore[string]) {
	defer s.Close()

	updated, err := s.UpdateValue("string", "k", "v")
	if err != nil {
		t.Fatalf("UpdateValue failed: %v", err)
	}
	if updated {
		t.Error("UpdateValue on an absent pair must report false")
	}

	s.Add("string", "k", "old")
	if updated, _ := s.UpdateValue("string", "k", "new"); !updated {
		t.Error("UpdateValue on an existing pair must report true")
	}
	if value, _ := s.Get("string", "k"); value != "new" {
		t.Errorf("Expected updated value %q, got %q", "new", value)
	}
}

func testRemove(t *testing.T, s store.ITripleStore[string]) {
	defer s.Close()

	if removed, _ := s.RemoveKey("string", "k"); removed {
		t.Error("RemoveKey on an absent pair must report false")
	}

	s.Add("string", "k", "v")
	if removed, _ := s.RemoveKey("string", "k"); !removed {
		t.Error("RemoveKey on an existing pair must report true")
	}
	if _, err := s.Get("string", "k"); !store.HasCode(err, store.RetCKeyNotFound) {
		t.Errorf("Expected KeyNotFound after removal, got %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Expected empty store after removal, got %d entries", s.Len())
	}
}

func testRemoveAcrossTypes(t *testing.T, s store.ITripleStore[string]) {
	defer s.Close()

	s.Add("string", "shared", "a")
	s.Add("integer", "shared", "1")
	s.Add("boolean", "other", "true")

	if removed, _ := s.RemoveKeyAll("shared"); !removed {
		t.Error("RemoveKeyAll must report true when entries matched")
	}
	if s.Len() != 1 {
		t.Errorf("Expected 1 entry after RemoveKeyAll, got %d", s.Len())
	}

	s.Add("boolean", "another", "false")
	if removed, _ := s.RemoveType("boolean"); !removed {
		t.Error("RemoveType must report true when entries matched")
	}
	if s.Len() != 0 {
		t.Errorf("Expected empty store after RemoveType, got %d entries", s.Len())
	}

	if removed, _ := s.RemoveType("boolean"); removed {
		t.Error("RemoveType with no matches must report false")
	}
}

func testCapacity(t *testing.T, s store.ITripleStore[string]) {
	defer s.Close()

	// the factory configured a capacity of 3
	for i := 0; i < 3; i++ {
		added, err := s.Add("string", fmt.Sprintf("k%d", i), "v")
		if err != nil || !added {
			t.Fatalf("Add %d within capacity failed: added=%v err=%v", i, added, err)
		}
	}

	added, err := s.Add("string", "overflow", "v")
	if added {
		t.Error("Add beyond capacity must not insert")
	}
	if !store.HasCode(err, store.RetCCapacityExceeded) {
		t.Errorf("Expected CapacityExceeded, got %v", err)
	}

	// a duplicate at capacity is still reported as duplicate, not capacity
	if added, err := s.Add("string", "k0", "other"); added || err != nil {
		t.Errorf("Duplicate at capacity must stay a soft failure, got added=%v err=%v", added, err)
	}
	if v, err := s.Get("string", "k0"); err != nil || v != "v" {
		t.Errorf("Rejected duplicate must not overwrite, got %q err=%v", v, err)
	}

	// capacity frees up after removal
	s.RemoveKey("string", "k0")
	if added, err := s.Add("string", "overflow", "v"); err != nil || !added {
		t.Errorf("Add after freeing capacity failed: added=%v err=%v", added, err)
	}
}

func testAddRangePartial(t *testing.T, s store.ITripleStore[string]) {
	defer s.Close()

	// capacity 2, batch of 4: apply-until-failure keeps the first two
	items := []store.Item[string]{
		{Type: "string", Key: "a", Value: "1"},
		{Type: "string", Key: "b", Value: "2"},
		{Type: "string", Key: "c", Value: "3"},
		{Type: "string", Key: "d", Value: "4"},
	}

	added, err := s.AddRange(items)
	if added != 2 {
		t.Errorf("Expected 2 applied items, got %d", added)
	}
	if !store.HasCode(err, store.RetCCapacityExceeded) {
		t.Errorf("Expected CapacityExceeded for the aborted remainder, got %v", err)
	}

	// prior successes stay applied
	if v, err := s.Get("string", "a"); err != nil || v != "1" {
		t.Errorf("Expected entry a to survive the aborted batch, got %q, %v", v, err)
	}
	if _, err := s.Get("string", "c"); !store.HasCode(err, store.RetCKeyNotFound) {
		t.Errorf("Expected entry c to be aborted, got %v", err)
	}

	// re-running the same batch only re-rejects: idempotent bulk insert
	added, _ = s.AddRange(items[:2])
	if added != 0 {
		t.Errorf("Expected 0 applied items on re-insert, got %d", added)
	}
}

func testSnapshots(t *testing.T, s store.ITripleStore[string]) {
	defer s.Close()

	s.Add("string", "b", "2")
	s.Add("string", "a", "1")
	s.Add("integer", "n", "3")

	keys, err := s.GetKeysByType("string")
	if err != nil {
		t.Fatalf("GetKeysByType failed: %v", err)
	}
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("Expected sorted keys [a b], got %v", keys)
	}

	values, err := s.GetValuesByType("string")
	if err != nil {
		t.Fatalf("GetValuesByType failed: %v", err)
	}
	if len(values) != 2 || values[0] != "1" || values[1] != "2" {
		t.Errorf("Expected key-ordered values [1 2], got %v", values)
	}

	stats, err := s.GetTypeStatistics()
	if err != nil {
		t.Fatalf("GetTypeStatistics failed: %v", err)
	}
	want := []store.TypeCount{{Type: "integer", Count: 1}, {Type: "string", Count: 2}}
	if len(stats) != len(want) {
		t.Fatalf("Expected %d stat rows, got %d", len(want), len(stats))
	}
	for i := range want {
		if stats[i] != want[i] {
			t.Errorf("Stat row %d: expected %+v, got %+v", i, want[i], stats[i])
		}
	}

	// snapshots must not be live views
	s.Add("string", "c", "3")
	if len(keys) != 2 {
		t.Errorf("Returned snapshot changed retroactively: %v", keys)
	}

	ok, err := s.ContainsKey("string", "c")
	if err != nil || !ok {
		t.Errorf("Expected ContainsKey true for new entry, got %v, %v", ok, err)
	}
}

func testSearchAllByKey(t *testing.T, s store.ITripleStore[string]) {
	defer s.Close()

	s.Add("string", "shared", "text")
	s.Add("integer", "shared", "42")
	s.Add("boolean", "lonely", "true")

	values, err := s.SearchAllByKey("shared")
	if err != nil {
		t.Fatalf("SearchAllByKey failed: %v", err)
	}
	// ordered by type: boolean < integer < string
	if len(values) != 2 || values[0] != "42" || values[1] != "text" {
		t.Errorf("Expected type-ordered values [42 text], got %v", values)
	}

	values, err = s.SearchAllByKey("nothing")
	if err != nil {
		t.Errorf("Empty search must not error, got %v", err)
	}
	if len(values) != 0 {
		t.Errorf("Expected empty result, got %v", values)
	}
}

func testObservers(t *testing.T, s store.ITripleStore[string]) {
	defer s.Close()

	var events []store.Event[string]
	unsubscribe := s.Subscribe(func(ev store.Event[string]) {
		events = append(events, ev)
	})

	s.Add("string", "k", "v")
	s.UpdateValue("string", "k", "v2")
	s.RemoveKey("string", "k")

	wantTypes := []store.EventType{store.EventAdded, store.EventUpdated, store.EventRemoved}
	if len(events) != len(wantTypes) {
		t.Fatalf("Expected %d events, got %d", len(wantTypes), len(events))
	}
	for i, want := range wantTypes {
		if events[i].Type != want {
			t.Errorf("Event %d: expected %s, got %s", i, want, events[i].Type)
		}
		if events[i].Entry.Key != "k" {
			t.Errorf("Event %d: expected key k, got %q", i, events[i].Entry.Key)
		}
	}

	// soft failures emit nothing
	s.Add("string", "other", "v")
	s.Add("string", "other", "v")
	s.RemoveKey("string", "missing")
	if len(events) != 4 {
		t.Errorf("Expected exactly one event for the duplicate/miss sequence, got %d total", len(events))
	}

	unsubscribe()
	s.Add("string", "after", "v")
	if len(events) != 4 {
		t.Error("Observer received events after unsubscribe")
	}
}

func testCacheCoherence(t *testing.T, s store.ITripleStore[string]) {
	defer s.Close()

	s.Add("string", "k", "v")

	// populate the cache immediately before removal
	if _, err := s.Get("string", "k"); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if removed, _ := s.RemoveKey("string", "k"); !removed {
		t.Fatal("RemoveKey failed")
	}
	if _, err := s.Get("string", "k"); !store.HasCode(err, store.RetCKeyNotFound) {
		t.Errorf("Stale cache read after removal: got %v", err)
	}

	// same for the bulk removal paths
	s.Add("string", "k2", "v")
	s.Get("string", "k2")
	s.RemoveKeyAll("k2")
	if _, err := s.Get("string", "k2"); !store.HasCode(err, store.RetCKeyNotFound) {
		t.Errorf("Stale cache read after RemoveKeyAll: got %v", err)
	}

	s.Add("string", "k3", "v")
	s.Get("string", "k3")
	s.RemoveType("string")
	if _, err := s.Get("string", "k3"); !store.HasCode(err, store.RetCKeyNotFound) {
		t.Errorf("Stale cache read after RemoveType: got %v", err)
	}
}

func testClose(t *testing.T, s store.ITripleStore[string]) {
	s.Add("string", "k", "v")
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := s.Add("string", "k2", "v"); !store.HasCode(err, store.RetCStoreClosed) {
		t.Errorf("Expected StoreClosed from Add, got %v", err)
	}
	if _, err := s.Get("string", "k"); !store.HasCode(err, store.RetCStoreClosed) {
		t.Errorf("Expected StoreClosed from Get, got %v", err)
	}
	if _, err := s.SearchAllByKey("k"); !store.HasCode(err, store.RetCStoreClosed) {
		t.Errorf("Expected StoreClosed from SearchAllByKey, got %v", err)
	}

	// Close is idempotent
	if err := s.Close(); err != nil {
		t.Errorf("Second Close failed: %v", err)
	}
}
