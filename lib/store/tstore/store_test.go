package tstore_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/QingYi-Studio/tylddb/lib/store"
	"github.com/QingYi-Studio/tylddb/lib/store/storetest"
	"github.com/QingYi-Studio/tylddb/lib/store/tstore"
)

func newTestStore(capacity int) store.ITripleStore[string] {
	return tstore.NewTripleStore(&tstore.Options[string]{
		Capacity: capacity,
		Sizer:    func(v string) int { return len(v) },
	})
}

func TestTripleStoreConformance(t *testing.T) {
	storetest.RunTripleStoreTests(t, "tstore", newTestStore)
}

// TestDuplicateAddAtCapacity pins the error precedence of Add on a full
// store: an existing (type, key) pair is a soft duplicate rejection, the
// capacity error is reserved for genuinely new pairs.
func TestDuplicateAddAtCapacity(t *testing.T) {
	s := newTestStore(1)
	defer s.Close()

	if added, err := s.Add("string", "k", "v"); err != nil || !added {
		t.Fatalf("Seeding Add failed: added=%v err=%v", added, err)
	}

	added, err := s.Add("string", "k", "other")
	if added || err != nil {
		t.Errorf("Duplicate on a full store must be (false, nil), got added=%v err=%v", added, err)
	}
	if v, err := s.Get("string", "k"); err != nil || v != "v" {
		t.Errorf("Rejected duplicate must not overwrite, got %q err=%v", v, err)
	}

	if _, err := s.Add("string", "fresh", "v"); !store.HasCode(err, store.RetCCapacityExceeded) {
		t.Errorf("New pair on a full store must hit the capacity ceiling, got %v", err)
	}
}

func TestWriteMetrics(t *testing.T) {
	s := newTestStore(0)
	defer s.Close()

	s.Add("string", "a", "1")
	s.Add("string", "b", "2")
	s.Add("string", "a", "dup") // rejected, must not count
	s.UpdateValue("string", "a", "3")
	s.Get("string", "a") // cache hit (populated on write)
	s.RemoveKey("string", "b")
	s.Get("string", "b") // miss

	var buf bytes.Buffer
	s.WriteMetrics(&buf)
	out := buf.String()

	for _, want := range []string{
		"tylddb_store_adds_total 2",
		"tylddb_store_updates_total 1",
		"tylddb_store_removes_total 1",
		"tylddb_store_cache_hits_total 1",
		"tylddb_store_cache_misses_total 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected metrics output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestGetInfo(t *testing.T) {
	s := tstore.NewTripleStore(&tstore.Options[string]{
		Capacity: 10,
		Sizer:    func(v string) int { return len(v) },
	})
	defer s.Close()

	s.Add("string", "a", "aaaa")
	s.Add("string", "b", "bb")
	s.Add("integer", "n", "12")

	info := s.GetInfo()
	if info.Entries != 3 {
		t.Errorf("Expected 3 entries, got %d", info.Entries)
	}
	if info.Capacity != 10 {
		t.Errorf("Expected capacity 10, got %d", info.Capacity)
	}
	if info.Types != 2 {
		t.Errorf("Expected 2 types, got %d", info.Types)
	}
	if info.AvgValueSize == 0 {
		t.Error("Expected a non-zero average value size with a configured sizer")
	}
	if info.DistributionQuality <= 0 || info.DistributionQuality > 1 {
		t.Errorf("Distribution quality out of range: %f", info.DistributionQuality)
	}
}

func TestAsyncStore(t *testing.T) {
	async := store.NewAsyncStore(newTestStore(0))
	defer async.Store().Close()

	if res := <-async.AddAsync("string", "k", "v"); res.Err != nil || !res.Ok {
		t.Fatalf("AddAsync failed: ok=%v err=%v", res.Ok, res.Err)
	}
	if res := <-async.GetAsync("string", "k"); res.Err != nil || res.Value != "v" {
		t.Fatalf("GetAsync failed: value=%q err=%v", res.Value, res.Err)
	}
	if res := <-async.UpdateValueAsync("string", "k", "v2"); res.Err != nil || !res.Ok {
		t.Fatalf("UpdateValueAsync failed: ok=%v err=%v", res.Ok, res.Err)
	}
	if res := <-async.RemoveKeyAsync("string", "k"); res.Err != nil || !res.Ok {
		t.Fatalf("RemoveKeyAsync failed: ok=%v err=%v", res.Ok, res.Err)
	}
	if res := <-async.GetAsync("string", "k"); !store.HasCode(res.Err, store.RetCKeyNotFound) {
		t.Errorf("Expected KeyNotFound after async removal, got %v", res.Err)
	}
}
