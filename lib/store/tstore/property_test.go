package tstore_test

import (
	"testing"

	"github.com/QingYi-Studio/tylddb/lib/store"
	"pgregory.net/rapid"
)

// modelKey mirrors the store's (type, key) identity in the reference model.
type modelKey struct {
	typ string
	key string
}

// TestPropertySequentialOperations checks that the store behaves like a
// plain map guarded by add-if-absent semantics for arbitrary sequential
// operation sequences.
func TestPropertySequentialOperations(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := newTestStore(0)
		defer s.Close()
		model := make(map[modelKey]string)

		typGen := rapid.SampledFrom([]string{"string", "integer", "boolean"})
		keyGen := rapid.SampledFrom([]string{"a", "b", "c", "d"})
		valGen := rapid.StringMatching(`[a-z]{1,8}`)

		numOps := rapid.IntRange(1, 60).Draw(t, "numOps")
		for i := 0; i < numOps; i++ {
			typ := typGen.Draw(t, "typ")
			key := keyGen.Draw(t, "key")
			k := modelKey{typ: typ, key: key}

			switch rapid.IntRange(0, 4).Draw(t, "op") {
			case 0: // Add
				value := valGen.Draw(t, "value")
				added, err := s.Add(typ, key, value)
				if err != nil {
					t.Fatalf("Add failed: %v", err)
				}
				_, exists := model[k]
				if added == exists {
					t.Fatalf("Add reported %v but model existence is %v", added, exists)
				}
				if !exists {
					model[k] = value
				}
			case 1: // UpdateValue
				value := valGen.Draw(t, "value")
				updated, err := s.UpdateValue(typ, key, value)
				if err != nil {
					t.Fatalf("UpdateValue failed: %v", err)
				}
				_, exists := model[k]
				if updated != exists {
					t.Fatalf("UpdateValue reported %v but model existence is %v", updated, exists)
				}
				if exists {
					model[k] = value
				}
			case 2: // RemoveKey
				removed, err := s.RemoveKey(typ, key)
				if err != nil {
					t.Fatalf("RemoveKey failed: %v", err)
				}
				_, exists := model[k]
				if removed != exists {
					t.Fatalf("RemoveKey reported %v but model existence is %v", removed, exists)
				}
				delete(model, k)
			case 3: // Get
				value, err := s.Get(typ, key)
				want, exists := model[k]
				if exists {
					if err != nil {
						t.Fatalf("Get failed for present pair: %v", err)
					}
					if value != want {
						t.Fatalf("Get returned %q, model has %q", value, want)
					}
				} else if !store.HasCode(err, store.RetCKeyNotFound) {
					t.Fatalf("Get for absent pair returned %v", err)
				}
			case 4: // ContainsKey
				ok, err := s.ContainsKey(typ, key)
				if err != nil {
					t.Fatalf("ContainsKey failed: %v", err)
				}
				_, exists := model[k]
				if ok != exists {
					t.Fatalf("ContainsKey reported %v but model existence is %v", ok, exists)
				}
			}
		}

		// final state must match the model exactly
		if s.Len() != len(model) {
			t.Fatalf("Store has %d entries, model has %d", s.Len(), len(model))
		}
		for k, want := range model {
			value, err := s.Get(k.typ, k.key)
			if err != nil || value != want {
				t.Fatalf("Final check for %v: got %q, %v, want %q", k, value, err, want)
			}
		}
	})
}
