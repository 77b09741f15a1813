// Package database binds the engine's components into one load pipeline:
// the byte reader, the two-generation parser and the concurrent triple
// store. It is the surface that front ends (the CLI, the interactive shell,
// embedding applications) program against.
//
// The pipeline runs in a fixed step order:
//
//	db := database.New(database.DefaultOptions())
//	db.SetPath("config.lddb")
//	err := db.ReadFile()            // step 1: bytes
//	err = db.LoadSection("console") // step 2: section span (V2)
//	n, err := db.ParseEntries()     // step 3: tokenize (V1) + bulk insert
//
// Calling a step before its predecessor fails with ErrNotInitialized. After
// step 3, queries go through the store: Get, SearchAllByKey, or the full
// ITripleStore via Store().
//
// ParseEntries inserts with add semantics, so re-parsing the same section is
// idempotent: entries already present keep their (possibly updated) values.
//
// For headerless files of the first format generation, LoadLegacy replaces
// step 2. LoadTemplate loads a built-in fallback section for front ends that
// must come up even when the configured file is missing or broken.
//
// Thread-safety: the load pipeline (SetPath through ParseEntries) is guarded
// by an internal mutex but is intended to be driven by one goroutine. The
// store returned by Store() is fully thread-safe.
package database
