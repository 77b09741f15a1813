package database

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/QingYi-Studio/tylddb/lib/lddb"
	"github.com/QingYi-Studio/tylddb/lib/store"
	"github.com/QingYi-Studio/tylddb/lib/store/tstore"
)

// ErrNotInitialized marks a pipeline step invoked before its predecessor
// (e.g. LoadSection before ReadFile). It carries store.RetCNotInitialized
// so callers can match it with errors.Is or store.HasCode alike.
var ErrNotInitialized error = store.NewError(store.RetCNotInitialized, "pipeline step invoked out of order")

// --------------------------------------------------------------------------
// Options
// --------------------------------------------------------------------------

// Options configures a Database instance.
type Options struct {
	// BufferSize is the chunk size for file reads. 0 selects
	// lddb.DefaultBufferSize.
	BufferSize int

	// Capacity is the store's entry ceiling. 0 means unbounded.
	Capacity int

	// Logger receives pipeline diagnostics. nil selects slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns the default database configuration.
func DefaultOptions() Options {
	return Options{
		BufferSize: lddb.DefaultBufferSize,
		Capacity:   0,
		Logger:     nil,
	}
}

// --------------------------------------------------------------------------
// Database
// --------------------------------------------------------------------------

// Database wires reader, parser and store into one load pipeline.
type Database struct {
	logger *slog.Logger
	reader *lddb.Reader
	store  store.ITripleStore[lddb.Value]

	mu      sync.Mutex // guards the pipeline state below
	raw     []byte
	section *lddb.Section
}

// New creates a database with an empty store. SetPath and ReadFile must run
// before any section can be loaded.
func New(opts Options) *Database {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	storeOpts := tstore.DefaultOptions[lddb.Value]()
	storeOpts.Capacity = opts.Capacity
	storeOpts.Sizer = lddb.Value.Size

	return &Database{
		logger: logger,
		reader: lddb.NewReader("", opts.BufferSize),
		store:  tstore.NewTripleStore(storeOpts),
	}
}

// SetPath points the reader at a database file. It resets any previously
// loaded bytes and section span; the store keeps its entries.
func (d *Database) SetPath(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.reader.SetPath(path)
	d.raw = nil
	d.section = nil
}

// Path returns the configured file path.
func (d *Database) Path() string {
	return d.reader.Path()
}

// ReadFile loads the whole file into memory (step 1). It fails with
// lddb.ErrNoPath when SetPath has not been called.
func (d *Database) ReadFile() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	data, err := d.reader.ReadAll()
	if err != nil {
		d.logger.Warn("file read failed", "path", d.reader.Path(), "err", err)
		return err
	}

	d.raw = data
	d.section = nil
	d.logger.Debug("file read", "path", d.reader.Path(), "bytes", len(data))
	return nil
}

// LoadSection selects the named section from the loaded bytes (step 2,
// generation V2). It fails with ErrNotInitialized before ReadFile.
func (d *Database) LoadSection(name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.raw == nil {
		return fmt.Errorf("%w: LoadSection requires ReadFile", ErrNotInitialized)
	}

	s, err := lddb.SelectSection(d.raw, name)
	if err != nil {
		d.logger.Warn("section selection failed", "section", name, "err", err)
		return err
	}

	d.section = s
	d.logger.Debug("section selected", "section", name)
	return nil
}

// LoadLegacy wraps the loaded bytes as one anonymous section span, for
// headerless files of the first format generation. It fails with
// ErrNotInitialized before ReadFile.
func (d *Database) LoadLegacy() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.raw == nil {
		return fmt.Errorf("%w: LoadLegacy requires ReadFile", ErrNotInitialized)
	}

	d.section = lddb.SelectLegacy(d.raw)
	d.logger.Debug("legacy span selected", "bytes", len(d.raw))
	return nil
}

// LoadTemplate loads the built-in template section, replacing steps 1 and 2.
// Front ends fall back to it when the configured file cannot be loaded.
func (d *Database) LoadTemplate() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, err := lddb.SelectSection([]byte(templateText), TemplateSection)
	if err != nil {
		return err
	}

	d.raw = []byte(templateText)
	d.section = s
	d.logger.Info("built-in template loaded", "section", TemplateSection)
	return nil
}

// Section returns the name of the currently selected section and whether a
// section is selected at all.
func (d *Database) Section() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.section == nil {
		return "", false
	}
	return d.section.Name(), true
}

// ParseEntries tokenizes the selected section (step 3, generation V1) and
// bulk-inserts the result into the store with add semantics. It returns the
// number of entries actually inserted; entries already present are skipped,
// so re-parsing is idempotent.
//
// A tokenization failure leaves the store untouched. A capacity failure
// mid-batch keeps prior insertions applied and returns the store error.
func (d *Database) ParseEntries() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.section == nil {
		return 0, fmt.Errorf("%w: ParseEntries requires LoadSection or LoadLegacy", ErrNotInitialized)
	}

	entries, err := d.section.Tokenize()
	if err != nil {
		d.logger.Warn("tokenization failed", "section", d.section.Name(), "err", err)
		return 0, err
	}

	items := make([]store.Item[lddb.Value], len(entries))
	for i, e := range entries {
		items[i] = store.Item[lddb.Value]{
			Type:  string(e.Type),
			Key:   e.Key,
			Value: e.Value,
		}
	}

	added, err := d.store.AddRange(items)
	if err != nil {
		d.logger.Warn("bulk insert aborted", "section", d.section.Name(),
			"parsed", len(items), "added", added, "err", err)
		return added, err
	}

	d.logger.Info("section parsed", "section", d.section.Name(),
		"parsed", len(items), "added", added)
	return added, nil
}

// --------------------------------------------------------------------------
// Query Pass-Throughs
// --------------------------------------------------------------------------

// Get returns the value stored under the exact (type, key) pair.
func (d *Database) Get(entryType, key string) (lddb.Value, error) {
	return d.store.Get(entryType, key)
}

// SearchAllByKey returns every value stored under the key across all types,
// ordered by type.
func (d *Database) SearchAllByKey(key string) ([]lddb.Value, error) {
	return d.store.SearchAllByKey(key)
}

// Store exposes the underlying triple store for the full operation set.
func (d *Database) Store() store.ITripleStore[lddb.Value] {
	return d.store
}

// Close tears down the underlying store.
func (d *Database) Close() error {
	return d.store.Close()
}
