package lddb

import (
	"fmt"
	"io"
	"os"
)

// DefaultBufferSize is the working buffer size used when the caller passes
// a non-positive hint.
const DefaultBufferSize = 4 * 1024

// --------------------------------------------------------------------------
// Byte Reader
// --------------------------------------------------------------------------

// Reader reads the backing file into memory through a fixed-size working
// buffer. It owns the file path; no interpretation of the content happens
// here.
type Reader struct {
	path    string
	bufSize int
}

// NewReader creates a reader for the given path. bufferSize is a hint for
// the working buffer; values below one fall back to DefaultBufferSize.
func NewReader(path string, bufferSize int) *Reader {
	if bufferSize < 1 {
		bufferSize = DefaultBufferSize
	}
	return &Reader{path: path, bufSize: bufferSize}
}

// SetPath declares the backing file location. Must be called (or the path
// passed to NewReader) before ReadAll.
func (r *Reader) SetPath(path string) {
	r.path = path
}

// Path returns the configured file path.
func (r *Reader) Path() string {
	return r.path
}

// ReadAll reads the whole file in bufSize chunks and returns its bytes as
// one contiguous sequence. It fails with ErrNoPath if no path was set,
// ErrFileNotFound if the path does not exist, ErrTruncated if fewer bytes
// than the file size were available, and a wrapped I/O error otherwise.
//
// Thread-safety: ReadAll is safe to call concurrently as long as SetPath is
// not called at the same time.
func (r *Reader) ReadAll() ([]byte, error) {
	if r.path == "" {
		return nil, ErrNoPath
	}

	f, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, r.path)
		}
		return nil, fmt.Errorf("open %s: %w", r.path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", r.path, err)
	}

	// Chunked read through the working buffer
	buf := make([]byte, r.bufSize)
	data := make([]byte, 0, fi.Size())
	for {
		n, err := f.Read(buf)
		data = append(data, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", r.path, err)
		}
	}

	// Regular files report their size up front; fewer bytes means the read
	// was cut short.
	if fi.Mode().IsRegular() && int64(len(data)) < fi.Size() {
		return nil, fmt.Errorf("%w: got %d of %d bytes from %s",
			ErrTruncated, len(data), fi.Size(), r.path)
	}

	return data, nil
}
