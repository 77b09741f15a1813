package lddb

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReaderChunkedRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.lddb")

	// content larger than the working buffer forces multiple chunks
	content := strings.Repeat("x", 10*1024)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewReader(path, 1024)
	data, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(data) != content {
		t.Errorf("Expected %d contiguous bytes, got %d", len(content), len(data))
	}
}

func TestReaderEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.lddb")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := NewReader(path, 0).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("Expected empty content, got %d bytes", len(data))
	}
}

func TestReaderFileNotFound(t *testing.T) {
	r := NewReader(filepath.Join(t.TempDir(), "missing.lddb"), 0)
	if _, err := r.ReadAll(); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}
}

func TestReaderNoPath(t *testing.T) {
	r := NewReader("", 0)
	if _, err := r.ReadAll(); !errors.Is(err, ErrNoPath) {
		t.Errorf("Expected ErrNoPath, got %v", err)
	}
}

func TestReaderSetPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.lddb")
	if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewReader("", 16)
	r.SetPath(path)
	if r.Path() != path {
		t.Errorf("Expected path %q, got %q", path, r.Path())
	}
	data, err := r.ReadAll()
	if err != nil || string(data) != "content" {
		t.Errorf("ReadAll after SetPath failed: %q, %v", data, err)
	}
}
