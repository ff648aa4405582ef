package kv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ══════════════════════════════════════════════════════════════════════════════
// FILE STORE
// ══════════════════════════════════════════════════════════════════════════════

// File is a Store implementation that keeps each document as a JSON file
// in a directory. This is the default backend for single-machine installs.
//
// Writes go through a temp file plus rename, so a crash mid-write never
// leaves a half-written document behind.
type File struct {
	dir string
	mu  sync.Mutex
}

// NewFile creates a file-backed store rooted at dir, creating it if needed.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		return nil, fmt.Errorf("kv: data directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("kv: create data directory: %w", err)
	}
	return &File{dir: dir}, nil
}

// path maps a key to its file on disk.
func (f *File) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// validKey rejects keys that would escape the data directory.
func validKey(key string) error {
	if key == "" {
		return ErrKeyEmpty
	}
	if strings.ContainsAny(key, "/\\") || strings.Contains(key, "..") {
		return fmt.Errorf("kv: invalid key %q", key)
	}
	return nil
}

// Get implements Store.
func (f *File) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("kv: read %q: %w", key, err)
	}
	return data, nil
}

// Set implements Store.
func (f *File) Set(ctx context.Context, key string, value []byte) error {
	if err := validKey(key); err != nil {
		return err
	}
	if value == nil {
		return ErrNilValue
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("kv: temp file for %q: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("kv: write %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("kv: close %q: %w", key, err)
	}

	if err := os.Rename(tmpName, f.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("kv: rename %q: %w", key, err)
	}
	return nil
}

// Delete implements Store.
func (f *File) Delete(ctx context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("kv: delete %q: %w", key, err)
	}
	return nil
}

// Close implements Store.
func (f *File) Close() error {
	return nil
}
