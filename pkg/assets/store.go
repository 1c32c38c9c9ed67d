package assets

import (
	"bytes"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/agentstation/arcade/pkg/constants"
	"github.com/agentstation/arcade/pkg/errors"
)

// Store is the output side of a build. Keys are slash separated paths
// relative to the output root.
type Store interface {
	// Put writes the content of r to key, creating parent directories.
	Put(key string, r io.Reader) error

	// Clean removes the files directly under dir with the given extension.
	// A missing directory is not an error.
	Clean(dir, ext string) error
}

// DirStore is a Store backed by a directory on the local filesystem.
type DirStore struct {
	root string
}

// NewDirStore creates a store writing under root.
func NewDirStore(root string) *DirStore {
	return &DirStore{root: root}
}

// Root returns the output directory.
func (s *DirStore) Root() string {
	return s.root
}

// Put implements Store.
func (s *DirStore) Put(key string, r io.Reader) error {
	dst := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), constants.DirPermissions); err != nil {
		return errors.WrapIO("mkdir", filepath.Dir(dst), err)
	}

	f, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("create", dst, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return errors.WrapIO("write", dst, err)
	}
	if err := f.Close(); err != nil {
		return errors.WrapIO("close", dst, err)
	}
	return nil
}

// Clean implements Store.
func (s *DirStore) Clean(dir, ext string) error {
	full := filepath.Join(s.root, filepath.FromSlash(dir))
	items, err := os.ReadDir(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.WrapIO("list", full, err)
	}

	for _, item := range items {
		if item.IsDir() || filepath.Ext(item.Name()) != "."+ext {
			continue
		}
		if err := os.Remove(filepath.Join(full, item.Name())); err != nil {
			return errors.WrapIO("delete", filepath.Join(full, item.Name()), err)
		}
	}
	return nil
}

// MemoryStore is an in-memory Store used in tests.
type MemoryStore struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: make(map[string][]byte)}
}

// Put implements Store.
func (s *MemoryStore) Put(key string, r io.Reader) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return errors.WrapIO("write", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[clean(key)] = buf.Bytes()
	return nil
}

// Clean implements Store.
func (s *MemoryStore) Clean(dir, ext string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir = clean(dir)
	for key := range s.files {
		if path.Dir(key) == dir && path.Ext(key) == "."+ext {
			delete(s.files, key)
		}
	}
	return nil
}

// Get returns the content stored at key.
func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[clean(key)]
	return data, ok
}

// Has reports whether key was written.
func (s *MemoryStore) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Keys returns every stored key with the given prefix, sorted.
func (s *MemoryStore) Keys(prefix string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for key := range s.files {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys
}
