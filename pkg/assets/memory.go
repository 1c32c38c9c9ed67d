package assets

import (
	"bytes"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/agentstation/arcade/pkg/errors"
)

// Memory is an in-memory Repository. Directories exist implicitly when a
// file lives beneath them, or explicitly through AddDir.
type Memory struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

// Add stores data at key, creating parent directories.
func (m *Memory) Add(key string, data []byte) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()

	key = clean(key)
	m.files[key] = slices.Clone(data)
	m.addParents(key)
	return m
}

// AddText stores text at key.
func (m *Memory) AddText(key, text string) *Memory {
	return m.Add(key, []byte(text))
}

// Touch stores an empty file at each key.
func (m *Memory) Touch(keys ...string) *Memory {
	for _, key := range keys {
		m.Add(key, nil)
	}
	return m
}

// AddDir creates an empty directory.
func (m *Memory) AddDir(key string) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()

	key = clean(key)
	m.dirs[key] = true
	m.addParents(key)
	return m
}

// Remove deletes the file at key. Parent directories are kept.
func (m *Memory) Remove(key string) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.files, clean(key))
	return m
}

func (m *Memory) addParents(key string) {
	for i := strings.LastIndex(key, "/"); i > 0; i = strings.LastIndex(key, "/") {
		key = key[:i]
		m.dirs[key] = true
	}
}

// Resolve implements Repository.
func (m *Memory) Resolve(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	key = clean(key)
	if _, ok := m.files[key]; ok {
		return "memory://" + key, true
	}
	if m.dirs[key] || key == "" {
		return "memory://" + key, true
	}
	return "", false
}

// Open implements Repository.
func (m *Memory) Open(key string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[clean(key)]
	if !ok {
		return nil, &errors.NotFoundError{Resource: "asset", ID: key}
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// List implements Repository.
func (m *Memory) List(dir string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dir = clean(dir)
	if dir != "" && !m.dirs[dir] {
		return nil, &errors.NotFoundError{Resource: "directory", ID: dir}
	}

	prefix := dir + "/"
	if dir == "" {
		prefix = ""
	}

	seen := make(map[string]bool)
	var entries []Entry
	add := func(key string, isFile bool) {
		rest, ok := strings.CutPrefix(key, prefix)
		if !ok || rest == "" {
			return
		}
		name, _, nested := strings.Cut(rest, "/")
		if seen[name] {
			return
		}
		seen[name] = true
		entries = append(entries, Entry{Name: name, Dir: nested || !isFile})
	}
	for key := range m.files {
		add(key, true)
	}
	for key := range m.dirs {
		add(key, false)
	}

	slices.SortFunc(entries, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
	return entries, nil
}

func clean(key string) string {
	return strings.Trim(key, "/")
}
