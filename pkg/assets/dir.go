package assets

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/agentstation/arcade/pkg/errors"
)

// Dir is a Repository backed by a directory on the local filesystem.
type Dir struct {
	root string
}

// NewDir creates a repository rooted at root.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Root returns the directory the repository reads from.
func (d *Dir) Root() string {
	return d.root
}

func (d *Dir) path(key string) string {
	return filepath.Join(d.root, filepath.FromSlash(key))
}

// Resolve implements Repository.
func (d *Dir) Resolve(key string) (string, bool) {
	p := d.path(key)
	if _, err := os.Stat(p); err != nil {
		return "", false
	}
	return p, true
}

// Open implements Repository.
func (d *Dir) Open(key string) (io.ReadCloser, error) {
	f, err := os.Open(d.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errors.NotFoundError{Resource: "asset", ID: key}
		}
		return nil, errors.WrapIO("open", key, err)
	}
	return f, nil
}

// List implements Repository.
func (d *Dir) List(dir string) ([]Entry, error) {
	items, err := os.ReadDir(d.path(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errors.NotFoundError{Resource: "directory", ID: dir}
		}
		return nil, errors.WrapIO("list", dir, err)
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		isDir := item.IsDir()
		if item.Type()&os.ModeSymlink != 0 {
			if info, err := os.Stat(filepath.Join(d.path(dir), item.Name())); err == nil {
				isDir = info.IsDir()
			}
		}
		entries = append(entries, Entry{Name: item.Name(), Dir: isDir})
	}
	slices.SortFunc(entries, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
	return entries, nil
}
