// Package assets provides the content repository the build reads from and the
// store it publishes to. Every existence probe in the pipeline goes through
// Repository.Resolve, so a build can run against the real source tree or an
// in-memory fake.
package assets

import (
	"io"
	"path"
	"slices"
	"strings"

	"github.com/agentstation/arcade/pkg/errors"
)

// Repository abstracts read access to the source tree. Keys are slash
// separated paths relative to the source root.
type Repository interface {
	// Resolve returns the physical location of key and whether it exists.
	// Directories resolve as well as files.
	Resolve(key string) (string, bool)

	// Open opens the file at key for reading.
	Open(key string) (io.ReadCloser, error)

	// List returns the direct children of dir sorted by name.
	List(dir string) ([]Entry, error)
}

// Entry is a directory child returned by Repository.List.
type Entry struct {
	Name string
	Dir  bool
}

// Key joins path elements into a repository key.
func Key(elem ...string) string {
	return path.Join(elem...)
}

// Exists reports whether key resolves in repo.
func Exists(repo Repository, key string) bool {
	_, ok := repo.Resolve(key)
	return ok
}

// ReadFile reads the whole file at key.
func ReadFile(repo Repository, key string) ([]byte, error) {
	rc, err := repo.Open(key)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.WrapIO("read", key, err)
	}
	return data, nil
}

// ReadText reads the file at key as a string.
func ReadText(repo Repository, key string) (string, error) {
	data, err := ReadFile(repo, key)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ListOptions controls which files Files returns.
type ListOptions struct {
	// Extensions filters by lower-case extension without the dot.
	// Empty or containing "*" matches everything.
	Extensions []string

	// TrimExtension returns names without their final extension.
	TrimExtension bool

	// Recursive descends into subdirectories and returns keys relative to dir.
	Recursive bool
}

// Files lists the files under dir matching opts. A missing directory yields
// no files. Results are sorted.
func Files(repo Repository, dir string, opts ListOptions) ([]string, error) {
	if !Exists(repo, dir) {
		return nil, nil
	}

	var names []string
	if err := collect(repo, dir, "", opts, &names); err != nil {
		return nil, err
	}
	slices.Sort(names)
	return names, nil
}

func collect(repo Repository, dir, prefix string, opts ListOptions, out *[]string) error {
	entries, err := repo.List(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.Dir {
			if opts.Recursive {
				if err := collect(repo, Key(dir, entry.Name), path.Join(prefix, entry.Name), opts, out); err != nil {
					return err
				}
			}
			continue
		}

		if !matchesExtension(entry.Name, opts.Extensions) {
			continue
		}

		name := entry.Name
		if opts.TrimExtension {
			name = strings.TrimSuffix(name, path.Ext(name))
		}
		*out = append(*out, path.Join(prefix, name))
	}
	return nil
}

func matchesExtension(name string, extensions []string) bool {
	if len(extensions) == 0 || slices.Contains(extensions, "*") {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
	return slices.Contains(extensions, ext)
}
