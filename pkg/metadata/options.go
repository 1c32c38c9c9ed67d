package metadata

import (
	"github.com/agentstation/arcade/pkg/errors"
)

type options struct {
	mirrorRotation map[string]bool
	canonicalDir   string
}

func defaultOptions() *options {
	return &options{
		mirrorRotation: map[string]bool{"invaders": true},
		canonicalDir:   "mame",
	}
}

// Option configures a Reconciler.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithMirrorRotation replaces the machines whose swapped canonical
// resolution is expected because their cabinet rotates the picture with a
// mirror.
func WithMirrorRotation(machines ...string) Option {
	return func(o *options) error {
		o.mirrorRotation = make(map[string]bool, len(machines))
		for _, m := range machines {
			o.mirrorRotation[m] = true
		}
		return nil
	}
}

// WithCanonicalDir sets the source directory canonical records are read from.
func WithCanonicalDir(dir string) Option {
	return func(o *options) error {
		if dir == "" {
			return &errors.ValidationError{Field: "canonical_dir", Message: "cannot be empty"}
		}
		o.canonicalDir = dir
		return nil
	}
}
