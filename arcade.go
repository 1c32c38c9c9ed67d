// Package arcade publishes a static catalog of playable retro games. A
// Builder reads game records, media, emulator binaries and templates from a
// source repository and writes one document per game, plus every asset the
// documents reference, to an output store.
package arcade

import (
	"context"
	"fmt"

	"github.com/agentstation/arcade/pkg/report"
)

// Builder runs catalog builds and reports on them
type Builder interface {
	// Build publishes the configured database and returns the run report.
	// A fatal condition aborts the run and is returned as an error together
	// with the report accumulated so far.
	Build(ctx context.Context) (*report.Report, error)

	// OnGamePublished registers a callback for published games
	OnGamePublished(GamePublishedHook)

	// OnGameSkipped registers a callback for skipped games
	OnGameSkipped(GameSkippedHook)
}

// builder is the internal implementation of the Builder interface
type builder struct {
	config *config

	// Event hooks
	hooks *hooks
}

// New creates a new Builder with the given options
func New(opts ...Option) (Builder, error) {
	b := &builder{
		config: defaultConfig(),
		hooks:  newHooks(),
	}

	for _, opt := range opts {
		if err := opt(b.config); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}
	if err := b.config.validate(); err != nil {
		return nil, err
	}

	return b, nil
}

// OnGamePublished registers a callback for published games
func (b *builder) OnGamePublished(fn GamePublishedHook) {
	b.hooks.OnGamePublished(fn)
}

// OnGameSkipped registers a callback for skipped games
func (b *builder) OnGameSkipped(fn GameSkippedHook) {
	b.hooks.OnGameSkipped(fn)
}
