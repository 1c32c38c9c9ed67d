// Package app wires configuration, logging and the build pipeline into the
// arcade command line.
package app

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/arcade"
	"github.com/agentstation/arcade/internal/browser"
	"github.com/agentstation/arcade/pkg/assets"
	"github.com/agentstation/arcade/pkg/errors"
	"github.com/agentstation/arcade/pkg/games"
)

// App holds what every command needs: build metadata, the loaded
// configuration, the logger and the browser opener used by launch.
type App struct {
	version, commit, date, builtBy string

	config *Config
	logger *zerolog.Logger
	opener *browser.Opener
}

// New loads arcade.yaml and the environment, then applies opts.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		opener:  browser.New(),
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version, Commit, Date and BuiltBy report how the binary was built.
func (a *App) Version() string { return a.version }
func (a *App) Commit() string  { return a.commit }
func (a *App) Date() string    { return a.date }
func (a *App) BuiltBy() string { return a.builtBy }

// Config returns the loaded configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the logger commands run with.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// Builder creates a builder reading from the configured source directory and
// writing to store. Extra options are applied last.
func (a *App) Builder(store assets.Store, extra ...arcade.Option) (arcade.Builder, error) {
	opts, err := a.builderOptions(store)
	if err != nil {
		return nil, err
	}
	return arcade.New(append(opts, extra...)...)
}

// builderOptions translates the configuration into builder options.
func (a *App) builderOptions(store assets.Store) ([]arcade.Option, error) {
	cfg := a.config

	loadFilter, err := games.LoadFilterByName(cfg.LoadFilter)
	if err != nil {
		return nil, err
	}
	publishFilter, err := games.PublishFilterByName(cfg.PublishFilter)
	if err != nil {
		return nil, err
	}

	opts := []arcade.Option{
		arcade.WithSource(assets.NewDir(cfg.SourceDir)),
		arcade.WithStore(store),
		arcade.WithDatabase(cfg.Database),
		arcade.WithLanguage(cfg.Language),
		arcade.WithAppName(cfg.AppName),
		arcade.WithAuthor(cfg.Author),
		arcade.WithDefaultSection(cfg.DefaultSection),
		arcade.WithFullScreen(cfg.FullScreen),
		arcade.WithLoadFilter(loadFilter),
		arcade.WithPublishFilter(publishFilter),
		arcade.WithExternalEmulatorLocation(cfg.MAME.ExternalEmulatorLocation),
		arcade.WithPreferredVersion(cfg.MAME.PreferredVersion),
		arcade.WithRomsetTypes(cfg.MAME.RomsetTypes),
	}

	if cfg.DOSBox.Type != "" {
		opts = append(opts, arcade.WithDOSBoxFlavor(cfg.DOSBox.Type))
	}

	return opts, nil
}

// Option customizes an App.
type Option func(*App) error

// WithConfig replaces the loaded configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return &errors.ValidationError{Field: "config", Message: "cannot be nil"}
		}
		a.config = config
		return nil
	}
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithOpener sets the browser opener used by the launch command.
func WithOpener(opener *browser.Opener) Option {
	return func(a *App) error {
		a.opener = opener
		return nil
	}
}
