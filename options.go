package arcade

import (
	"maps"

	"github.com/agentstation/arcade/pkg/assets"
	"github.com/agentstation/arcade/pkg/constants"
	"github.com/agentstation/arcade/pkg/errors"
	"github.com/agentstation/arcade/pkg/games"
)

// config holds the settings of a Builder.
type config struct {
	source assets.Repository
	store  assets.Store

	database       string
	language       string
	appName        string
	author         string
	defaultSection string
	fullScreen     bool
	year           int

	loadFilter    games.LoadFilter
	publishFilter games.PublishFilter

	externalEmulatorLocation string
	preferredVersion         string
	romsetTypes              map[string]string
	dosboxFlavor             string

	runID string
}

func defaultConfig() *config {
	return &config{
		database:       constants.DefaultDatabase,
		language:       constants.DefaultLanguage,
		appName:        constants.DefaultAppName,
		defaultSection: constants.DefaultSection,
		romsetTypes:    map[string]string{},
		dosboxFlavor:   constants.SystemDOSBox,
	}
}

// Option is a function that configures a Builder
type Option func(*config) error

// WithSource sets the repository every input is read from.
func WithSource(repo assets.Repository) Option {
	return func(c *config) error {
		if repo == nil {
			return &errors.ValidationError{Field: "source", Message: "cannot be nil"}
		}
		c.source = repo
		return nil
	}
}

// WithStore sets the store every output is written to.
func WithStore(store assets.Store) Option {
	return func(c *config) error {
		if store == nil {
			return &errors.ValidationError{Field: "store", Message: "cannot be nil"}
		}
		c.store = store
		return nil
	}
}

// WithDatabase selects the catalog database to build.
func WithDatabase(name string) Option {
	return func(c *config) error {
		if name == "" {
			return &errors.ValidationError{Field: "database", Message: "cannot be empty"}
		}
		c.database = name
		return nil
	}
}

// WithLanguage selects the localization language.
func WithLanguage(lang string) Option {
	return func(c *config) error {
		if lang == "" {
			return &errors.ValidationError{Field: "language", Message: "cannot be empty"}
		}
		c.language = lang
		return nil
	}
}

// WithAppName sets the name written to the run manifest and documents.
func WithAppName(name string) Option {
	return func(c *config) error {
		if name == "" {
			return &errors.ValidationError{Field: "app_name", Message: "cannot be empty"}
		}
		c.appName = name
		return nil
	}
}

// WithAuthor sets the author shown in document footers.
func WithAuthor(author string) Option {
	return func(c *config) error {
		c.author = author
		return nil
	}
}

// WithDefaultSection sets the section documents open on.
func WithDefaultSection(section string) Option {
	return func(c *config) error {
		c.defaultSection = section
		return nil
	}
}

// WithFullScreen makes documents request full screen emulation.
func WithFullScreen(enabled bool) Option {
	return func(c *config) error {
		c.fullScreen = enabled
		return nil
	}
}

// WithYear overrides the copyright year. Zero keeps the current year.
func WithYear(year int) Option {
	return func(c *config) error {
		c.year = year
		return nil
	}
}

// WithLoadFilter sets the predicate catalog records must pass to be built.
func WithLoadFilter(f games.LoadFilter) Option {
	return func(c *config) error {
		c.loadFilter = f
		return nil
	}
}

// WithPublishFilter sets the predicate processed games must pass to be published.
func WithPublishFilter(f games.PublishFilter) Option {
	return func(c *config) error {
		c.publishFilter = f
		return nil
	}
}

// WithExternalEmulatorLocation sets the base URL emulator binaries are
// referenced from when they are missing locally.
func WithExternalEmulatorLocation(location string) Option {
	return func(c *config) error {
		c.externalEmulatorLocation = location
		return nil
	}
}

// WithPreferredVersion sets the MAME dump-set version selected whenever it is complete.
func WithPreferredVersion(version string) Option {
	return func(c *config) error {
		c.preferredVersion = version
		return nil
	}
}

// WithRomsetTypes sets the merge mode of each MAME dump-set version.
func WithRomsetTypes(types map[string]string) Option {
	return func(c *config) error {
		c.romsetTypes = maps.Clone(types)
		if c.romsetTypes == nil {
			c.romsetTypes = map[string]string{}
		}
		return nil
	}
}

// WithDOSBoxFlavor selects the DOSBox emulator build.
func WithDOSBoxFlavor(flavor string) Option {
	return func(c *config) error {
		if flavor == "" {
			return &errors.ValidationError{Field: "dosbox.type", Message: "cannot be empty"}
		}
		c.dosboxFlavor = flavor
		return nil
	}
}

// WithRunID tags the run. A random id is generated when unset.
func WithRunID(id string) Option {
	return func(c *config) error {
		c.runID = id
		return nil
	}
}

func (c *config) validate() error {
	if c.source == nil {
		return &errors.ValidationError{Field: "source", Message: "is required"}
	}
	if c.store == nil {
		return &errors.ValidationError{Field: "store", Message: "is required"}
	}
	return nil
}
