package document

import (
	"time"

	"github.com/agentstation/arcade/pkg/constants"
	"github.com/agentstation/arcade/pkg/errors"
)

type options struct {
	appName        string
	author         string
	defaultSection string
	fullScreen     bool
	dosboxFlavor   string
	year           int
}

func defaultOptions() *options {
	return &options{
		appName:        constants.DefaultAppName,
		defaultSection: constants.DefaultSection,
		year:           time.Now().Year(),
	}
}

// Option configures a Composer.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithAppName sets the application name shown in documents.
func WithAppName(name string) Option {
	return func(o *options) error {
		if name == "" {
			return &errors.ValidationError{Field: "app_name", Message: "cannot be empty"}
		}
		o.appName = name
		return nil
	}
}

// WithAuthor sets the author credited in documents.
func WithAuthor(author string) Option {
	return func(o *options) error {
		o.author = author
		return nil
	}
}

// WithDefaultSection sets the section shown when a document opens.
func WithDefaultSection(section string) Option {
	return func(o *options) error {
		o.defaultSection = section
		return nil
	}
}

// WithFullScreen marks documents as full screen.
func WithFullScreen(enabled bool) Option {
	return func(o *options) error {
		o.fullScreen = enabled
		return nil
	}
}

// WithDOSBoxFlavor sets the DOSBox emulator build documents load.
func WithDOSBoxFlavor(flavor string) Option {
	return func(o *options) error {
		o.dosboxFlavor = flavor
		return nil
	}
}

// WithYear sets the current year placeholder.
func WithYear(year int) Option {
	return func(o *options) error {
		o.year = year
		return nil
	}
}
