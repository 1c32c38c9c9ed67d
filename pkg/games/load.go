package games

import (
	"context"
	"encoding/json"
	"path"

	"github.com/agentstation/arcade/pkg/assets"
	"github.com/agentstation/arcade/pkg/constants"
	"github.com/agentstation/arcade/pkg/errors"
	"github.com/agentstation/arcade/pkg/logging"
)

// Catalog is the result of loading one database.
type Catalog struct {
	Database string
	Games    []*GameRecord
	Rejected []Rejection
}

// Rejection records a catalog file that could not be loaded.
type Rejection struct {
	File   string
	Reason string
}

// Loader reads game records from databases/<name>/*.json.
type Loader struct {
	repo   assets.Repository
	filter LoadFilter
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader) error

// WithLoadFilter sets the predicate records must pass to enter the build.
func WithLoadFilter(f LoadFilter) LoaderOption {
	return func(l *Loader) error {
		if f == nil {
			return &errors.ValidationError{Field: "filter", Message: "load filter cannot be nil"}
		}
		l.filter = f
		return nil
	}
}

// NewLoader creates a loader reading from repo.
func NewLoader(repo assets.Repository, opts ...LoaderOption) (*Loader, error) {
	l := &Loader{repo: repo, filter: loadFilters["all"]}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Load reads, validates and normalizes every record of database. Files that
// fail to parse or validate are rejected and logged; they never fail the load.
func (l *Loader) Load(ctx context.Context, database string) (*Catalog, error) {
	logger := logging.FromContext(ctx)
	dir := path.Join(constants.DatabasesDir, database)

	if !assets.Exists(l.repo, dir) {
		return nil, &errors.NotFoundError{Resource: "database", ID: database}
	}

	files, err := assets.Files(l.repo, dir, assets.ListOptions{Extensions: []string{"json"}})
	if err != nil {
		return nil, errors.WrapResource("list", "database", database, err)
	}

	catalog := &Catalog{Database: database}
	for _, file := range files {
		key := path.Join(dir, file)

		game, err := l.loadRecord(key)
		if err != nil {
			logger.Error().Err(err).Str("file", key).Msg("Rejected catalog record")
			catalog.Rejected = append(catalog.Rejected, Rejection{File: key, Reason: err.Error()})
			continue
		}

		if !l.filter(game) {
			continue
		}
		catalog.Games = append(catalog.Games, game)
	}

	logger.Debug().
		Str("database", database).
		Int("games", len(catalog.Games)).
		Int("rejected", len(catalog.Rejected)).
		Msg("Loaded catalog")

	return catalog, nil
}

func (l *Loader) loadRecord(key string) (*GameRecord, error) {
	data, err := assets.ReadFile(l.repo, key)
	if err != nil {
		return nil, err
	}

	if !json.Valid(data) {
		return nil, errors.NewParseError("json", key, "invalid JSON", nil)
	}

	violations, err := Validate(data)
	if err != nil {
		return nil, errors.WrapParse("json", key, err)
	}
	if len(violations) > 0 {
		return nil, &errors.ValidationError{Field: key, Message: joinViolations(violations)}
	}

	var game GameRecord
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, errors.WrapParse("json", key, err)
	}

	Normalize(&game)
	return &game, nil
}
