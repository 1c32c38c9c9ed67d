package games

import (
	"slices"
	"strings"

	"github.com/agentstation/arcade/pkg/errors"
)

// LoadFilter decides whether a loaded record enters the build.
type LoadFilter func(*GameRecord) bool

// PublishFlags are the media outcomes a publish filter may inspect.
type PublishFlags struct {
	HasVideo       bool
	HasLogo        bool
	HasIcon        bool
	HasMameArtwork bool
}

// PublishFilter decides whether a processed game is published.
type PublishFilter func(*GameRecord, PublishFlags) bool

var loadFilters = map[string]LoadFilter{
	"all":     func(*GameRecord) bool { return true },
	"parents": func(g *GameRecord) bool { return g.CloneOf == "" },
}

var publishFilters = map[string]PublishFilter{
	"all":    func(*GameRecord, PublishFlags) bool { return true },
	"videos": func(_ *GameRecord, f PublishFlags) bool { return f.HasVideo },
	"logos":  func(_ *GameRecord, f PublishFlags) bool { return f.HasLogo },
	"icons":  func(_ *GameRecord, f PublishFlags) bool { return f.HasIcon },
	"mame-artwork": func(g *GameRecord, f PublishFlags) bool {
		return f.HasMameArtwork || !g.IsMAME()
	},
	"videos-and-logos": func(_ *GameRecord, f PublishFlags) bool { return f.HasVideo && f.HasLogo },
}

// LoadFilterByName returns the named load filter. An empty name selects "all".
func LoadFilterByName(name string) (LoadFilter, error) {
	if name == "" {
		name = "all"
	}
	f, ok := loadFilters[name]
	if !ok {
		return nil, &errors.ValidationError{Field: "load_filter", Value: name, Message: "unknown filter, expected one of " + joinKeys(loadFilters)}
	}
	return f, nil
}

// PublishFilterByName returns the named publish filter. An empty name selects "all".
func PublishFilterByName(name string) (PublishFilter, error) {
	if name == "" {
		name = "all"
	}
	f, ok := publishFilters[name]
	if !ok {
		return nil, &errors.ValidationError{Field: "publish_filter", Value: name, Message: "unknown filter, expected one of " + joinKeys(publishFilters)}
	}
	return f, nil
}

func joinKeys[V any](m map[string]V) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return strings.Join(keys, ", ")
}
