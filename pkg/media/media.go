// Package media resolves which media assets a game is published with. Each
// asset kind owns an ordered chain of independent strategies; the first
// strategy that finds a physical match wins.
package media

import (
	"slices"

	"github.com/agentstation/arcade/pkg/assets"
	"github.com/agentstation/arcade/pkg/games"
)

// Kind names an asset kind.
type Kind string

// Asset kinds resolved through chains.
const (
	Video      Kind = "video"
	Logo       Kind = "logo"
	Icon       Kind = "icon"
	Background Kind = "background"
	Avatar     Kind = "avatar"
)

// Input is what strategies know about a game.
type Input struct {
	ID          string
	Description string
	CloneOf     string
	System      string
	Genres      []string
	Resolution  *games.Resolution
}

// InputFor builds the strategy input of g.
func InputFor(g *games.GameRecord) Input {
	return Input{
		ID:          g.Name,
		Description: g.Description,
		CloneOf:     g.CloneOf,
		System:      g.SystemKey(),
		Genres:      slices.Clone(g.Genres),
		Resolution:  g.NativeResolution,
	}
}

// Context is passed to every strategy.
type Context struct {
	Repo  assets.Repository
	Input Input
}

// Match is a strategy hit.
type Match struct {
	// Key is the source key to publish; empty when nothing is copied.
	Key string
	// Name is the value templates refer to the asset by.
	Name string
	// Folder is the media folder the asset lives in, when the kind has several.
	Folder string
}

// Strategy is one tier of a chain.
type Strategy struct {
	Tier string
	// Degraded marks a tier whose match still counts the asset as missing.
	Degraded bool
	Find     func(Context) (Match, bool)
}

// Outcome is the result of running a chain.
type Outcome struct {
	Kind  Kind
	Match Match
	// Tier is the tier that matched, empty when none did.
	Tier string
	// Found reports whether any tier matched.
	Found bool
	// Missing reports whether the asset counts as missing.
	Missing bool
	// Tried lists the tiers evaluated, in order.
	Tried []string
}

// Name returns the resolved name, or fallback when no tier matched.
func (o Outcome) Name(fallback string) string {
	if o.Found && o.Match.Name != "" {
		return o.Match.Name
	}
	return fallback
}

// Chain is the ordered strategy list of one kind.
type Chain struct {
	Kind       Kind
	Strategies []Strategy
}

// Resolve evaluates the strategies in order and stops at the first match.
func (c Chain) Resolve(ctx Context) Outcome {
	out := Outcome{Kind: c.Kind, Missing: true}
	for _, s := range c.Strategies {
		out.Tried = append(out.Tried, s.Tier)
		m, ok := s.Find(ctx)
		if !ok {
			continue
		}
		out.Match = m
		out.Tier = s.Tier
		out.Found = true
		out.Missing = s.Degraded
		return out
	}
	return out
}

// Set bundles the chain outcomes of one game.
type Set struct {
	Video      Outcome
	Logo       Outcome
	Icon       Outcome
	Background Outcome
	Avatar     Outcome
	Extras     Extras
	Artwork    *Artwork
}

// Flags returns the publish filter view of the set.
func (s Set) Flags() games.PublishFlags {
	return games.PublishFlags{
		HasVideo:       s.Video.Found,
		HasLogo:        s.Logo.Found,
		HasIcon:        s.Icon.Found && !s.Icon.Missing,
		HasMameArtwork: s.Artwork != nil && s.Artwork.Found,
	}
}

// Keys returns every source key the set publishes.
func (s Set) Keys() []string {
	var keys []string
	for _, o := range []Outcome{s.Video, s.Logo, s.Icon, s.Background, s.Avatar} {
		if o.Found && o.Match.Key != "" {
			keys = append(keys, o.Match.Key)
		}
	}
	for _, img := range s.Extras.Images {
		keys = append(keys, img.Key)
	}
	return keys
}
