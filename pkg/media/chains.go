package media

import (
	"slices"

	"github.com/agentstation/arcade/pkg/assets"
	"github.com/agentstation/arcade/pkg/constants"
)

// Tier names shared by the standard chains.
const (
	TierID          = "id"
	TierDescription = "description"
	TierClone       = "clone"
	TierGenre       = "genre"
	TierSystem      = "system"
	TierCabinet     = "cabinet"
)

// Media folders below images/.
const (
	LogosDir       = constants.ImagesDir + "/logos"
	BackgroundsDir = constants.ImagesDir + "/backgrounds"
	CabinetsDir    = constants.ImagesDir + "/cabinets"
	BoxesDir       = constants.ImagesDir + "/boxes"
	ExtrasDir      = constants.ImagesDir + "/extras"
)

func byID(in Input) string          { return in.ID }
func byDescription(in Input) string { return in.Description }
func byClone(in Input) string       { return in.CloneOf }
func bySystem(in Input) string      { return in.System }

// File matches dir/<name><ext> where name is taken from the input. An empty
// name never matches.
func File(dir, ext string, name func(Input) string) func(Context) (Match, bool) {
	return func(ctx Context) (Match, bool) {
		n := name(ctx.Input)
		if n == "" {
			return Match{}, false
		}
		key := assets.Key(dir, n+ext)
		if !assets.Exists(ctx.Repo, key) {
			return Match{}, false
		}
		return Match{Key: key, Name: n}, true
	}
}

// Genre matches dir/<genre><suffix><ext> for the first genre that exists.
// Reverse searches the genre list from the most specific genre backwards.
func Genre(dir, suffix, ext string, reverse bool) func(Context) (Match, bool) {
	return func(ctx Context) (Match, bool) {
		genres := slices.Clone(ctx.Input.Genres)
		if reverse {
			slices.Reverse(genres)
		}
		for _, genre := range genres {
			key := assets.Key(dir, genre+suffix+ext)
			if assets.Exists(ctx.Repo, key) {
				return Match{Key: key, Name: genre + suffix}, true
			}
		}
		return Match{}, false
	}
}

// VideoChain resolves the preview video.
func VideoChain() Chain {
	return Chain{Kind: Video, Strategies: []Strategy{
		{Tier: TierID, Find: File(constants.PreviewsDir, ".mp4", byID)},
		{Tier: TierDescription, Find: File(constants.PreviewsDir, ".mp4", byDescription)},
		{Tier: TierClone, Find: File(constants.PreviewsDir, ".mp4", byClone)},
	}}
}

// LogoChain resolves the logo image.
func LogoChain() Chain {
	return Chain{Kind: Logo, Strategies: []Strategy{
		{Tier: TierID, Find: File(LogosDir, ".png", byID)},
		{Tier: TierDescription, Find: File(LogosDir, ".png", byDescription)},
	}}
}

// IconChain resolves the page icon. A genre icon stands in for a missing
// game icon but the game still counts as missing one.
func IconChain() Chain {
	return Chain{Kind: Icon, Strategies: []Strategy{
		{Tier: TierID, Find: File(constants.IconsDir, ".ico", byID)},
		{Tier: TierClone, Find: File(constants.IconsDir, ".ico", byClone)},
		{Tier: TierGenre, Degraded: true, Find: Genre(constants.IconsDir, "", ".ico", true)},
	}}
}

// BackgroundChain resolves the page background. A genre background counts
// the game as missing its own; the system default does not. The system
// background is published once per run after the game loop, so its tier
// copies nothing.
func BackgroundChain() Chain {
	return Chain{Kind: Background, Strategies: []Strategy{
		{Tier: TierID, Find: File(BackgroundsDir, ".png", byID)},
		{Tier: TierGenre, Degraded: true, Find: Genre(BackgroundsDir, " Games", ".png", false)},
		{Tier: TierSystem, Find: systemBackground},
	}}
}

func systemBackground(ctx Context) (Match, bool) {
	return Match{Name: ctx.Input.System}, true
}

// AvatarChain resolves the cabinet or box art shown next to the game.
// Non-MAME systems use box art when any exists for the game.
func AvatarChain() Chain {
	return Chain{Kind: Avatar, Strategies: []Strategy{
		{Tier: TierID, Find: avatar(byID)},
		{Tier: TierDescription, Find: avatar(byDescription)},
		{Tier: TierSystem, Degraded: true, Find: avatar(bySystem)},
		{Tier: TierCabinet, Degraded: true, Find: cabinetFallback},
	}}
}

// AvatarFolder returns the folder avatars are looked up in.
func AvatarFolder(repo assets.Repository, in Input) string {
	if in.System == constants.SystemMAME {
		return "cabinets"
	}
	for _, name := range []string{in.ID, in.Description} {
		if name != "" && assets.Exists(repo, assets.Key(BoxesDir, name+".png")) {
			return "boxes"
		}
	}
	return "cabinets"
}

func avatar(name func(Input) string) func(Context) (Match, bool) {
	return func(ctx Context) (Match, bool) {
		folder := AvatarFolder(ctx.Repo, ctx.Input)
		m, ok := File(assets.Key(constants.ImagesDir, folder), ".png", name)(ctx)
		m.Folder = folder
		return m, ok
	}
}

func cabinetFallback(ctx Context) (Match, bool) {
	if AvatarFolder(ctx.Repo, ctx.Input) == "cabinets" {
		return Match{}, false
	}
	m, ok := File(CabinetsDir, ".png", bySystem)(ctx)
	m.Folder = "cabinets"
	return m, ok
}

// Resolver runs the standard chains for a game.
type Resolver struct {
	repo   assets.Repository
	chains map[Kind]Chain
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithChain replaces the chain of c.Kind.
func WithChain(c Chain) ResolverOption {
	return func(r *Resolver) {
		r.chains[c.Kind] = c
	}
}

// NewResolver creates a resolver over repo using the standard chains.
func NewResolver(repo assets.Repository, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		repo: repo,
		chains: map[Kind]Chain{
			Video:      VideoChain(),
			Logo:       LogoChain(),
			Icon:       IconChain(),
			Background: BackgroundChain(),
			Avatar:     AvatarChain(),
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve runs kind's chain for in.
func (r *Resolver) Resolve(kind Kind, in Input) Outcome {
	return r.chains[kind].Resolve(Context{Repo: r.repo, Input: in})
}

// ResolveAll runs every chain plus extras and, for MAME games, artwork.
// Unresolved icons and avatars fall back to the system name.
func (r *Resolver) ResolveAll(in Input) (Set, error) {
	set := Set{
		Video:      r.Resolve(Video, in),
		Logo:       r.Resolve(Logo, in),
		Icon:       r.Resolve(Icon, in),
		Background: r.Resolve(Background, in),
		Avatar:     r.Resolve(Avatar, in),
	}
	if !set.Icon.Found {
		set.Icon.Match = Match{Name: in.System}
	}
	if !set.Avatar.Found {
		set.Avatar.Match = Match{Name: in.System, Folder: AvatarFolder(r.repo, in)}
	}

	extras, err := ResolveExtras(r.repo, in)
	if err != nil {
		return Set{}, err
	}
	set.Extras = extras

	if in.System == constants.SystemMAME {
		art, err := ResolveArtwork(r.repo, in)
		if err != nil {
			return Set{}, err
		}
		set.Artwork = &art
	}
	return set, nil
}
