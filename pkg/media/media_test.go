package media_test

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/arcade/pkg/assets"
	"github.com/agentstation/arcade/pkg/games"
	"github.com/agentstation/arcade/pkg/media"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func resolve(repo assets.Repository, kind media.Kind, in media.Input) media.Outcome {
	return media.NewResolver(repo).Resolve(kind, in)
}

func TestVideoChainOrder(t *testing.T) {
	in := media.Input{ID: "mspacman", Description: "Ms. Pac-Man", CloneOf: "pacman", System: "mame"}

	tests := []struct {
		name  string
		files []string
		tier  string
		match string
	}{
		{"id wins", []string{"video/previews/mspacman.mp4", "video/previews/pacman.mp4"}, media.TierID, "mspacman"},
		{"description", []string{"video/previews/Ms. Pac-Man.mp4", "video/previews/pacman.mp4"}, media.TierDescription, "Ms. Pac-Man"},
		{"clone parent", []string{"video/previews/pacman.mp4"}, media.TierClone, "pacman"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := resolve(assets.NewMemory().Touch(tt.files...), media.Video, in)
			require.True(t, out.Found)
			assert.False(t, out.Missing)
			assert.Equal(t, tt.tier, out.Tier)
			assert.Equal(t, tt.match, out.Match.Name)
			assert.Equal(t, "video/previews/"+tt.match+".mp4", out.Match.Key)
		})
	}
}

func TestVideoMissing(t *testing.T) {
	out := resolve(assets.NewMemory(), media.Video, media.Input{ID: "galaga", System: "mame"})
	assert.False(t, out.Found)
	assert.True(t, out.Missing)
	assert.Equal(t, []string{media.TierID, media.TierDescription, media.TierClone}, out.Tried)
}

func TestLogoIgnoresCloneParent(t *testing.T) {
	repo := assets.NewMemory().Touch("images/logos/pacman.png")
	out := resolve(repo, media.Logo, media.Input{ID: "puckman", CloneOf: "pacman"})
	assert.False(t, out.Found)
	assert.True(t, out.Missing)
}

func TestIconChain(t *testing.T) {
	in := media.Input{ID: "xevious", CloneOf: "xeviousa", System: "mame", Genres: []string{"Shooter", "Vertical"}}

	t.Run("clone parent is not missing", func(t *testing.T) {
		out := resolve(assets.NewMemory().Touch("icons/xeviousa.ico"), media.Icon, in)
		assert.Equal(t, media.TierClone, out.Tier)
		assert.False(t, out.Missing)
	})

	t.Run("most specific genre", func(t *testing.T) {
		repo := assets.NewMemory().Touch("icons/Shooter.ico", "icons/Vertical.ico")
		out := resolve(repo, media.Icon, in)
		assert.Equal(t, media.TierGenre, out.Tier)
		assert.Equal(t, "Vertical", out.Match.Name)
		assert.True(t, out.Missing)
	})

	t.Run("genre search leaves input untouched", func(t *testing.T) {
		repo := assets.NewMemory().Touch("icons/Shooter.ico")
		_ = resolve(repo, media.Icon, in)
		assert.Equal(t, []string{"Shooter", "Vertical"}, in.Genres)
	})
}

func TestIconFallbackIsNeverEmpty(t *testing.T) {
	set, err := media.NewResolver(assets.NewMemory()).ResolveAll(media.Input{ID: "galaga", System: "mame"})
	require.NoError(t, err)
	assert.False(t, set.Icon.Found)
	assert.True(t, set.Icon.Missing)
	assert.Equal(t, "mame", set.Icon.Match.Name)
	assert.NotEmpty(t, set.Icon.Name("mame"))
}

func TestBackgroundGenreForwardOrder(t *testing.T) {
	repo := assets.NewMemory().Touch("images/backgrounds/Action Games.png")
	out := resolve(repo, media.Background, media.Input{ID: "C", System: "mame", Genres: []string{"Maze", "Action"}})

	assert.Equal(t, media.TierGenre, out.Tier)
	assert.True(t, out.Missing)
	assert.Equal(t, "Action Games", out.Match.Name)
	assert.Equal(t, "images/backgrounds/Action Games.png", out.Match.Key)

	repo.Touch("images/backgrounds/Maze Games.png")
	out = resolve(repo, media.Background, media.Input{ID: "C", System: "mame", Genres: []string{"Maze", "Action"}})
	assert.Equal(t, "Maze Games", out.Match.Name)
}

func TestBackgroundSystemDefault(t *testing.T) {
	out := resolve(assets.NewMemory(), media.Background, media.Input{ID: "zork", System: "dosbox"})
	assert.True(t, out.Found)
	assert.Equal(t, media.TierSystem, out.Tier)
	assert.False(t, out.Missing)
	assert.Equal(t, "dosbox", out.Match.Name)
	assert.Empty(t, out.Match.Key)
}

func TestBackgroundExactID(t *testing.T) {
	repo := assets.NewMemory().Touch("images/backgrounds/galaga.png")
	out := resolve(repo, media.Background, media.Input{ID: "galaga", System: "mame"})
	assert.Equal(t, media.TierID, out.Tier)
	assert.False(t, out.Missing)
}

func TestAvatarFolders(t *testing.T) {
	t.Run("mame uses cabinets", func(t *testing.T) {
		repo := assets.NewMemory().Touch("images/boxes/galaga.png", "images/cabinets/galaga.png")
		out := resolve(repo, media.Avatar, media.Input{ID: "galaga", System: "mame"})
		assert.Equal(t, "cabinets", out.Match.Folder)
		assert.False(t, out.Missing)
	})

	t.Run("other systems prefer boxes", func(t *testing.T) {
		repo := assets.NewMemory().Touch("images/boxes/Doom.png")
		out := resolve(repo, media.Avatar, media.Input{ID: "doom", Description: "Doom", System: "dosbox"})
		assert.Equal(t, media.TierDescription, out.Tier)
		assert.Equal(t, "boxes", out.Match.Folder)
		assert.Equal(t, "images/boxes/Doom.png", out.Match.Key)
	})

	t.Run("system cabinet fallback", func(t *testing.T) {
		repo := assets.NewMemory().Touch("images/cabinets/dosbox.png")
		out := resolve(repo, media.Avatar, media.Input{ID: "doom", System: "dosbox"})
		assert.Equal(t, media.TierSystem, out.Tier)
		assert.Equal(t, "dosbox", out.Match.Name)
		assert.True(t, out.Missing)
	})

	t.Run("missing system avatar", func(t *testing.T) {
		set, err := media.NewResolver(assets.NewMemory()).ResolveAll(media.Input{ID: "doom", System: "dosbox"})
		require.NoError(t, err)
		assert.False(t, set.Avatar.Found)
		assert.Equal(t, "dosbox", set.Avatar.Match.Name)
		assert.Equal(t, "cabinets", set.Avatar.Match.Folder)
	})
}

func TestWithChainReplacesKind(t *testing.T) {
	custom := media.Chain{Kind: media.Logo, Strategies: []media.Strategy{{
		Tier: "always",
		Find: func(media.Context) (media.Match, bool) { return media.Match{Name: "x"}, true },
	}}}
	out := media.NewResolver(assets.NewMemory(), media.WithChain(custom)).Resolve(media.Logo, media.Input{ID: "a"})
	assert.Equal(t, "always", out.Tier)
}

func TestExtras(t *testing.T) {
	in := media.Input{ID: "galaga", System: "mame", Genres: []string{"Shooter", "Space"}}

	t.Run("game png", func(t *testing.T) {
		ex, err := media.ResolveExtras(assets.NewMemory().Touch("images/extras/galaga.png", "images/extras/galaga.gif"), in)
		require.NoError(t, err)
		assert.Equal(t, media.ExtrasGame, ex.Type)
		assert.Equal(t, "decoration", ex.Decoration())
		require.Len(t, ex.Images, 1)
		assert.Equal(t, "../images/extras/galaga.png", ex.Images[0].URL())
		assert.Equal(t, 1, ex.Images[0].Index)
	})

	t.Run("game directory", func(t *testing.T) {
		repo := assets.NewMemory().Touch(
			"images/extras/galaga/2-flyer.png",
			"images/extras/galaga/a.gif",
			"images/extras/galaga/b.png",
			"images/extras/galaga/c.png",
			"images/extras/galaga/d.png",
			"images/extras/galaga/notes.txt",
		)
		ex, err := media.ResolveExtras(repo, in)
		require.NoError(t, err)
		require.Len(t, ex.Images, 5)
		indexes := make([]int, 0, len(ex.Images))
		for _, img := range ex.Images {
			indexes = append(indexes, img.Index)
		}
		assert.Equal(t, []int{2, 2, 3, 4, 4}, indexes)
		assert.Equal(t, "images/extras/galaga/2-flyer.png", ex.Images[0].Key)
	})

	t.Run("most specific genre", func(t *testing.T) {
		repo := assets.NewMemory().Touch("images/extras/Shooter games.png", "images/extras/Space games.png")
		ex, err := media.ResolveExtras(repo, in)
		require.NoError(t, err)
		assert.Equal(t, media.ExtrasGenre, ex.Type)
		assert.Equal(t, "decorationgenre-decoration", ex.Decoration())
		require.Len(t, ex.Images, 1)
		assert.Equal(t, "Space games.png", ex.Images[0].Name)
	})

	t.Run("genre directory", func(t *testing.T) {
		repo := assets.NewMemory().Touch("images/extras/Shooter games/1.png")
		ex, err := media.ResolveExtras(repo, in)
		require.NoError(t, err)
		require.Len(t, ex.Images, 1)
		assert.Equal(t, "../images/extras/Shooter games/1.png", ex.Images[0].URL())
	})

	t.Run("system", func(t *testing.T) {
		ex, err := media.ResolveExtras(assets.NewMemory().Touch("images/extras/mame.gif"), in)
		require.NoError(t, err)
		assert.Equal(t, "decorationsystem-decoration", ex.Decoration())
	})

	t.Run("none", func(t *testing.T) {
		ex, err := media.ResolveExtras(assets.NewMemory(), in)
		require.NoError(t, err)
		assert.Empty(t, ex.Images)
	})
}

func TestArtworkSingleImage(t *testing.T) {
	repo := assets.NewMemory().
		Add("mame/artwork/dkong/dkong_bezel.png", pngOf(t, 1600, 900)).
		Touch("mame/artwork/dkong/dkong.lay")

	art, err := media.ResolveArtwork(repo, media.Input{ID: "dkong"})
	require.NoError(t, err)
	assert.True(t, art.Found)
	assert.Equal(t, "dkong", art.Dir)
	assert.Equal(t, "dkong_bezel", art.Bezel)
	assert.True(t, art.Widescreen())
	assert.Empty(t, art.AspectRatio())
	assert.Equal(t, []string{"dkong_bezel.png", "dkong.lay"}, art.Files())
}

func TestArtworkCloneParentAndOverlay(t *testing.T) {
	repo := assets.NewMemory().
		Add("mame/artwork/invaders/bezel.png", pngOf(t, 300, 400)).
		Touch("mame/artwork/invaders/overlay.png", "mame/artwork/invaders/backdrop.png")

	art, err := media.ResolveArtwork(repo, media.Input{ID: "sisv", CloneOf: "invaders"})
	require.NoError(t, err)
	assert.Equal(t, "invaders", art.Source)
	assert.Equal(t, "bezel", art.Bezel)
	assert.Equal(t, "overlay", art.Overlay)
	assert.Equal(t, "invaders", art.OverlayDir())
	assert.Equal(t, "300 / 400", art.AspectRatio())
}

func TestArtworkPrefersUniqueBezelName(t *testing.T) {
	repo := assets.NewMemory().Touch("mame/artwork/tron/backdrop.png", "mame/artwork/tron/tron_bezel.png")
	art, err := media.ResolveArtwork(repo, media.Input{ID: "tron"})
	require.NoError(t, err)
	assert.Equal(t, "tron_bezel", art.Bezel)
	assert.False(t, art.AmbiguousBezel)
}

func TestArtworkAmbiguousBezel(t *testing.T) {
	res := games.Resolution{224, 288}
	repo := assets.NewMemory().Touch("mame/artwork/pacman/bezel_a.png", "mame/artwork/pacman/bezel_b.png")

	art, err := media.ResolveArtwork(repo, media.Input{ID: "pacman", Resolution: &res})
	require.NoError(t, err)
	assert.True(t, art.AmbiguousBezel)
	assert.Equal(t, media.GenVertical, art.Dir)
	assert.Equal(t, "bezel", art.Bezel)
	assert.True(t, art.Generic())
}

func TestArtworkAmbiguousOverlayDropsBoth(t *testing.T) {
	repo := assets.NewMemory().Touch(
		"mame/artwork/astrob/Overlay.png",
		"mame/artwork/astrob/overlay.png",
		"mame/artwork/astrob/bezel.png",
	)
	art, err := media.ResolveArtwork(repo, media.Input{ID: "astrob"})
	require.NoError(t, err)
	assert.True(t, art.AmbiguousOverlay)
	assert.Empty(t, art.Overlay)
	assert.Equal(t, "bezel", art.Bezel)
	assert.Equal(t, "astrob", art.Dir)
}

func TestArtworkMissing(t *testing.T) {
	repo := assets.NewMemory().Add("mame/artwork/genhorizontal/bezel.png", pngOf(t, 1920, 1080))

	art, err := media.ResolveArtwork(repo, media.Input{ID: "zaxxon"})
	require.NoError(t, err)
	assert.False(t, art.Found)
	assert.Equal(t, media.GenHorizontal, art.Dir)
	assert.Equal(t, 1920, art.Width)
	assert.Empty(t, art.Files())
}

func TestArtworkOnlyOverlayIsMissingBezel(t *testing.T) {
	repo := assets.NewMemory().Touch("mame/artwork/sspeedr/overlay.png")
	art, err := media.ResolveArtwork(repo, media.Input{ID: "sspeedr"})
	require.NoError(t, err)
	assert.True(t, art.MissingBezel)
	assert.Equal(t, "overlay", art.Overlay)
	assert.True(t, art.Generic())
}

func TestSetFlags(t *testing.T) {
	repo := assets.NewMemory().Touch("video/previews/galaga.mp4", "icons/Shooter.ico", "mame/artwork/galaga/bezel.png")
	set, err := media.NewResolver(repo).ResolveAll(media.Input{ID: "galaga", System: "mame", Genres: []string{"Shooter"}})
	require.NoError(t, err)

	flags := set.Flags()
	assert.True(t, flags.HasVideo)
	assert.False(t, flags.HasLogo)
	assert.False(t, flags.HasIcon)
	assert.True(t, flags.HasMameArtwork)
	assert.Contains(t, set.Keys(), "video/previews/galaga.mp4")
	assert.Contains(t, set.Keys(), "icons/Shooter.ico")
}

func TestInputFor(t *testing.T) {
	g := &games.GameRecord{Name: "galaga", Description: "Galaga", System: "MAME", Genres: []string{"Shooter"}}
	in := media.InputFor(g)
	assert.Equal(t, "mame", in.System)
	assert.Equal(t, "galaga", in.ID)
	in.Genres[0] = "x"
	assert.Equal(t, "Shooter", g.Genres[0])
}
