package assets_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/arcade/pkg/assets"
	"github.com/agentstation/arcade/pkg/errors"
)

func TestMemoryResolve(t *testing.T) {
	repo := assets.NewMemory().
		Touch("mame/roms/0.261/pacman.zip").
		AddDir("mame/nvram/pacman")

	tests := []struct {
		key  string
		want bool
	}{
		{"mame/roms/0.261/pacman.zip", true},
		{"mame/roms/0.261", true},
		{"mame/roms", true},
		{"mame/nvram/pacman", true},
		{"mame/roms/0.261/galaga.zip", false},
		{"mame/roms/0.26", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, assets.Exists(repo, tt.key))
		})
	}
}

func TestMemoryList(t *testing.T) {
	repo := assets.NewMemory().
		Touch("mame/roms/0.261/pacman.zip", "mame/roms/0.250/galaga.zip", "mame/roms/readme.txt").
		AddDir("mame/roms/0.270")

	entries, err := repo.List("mame/roms")
	require.NoError(t, err)
	assert.Equal(t, []assets.Entry{
		{Name: "0.250", Dir: true},
		{Name: "0.261", Dir: true},
		{Name: "0.270", Dir: true},
		{Name: "readme.txt", Dir: false},
	}, entries)

	_, err = repo.List("missing")
	assert.True(t, errors.IsNotFound(err))
}

func TestFiles(t *testing.T) {
	repo := assets.NewMemory().
		Touch(
			"mame/artwork/pacman/bezel.png",
			"mame/artwork/pacman/Overlay.PNG",
			"mame/artwork/pacman/default.lay",
			"html/game/head.html",
			"html/common/tab.html",
		)

	t.Run("extension filter trims names", func(t *testing.T) {
		names, err := assets.Files(repo, "mame/artwork/pacman", assets.ListOptions{Extensions: []string{"png"}, TrimExtension: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"Overlay", "bezel"}, names)
	})

	t.Run("recursive walk keeps relative keys", func(t *testing.T) {
		names, err := assets.Files(repo, "html", assets.ListOptions{Extensions: []string{"html"}, Recursive: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"common/tab.html", "game/head.html"}, names)
	})

	t.Run("missing directory yields nothing", func(t *testing.T) {
		names, err := assets.Files(repo, "mame/nvram/pacman", assets.ListOptions{})
		require.NoError(t, err)
		assert.Empty(t, names)
	})
}

func TestPublisher(t *testing.T) {
	repo := assets.NewMemory().AddText("icons/pacman.ico", "ico")
	store := assets.NewMemoryStore()
	pub := assets.NewPublisher(repo, store)

	require.NoError(t, pub.Mirror("icons/pacman.ico"))
	data, ok := store.Get("icons/pacman.ico")
	require.True(t, ok)
	assert.Equal(t, "ico", string(data))

	err := pub.Mirror("icons/galaga.ico")
	assert.True(t, errors.IsNotFound(err))
	assert.False(t, pub.TryMirror("icons/galaga.ico"))

	require.NoError(t, pub.Write("games/mame-pacman-00000000.html", []byte("<html>")))
	require.NoError(t, pub.Write("games/keep.txt", nil))
	require.NoError(t, pub.Clean("games", "html"))
	assert.False(t, store.Has("games/mame-pacman-00000000.html"))
	assert.True(t, store.Has("games/keep.txt"))
	assert.Equal(t, 3, pub.Count())
}

func TestDirRepositoryAndStore(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "mame", "roms", "0.261"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "mame", "roms", "0.261", "pacman.zip"), []byte("zip"), 0o644))

	repo := assets.NewDir(src)
	loc, ok := repo.Resolve("mame/roms/0.261/pacman.zip")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(src, "mame", "roms", "0.261", "pacman.zip"), loc)

	entries, err := repo.List("mame/roms")
	require.NoError(t, err)
	assert.Equal(t, []assets.Entry{{Name: "0.261", Dir: true}}, entries)

	out := t.TempDir()
	pub := assets.NewPublisher(repo, assets.NewDirStore(out))
	require.NoError(t, pub.Copy("mame/roms/0.261/pacman.zip", "mame/roms/pacman.zip"))

	data, err := os.ReadFile(filepath.Join(out, "mame", "roms", "pacman.zip"))
	require.NoError(t, err)
	assert.Equal(t, "zip", string(data))

	require.NoError(t, assets.NewDirStore(out).Clean("games", "html"))
}
