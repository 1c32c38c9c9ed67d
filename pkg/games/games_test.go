package games_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/agentstation/arcade/pkg/assets"
	"github.com/agentstation/arcade/pkg/errors"
	"github.com/agentstation/arcade/pkg/games"
)

const pacmanJSON = `{
  "name": "pacman",
  "description": "Pac-Man (Midway)",
  "system": "mame",
  "roms": ["pacman"],
  "genre": "Maze/Action!",
  "nativeResolution": [288, 224],
  "players": 2,
  "year": "1980",
  "manufacturer": "Namco"
}`

func TestCleanGenres(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Maze/Action", []string{"Maze", "Action"}},
		{"Shooter!/][Flying", []string{"Shooter", "Flying"}},
		{" Sports / Golf ", []string{"Sports", "Golf"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, games.CleanGenres(tt.in))
		})
	}
}

func TestNormalizeDescription(t *testing.T) {
	assert.Equal(t, "The Addams Family", games.NormalizeDescription("Addams Family, The", false))
	assert.Equal(t, "Pac-Man", games.NormalizeDescription("Pac-Man (Midway)", true))
	assert.Equal(t, "Pac-Man (Midway)", games.NormalizeDescription("Pac-Man (Midway)", false))
	assert.Equal(t, "The Simpsons", games.NormalizeDescription("Simpsons, The (4 Players)", true))
}

func TestNormalizeControls(t *testing.T) {
	t.Run("left/right buttons become directions", func(t *testing.T) {
		g := &games.GameRecord{
			ButtonLabels: []string{"Rotate Left", "Rotate Right", "Fire", "Thrust"},
			Controls:     games.Controls{"1": {Type: games.ControlOnlyButtons}},
		}
		games.NormalizeControls(g)

		p1 := g.Controls.Player(1)
		assert.Equal(t, []string{"Fire", "Thrust"}, g.ButtonLabels)
		assert.Equal(t, 2, p1.Ways)
		assert.Equal(t, 4, p1.Buttons)
		assert.Equal(t, 4, p1.NumberOfButtons)
		assert.Equal(t, []string{"left", "right"}, p1.Directions)
	})

	t.Run("joystick games are untouched", func(t *testing.T) {
		g := &games.GameRecord{
			ButtonLabels: []string{"Left", "Right"},
			Controls:     games.Controls{"1": {Type: "joy"}},
		}
		games.NormalizeControls(g)
		assert.Equal(t, []string{"Left", "Right"}, g.ButtonLabels)
		assert.Empty(t, g.Controls.Player(1).Directions)
	})
}

func TestControlsArrayForm(t *testing.T) {
	var g games.GameRecord
	require.NoError(t, json.Unmarshal([]byte(`{"name":"llander","controls":[null,{"type":"pedal","extra":"x"}]}`), &g))

	p1 := g.Controls.Player(1)
	require.NotNil(t, p1)
	assert.Equal(t, games.ControlPedal, p1.Type)

	out, err := json.Marshal(g)
	require.NoError(t, err)
	assert.Equal(t, "x", gjson.GetBytes(out, "controls.1.extra").String())
}

func TestGameRecordRoundTrip(t *testing.T) {
	var g games.GameRecord
	require.NoError(t, json.Unmarshal([]byte(pacmanJSON), &g))

	assert.Equal(t, "pacman", g.Name)
	assert.Equal(t, games.Resolution{288, 224}, *g.NativeResolution)
	assert.Contains(t, g.Extra, "year")

	out, err := json.Marshal(g)
	require.NoError(t, err)
	assert.Equal(t, "Namco", gjson.GetBytes(out, "manufacturer").String())
	assert.Equal(t, "pacman", gjson.GetBytes(out, "name").String())
}

func TestGameRecordIDAlias(t *testing.T) {
	var g games.GameRecord
	require.NoError(t, json.Unmarshal([]byte(`{"id":"galaga","system":"mame"}`), &g))
	assert.Equal(t, "galaga", g.Name)
}

func TestFields(t *testing.T) {
	var g games.GameRecord
	require.NoError(t, json.Unmarshal([]byte(pacmanJSON), &g))
	games.Normalize(&g)

	fields, err := g.Fields()
	require.NoError(t, err)

	values := map[string]string{}
	for _, f := range fields {
		values[f.Key] = f.Value
	}
	assert.Equal(t, "Pac-Man", values["description"])
	assert.Equal(t, "Maze,Action", values["genres"])
	assert.Equal(t, "288,224", values["nativeResolution"])
	assert.Equal(t, "2", values["players"])
	assert.Equal(t, "1980", values["year"])
}

func TestLoader(t *testing.T) {
	repo := assets.NewMemory().
		AddText("databases/all/pacman.json", pacmanJSON).
		AddText("databases/all/puckman.json", `{"name":"pacmanf","cloneOf":"pacman","description":"Pac-Man (fast)","system":"mame","roms":["pacmanf"],"genre":"Maze"}`).
		AddText("databases/all/broken.json", `{"name":`).
		AddText("databases/all/invalid.json", `{"name":"x","system":"mame","genre":"Maze","description":"X","roms":"x"}`).
		AddText("databases/all/readme.txt", "ignored")

	t.Run("loads valid records and rejects the rest", func(t *testing.T) {
		loader, err := games.NewLoader(repo)
		require.NoError(t, err)

		catalog, err := loader.Load(context.Background(), "all")
		require.NoError(t, err)
		require.Len(t, catalog.Games, 2)
		assert.Equal(t, "pacman", catalog.Games[0].Name)
		assert.Equal(t, []string{"Maze", "Action"}, catalog.Games[0].Genres)
		assert.Len(t, catalog.Rejected, 2)
	})

	t.Run("load filter applies", func(t *testing.T) {
		filter, err := games.LoadFilterByName("parents")
		require.NoError(t, err)
		loader, err := games.NewLoader(repo, games.WithLoadFilter(filter))
		require.NoError(t, err)

		catalog, err := loader.Load(context.Background(), "all")
		require.NoError(t, err)
		require.Len(t, catalog.Games, 1)
		assert.Equal(t, "pacman", catalog.Games[0].Name)
	})

	t.Run("missing database", func(t *testing.T) {
		loader, err := games.NewLoader(repo)
		require.NoError(t, err)
		_, err = loader.Load(context.Background(), "favorites")
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestPublishFilters(t *testing.T) {
	mame := &games.GameRecord{System: "mame"}
	dos := &games.GameRecord{System: "dosbox"}

	artwork, err := games.PublishFilterByName("mame-artwork")
	require.NoError(t, err)
	assert.False(t, artwork(mame, games.PublishFlags{}))
	assert.True(t, artwork(mame, games.PublishFlags{HasMameArtwork: true}))
	assert.True(t, artwork(dos, games.PublishFlags{}))

	both, err := games.PublishFilterByName("videos-and-logos")
	require.NoError(t, err)
	assert.False(t, both(mame, games.PublishFlags{HasVideo: true}))
	assert.True(t, both(mame, games.PublishFlags{HasVideo: true, HasLogo: true}))

	_, err = games.PublishFilterByName("bogus")
	assert.True(t, errors.IsValidationError(err))
}
