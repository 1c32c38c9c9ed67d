package document_test

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/arcade/pkg/assets"
	"github.com/agentstation/arcade/pkg/document"
	"github.com/agentstation/arcade/pkg/errors"
	"github.com/agentstation/arcade/pkg/games"
	"github.com/agentstation/arcade/pkg/media"
)

const resources = `{
	"en": {"players": "Players", "yes": "Yes", "no": "No"},
	"ar": {"players": "اللاعبون", "yes": "نعم", "no": "لا"}
}`

func fixture() *assets.Memory {
	return assets.NewMemory().
		AddText("resources.json", resources).
		AddText("html/common/tabstrip.html", `<nav role="tablist">{{ component-tabs }}</nav>`).
		AddText("html/common/tab.html", `<button role="tab" aria-controls="{{section}}" aria-selected="{{selected}}" tabindex="{{tabIndex}}" {{data}}>{{caption}}</button>`).
		AddText("html/common/genre-list.html", `<ul class="genres">{{component-genres}}</ul>`).
		AddText("html/common/genre-image-item.html", `<li class="logo"><img alt="{{name}}" src="{{source}}"></li>`).
		AddText("html/common/genre-item.html", `<li class="text">{{name}}</li>`).
		AddText("html/common/decoration.html", `<img class="decoration-{{index}}" src="{{source}}">`).
		AddText("html/game/head.html", `<title>{{description}} - {{appName}}</title><link rel="icon" href="../icons/{{iconName}}.ico">`).
		AddText("html/game/headline.html", `<h1>{{description}}</h1>`).
		AddText("html/game/headline-image.html", `<h1><img alt="{{description}}" src="../images/logos/{{logo-name}}.png"></h1>`).
		AddText("html/game/navigation.html", `{{component-tabstrip}}{{component-genre-list}}`).
		AddText("html/game/footer.html", `<p class="generic">{{yearCurrent}} {{author}}</p>`).
		AddText("html/game/scripts.html", `<script>const game = {{json}};</script>`).
		AddText("html/game/extras.html", `{{component-extraImages}}`).
		AddText("html/game/sections/emulator.html", `<div class="bezel" {{bezel-style}}></div><p class="players">{{resource-players}}: {{players}}</p>`).
		AddText("html/game/sections/info.html", `<p class="genres">{{genres}}</p><p class="alt">{{alternatingYesNo}}</p>`).
		AddText("html/game/sections/video.html", `<video src="../video/previews/{{video-name}}.mp4"></video>`)
}

func galaga() *games.GameRecord {
	return &games.GameRecord{
		Name:        "galaga",
		Description: "Galaga",
		System:      "mame",
		Genre:       "Shooter/Space",
		Genres:      []string{"Shooter", "Space"},
		Roms:        []string{"galaga"},
		Players:     2,
		Alternating: true,
	}
}

func compose(t *testing.T, repo *assets.Memory, g *games.GameRecord, lang string, opts ...document.Option) (string, error) {
	t.Helper()
	bundle, err := document.LoadBundle(repo, lang)
	require.NoError(t, err)

	c, err := document.New(repo, bundle, append([]document.Option{document.WithYear(2024), document.WithAuthor("Arcade Team")}, opts...)...)
	require.NoError(t, err)

	set, err := media.NewResolver(repo).ResolveAll(media.InputFor(g))
	require.NoError(t, err)
	return c.Compose(context.Background(), document.Page{Game: g, Media: set})
}

func parse(t *testing.T, doc string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	require.NoError(t, err)
	return d
}

func TestComposeDocument(t *testing.T) {
	repo := fixture().Touch("images/logos/Shooter Games.png", "images/backgrounds/Space Games.png")

	out, err := compose(t, repo, galaga(), "en")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `<!DOCTYPE html><html lang="en">`))

	d := parse(t, out)
	assert.Equal(t, "Galaga - Arcade", d.Find("title").Text())
	assert.Equal(t, "ltr", d.Find("body").AttrOr("dir", ""))
	assert.Contains(t, d.Find("body").AttrOr("style", ""), "../images/backgrounds/Space%20Games.png")
	assert.Equal(t, "../icons/mame.ico", d.Find(`link[rel="icon"]`).AttrOr("href", ""))
	assert.Equal(t, "Galaga", d.Find("h1").Text())

	assert.Equal(t, 2, d.Find("section[role=tabpanel]").Length())
	assert.Zero(t, d.Find("section#video").Length())
	_, hidden := d.Find("section#emulator").Attr("hidden")
	assert.False(t, hidden)
	_, hidden = d.Find("section#info").Attr("hidden")
	assert.True(t, hidden)

	assert.Equal(t, "true", d.Find(`button[aria-controls="emulator"]`).AttrOr("aria-selected", ""))
	assert.Equal(t, "-1", d.Find(`button[aria-controls="info"]`).AttrOr("tabindex", ""))

	assert.Equal(t, "../images/logos/Shooter Games.png", d.Find("li.logo img").AttrOr("src", ""))
	assert.Equal(t, "Space", d.Find("li.text").Text())

	assert.Equal(t, "Players: 2", d.Find("p.players").Text())
	assert.Equal(t, "Shooter, Space", d.Find("p.genres").Text())
	assert.Equal(t, "Yes", d.Find("p.alt").Text())
	assert.Equal(t, "2024 Arcade Team", d.Find("footer p").Text())
	assert.Contains(t, d.Find("script").Text(), `"name":"galaga"`)

	bezel := d.Find("div.bezel").AttrOr("style", "")
	assert.Contains(t, bezel, "../mame/artwork/genhorizontal/bezel.png")
}

func TestComposeWithVideoAndLogo(t *testing.T) {
	repo := fixture().Touch("video/previews/Galaga.mp4", "images/logos/galaga.png")

	out, err := compose(t, repo, galaga(), "en")
	require.NoError(t, err)

	d := parse(t, out)
	assert.Equal(t, "../video/previews/Galaga.mp4", d.Find("video").AttrOr("src", ""))
	assert.Equal(t, "../images/logos/galaga.png", d.Find("h1 img").AttrOr("src", ""))
	assert.Equal(t, 3, d.Find("button[role=tab]").Length())
}

func TestComposeEscapesRecordFields(t *testing.T) {
	g := galaga()
	g.Description = `Tom & Jerry <Deluxe>`

	out, err := compose(t, fixture(), g, "en")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>Tom &amp; Jerry &lt;Deluxe&gt;</h1>")
	assert.Equal(t, "Tom & Jerry <Deluxe> - Arcade", parse(t, out).Find("title").Text())
}

func TestComposeUnresolvedPlaceholderIsFatal(t *testing.T) {
	repo := fixture().AddText("html/game/galaga/footer.html", `<p>{{ highScore }}</p>`)

	out, err := compose(t, repo, galaga(), "en")
	require.Error(t, err)
	assert.Empty(t, out)
	assert.True(t, errors.IsFatal(err))

	var tmplErr *errors.TemplateError
	require.True(t, errors.As(err, &tmplErr))
	assert.Equal(t, "highScore", tmplErr.Placeholder)
}

func TestFragmentPrecedence(t *testing.T) {
	repo := fixture().
		AddText("html/game/mame/footer.html", `<p class="system"></p>`).
		AddText("html/game/Shooter/footer.html", `<p class="shooter"></p>`).
		AddText("html/game/Space/footer.html", `<p class="space"></p>`)
	scope := document.Scope{ID: "galaga", System: "mame", Genres: []string{"Shooter", "Space"}}
	tmpl := document.NewTemplates(repo)

	piece, err := tmpl.Piece("footer", scope)
	require.NoError(t, err)
	assert.Contains(t, piece, "space")

	repo.AddText("html/game/galaga/footer.html", `<p class="game"></p>`)
	piece, err = tmpl.Piece("footer", scope)
	require.NoError(t, err)
	assert.Contains(t, piece, "game")

	piece, err = tmpl.Piece("footer", document.Scope{ID: "dkong", System: "mame"})
	require.NoError(t, err)
	assert.Contains(t, piece, "system")

	piece, err = tmpl.Piece("footer", document.Scope{ID: "doom", System: "dosbox"})
	require.NoError(t, err)
	assert.Contains(t, piece, "generic")

	_, err = tmpl.Piece("missing", scope)
	assert.True(t, errors.IsNotFound(err))
}

func TestInlineCSSOrder(t *testing.T) {
	repo := fixture().
		AddText("style/game.css", "a{}").
		AddText("style/mame.css", "b{}").
		AddText("style/Shooter.css", "c{}").
		AddText("style/Space.css", "d{}").
		AddText("style/galaga.css", "e{}")

	out, err := compose(t, repo, galaga(), "en")
	require.NoError(t, err)
	assert.Contains(t, out, "<style>\na{}\nb{}\nd{}\ne{}</style>")
}

func TestComposeRightToLeft(t *testing.T) {
	out, err := compose(t, fixture(), galaga(), "ar")
	require.NoError(t, err)

	d := parse(t, out)
	assert.Equal(t, "rtl", d.Find("body").AttrOr("dir", ""))
	assert.Equal(t, "ar", d.Find("html").AttrOr("lang", ""))
	assert.Equal(t, "نعم", d.Find("p.alt").Text())
}

func TestComposeExtras(t *testing.T) {
	repo := fixture().Touch("images/extras/galaga/1.png", "images/extras/galaga/flyer.png")

	out, err := compose(t, repo, galaga(), "en")
	require.NoError(t, err)

	imgs := parse(t, out).Find("div#extra img")
	require.Equal(t, 2, imgs.Length())
	assert.Equal(t, "decoration-1", imgs.Eq(0).AttrOr("class", ""))
	assert.Equal(t, "../images/extras/galaga/flyer.png", imgs.Eq(1).AttrOr("src", ""))
}

func TestSinglePlayerAlternating(t *testing.T) {
	g := galaga()
	g.Players = 1

	out, err := compose(t, fixture(), g, "en")
	require.NoError(t, err)
	assert.Equal(t, "N/A", parse(t, out).Find("p.alt").Text())
}

func TestBundleFallsBackToClosestLanguage(t *testing.T) {
	b, err := document.LoadBundle(fixture(), "en-US")
	require.NoError(t, err)
	assert.Equal(t, "Players", b.Get("players"))
	assert.Equal(t, "en-US", b.Lang())
	assert.Equal(t, "ltr", b.Dir())

	_, err = document.LoadBundle(fixture(), "not a tag!")
	assert.True(t, errors.IsValidationError(err))
}

func TestUnresolved(t *testing.T) {
	marker, ok := document.Unresolved(`<p>{{  name }}</p>`)
	assert.True(t, ok)
	assert.Equal(t, "name", marker)

	_, ok = document.Unresolved(`<script>if (a) {b()}</script>`)
	assert.False(t, ok)
}

func TestReplace(t *testing.T) {
	assert.Equal(t, "<b>a &amp; b</b>", document.Replace("x", "a & b", "<b>{{ x }}</b>"))
	assert.Equal(t, "<b><i>$1</i></b>", document.ReplaceHTML("x", "<i>$1</i>", "<b>{{x}}</b>"))
	assert.Equal(t, "Players", document.ReplaceResource("players", "Players", "{{resource-players}}"))
}
