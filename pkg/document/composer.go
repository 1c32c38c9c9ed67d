// Package document composes the HTML page of a game from template fragments,
// localized resource strings and the resolved game record.
package document

import (
	"context"
	"encoding/json"
	"html"
	"strconv"
	"strings"

	"github.com/agentstation/arcade/pkg/assets"
	"github.com/agentstation/arcade/pkg/constants"
	"github.com/agentstation/arcade/pkg/errors"
	"github.com/agentstation/arcade/pkg/games"
	"github.com/agentstation/arcade/pkg/logging"
	"github.com/agentstation/arcade/pkg/media"
)

// Common fragments every document is built from.
const (
	pieceTabstrip       = "tabstrip"
	pieceTab            = "tab"
	pieceGenreList      = "genre-list"
	pieceGenreImageItem = "genre-image-item"
	pieceGenreItem      = "genre-item"
)

// Page is everything a game document is composed from.
type Page struct {
	Game  *games.GameRecord
	Media media.Set
}

// Composer builds game documents. Common fragments and the section list are
// loaded once.
type Composer struct {
	repo      assets.Repository
	templates *Templates
	bundle    *Bundle
	opts      *options

	sections []string
	common   map[string]string
}

// New creates a Composer reading fragments from repo.
func New(repo assets.Repository, bundle *Bundle, opts ...Option) (*Composer, error) {
	if bundle == nil {
		return nil, &errors.ValidationError{Field: "bundle", Message: "cannot be nil"}
	}
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}

	c := &Composer{
		repo:      repo,
		templates: NewTemplates(repo),
		bundle:    bundle,
		opts:      o,
		common:    make(map[string]string),
	}

	if c.sections, err = c.templates.Sections(); err != nil {
		return nil, err
	}
	for _, name := range []string{pieceTabstrip, pieceTab, pieceGenreList, pieceGenreImageItem} {
		if c.common[name], err = c.templates.Common(name); err != nil {
			return nil, err
		}
	}
	c.common[pieceGenreItem] = c.common[pieceGenreImageItem]
	if c.templates.HasCommon(pieceGenreItem) {
		if c.common[pieceGenreItem], err = c.templates.Common(pieceGenreItem); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Sections returns the section names documents are built with.
func (c *Composer) Sections() []string {
	return c.sections
}

// Compose renders the document of p. A marker left unresolved after
// substitution is returned as a fatal TemplateError.
func (c *Composer) Compose(ctx context.Context, p Page) (string, error) {
	g := p.Game
	scope := Scope{ID: g.Name, System: g.SystemKey(), Genres: g.Genres}

	head, err := c.templates.Piece("head", scope)
	if err != nil {
		return "", err
	}
	css, err := c.inlineCSS(g)
	if err != nil {
		return "", err
	}

	sections := c.visibleSections(p.Media.Video.Found)
	content, err := c.sectionsHTML(scope, sections)
	if err != nil {
		return "", err
	}
	header, err := c.headerHTML(scope, sections, p.Media.Logo.Found)
	if err != nil {
		return "", err
	}
	extra, err := c.extrasHTML(scope, p.Media.Extras)
	if err != nil {
		return "", err
	}
	footer, err := c.templates.Piece("footer", scope)
	if err != nil {
		return "", err
	}
	scripts, err := c.templates.Piece("scripts", scope)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("<head>" + head + css + "</head>")
	b.WriteString(c.bodyTag(p.Media.Background.Name(scope.System)))
	b.WriteString("<header>" + header + "</header>")
	b.WriteString("<main>" + content + "</main>")
	b.WriteString("<footer>" + footer + "</footer>")
	b.WriteString(extra)
	b.WriteString(scripts)
	b.WriteString("</body>")

	doc, err := c.populate(b.String(), p)
	if err != nil {
		return "", err
	}

	if marker, ok := Unresolved(doc); ok {
		logging.FromContext(ctx).Error().Str("placeholder", marker).Msg("Bad template")
		return "", errors.NewTemplateError(scope.System+"-"+g.Name, marker)
	}
	return `<!DOCTYPE html><html lang="` + html.EscapeString(c.bundle.Lang()) + `">` + doc + "</html>", nil
}

func (c *Composer) bodyTag(background string) string {
	class := ""
	if c.opts.fullScreen {
		class = "full-screen"
	}
	return `<body class="` + class + `" dir="` + c.bundle.Dir() +
		`" style="background-image:url(../images/backgrounds/` + encodeComponent(background) + `.png)">`
}

// inlineCSS concatenates the document, system, last matching genre and game
// stylesheets.
func (c *Composer) inlineCSS(g *games.GameRecord) (string, error) {
	keys := []string{
		assets.Key(constants.StyleDir, "game.css"),
		assets.Key(constants.StyleDir, g.SystemKey()+".css"),
	}
	for i := len(g.Genres) - 1; i >= 0; i-- {
		if key := assets.Key(constants.StyleDir, g.Genres[i]+".css"); assets.Exists(c.repo, key) {
			keys = append(keys, key)
			break
		}
	}
	keys = append(keys, assets.Key(constants.StyleDir, g.Name+".css"))

	var css strings.Builder
	for _, key := range keys {
		if !assets.Exists(c.repo, key) {
			continue
		}
		text, err := assets.ReadText(c.repo, key)
		if err != nil {
			return "", err
		}
		css.WriteString("\n" + text)
	}
	if css.Len() == 0 {
		return "", nil
	}
	return "<style>" + css.String() + "</style>", nil
}

// visibleSections drops the video section when there is no preview video.
func (c *Composer) visibleSections(hasVideo bool) []string {
	sections := make([]string, 0, len(c.sections))
	for _, s := range c.sections {
		if s == "video" && !hasVideo {
			continue
		}
		sections = append(sections, s)
	}
	return sections
}

func (c *Composer) defaultSection(sections []string) string {
	for _, s := range sections {
		if s == c.opts.defaultSection {
			return s
		}
	}
	if len(sections) > 0 {
		return sections[0]
	}
	return ""
}

func (c *Composer) sectionsHTML(scope Scope, sections []string) (string, error) {
	selected := c.defaultSection(sections)

	var b strings.Builder
	for _, s := range sections {
		body, err := c.templates.Section(s, scope)
		if err != nil {
			return "", err
		}
		hidden := " hidden"
		if s == selected {
			hidden = ""
		}
		b.WriteString(`<section role="tabpanel" id="` + html.EscapeString(s) + `"` + hidden + ">" + body + "</section>")
	}
	return b.String(), nil
}

func (c *Composer) headerHTML(scope Scope, sections []string, hasLogo bool) (string, error) {
	headline := "headline"
	if hasLogo {
		headline = "headline-image"
	}
	header, err := c.templates.Piece(headline, scope)
	if err != nil {
		return "", err
	}
	nav, err := c.templates.Piece("navigation", scope)
	if err != nil {
		return "", err
	}
	header += nav

	selected := c.defaultSection(sections)
	var tabs strings.Builder
	for _, s := range sections {
		tab := Replace("section", s, c.common[pieceTab])
		tab = Replace("caption", s, tab)
		if s == selected {
			tab = Replace("data", "data-autofocus", tab)
			tab = Replace("tabIndex", "0", tab)
		} else {
			tab = Replace("data", "", tab)
			tab = Replace("tabIndex", "-1", tab)
		}
		tab = Replace("selected", strconv.FormatBool(s == selected), tab)
		tabs.WriteString(tab)
	}

	var genres strings.Builder
	for _, genre := range scope.Genres {
		logo := assets.Key(media.LogosDir, genre+" Games.png")
		item := c.common[pieceGenreItem]
		source := ""
		if assets.Exists(c.repo, logo) {
			item = c.common[pieceGenreImageItem]
			source = "../" + logo
		}
		item = Replace("name", genre, item)
		item = Replace("source", source, item)
		genres.WriteString(item)
	}

	header = ReplaceComponent("tabstrip", ReplaceComponent("tabs", tabs.String(), c.common[pieceTabstrip]), header)
	header = ReplaceComponent("genre-list", ReplaceComponent("genres", genres.String(), c.common[pieceGenreList]), header)
	return header, nil
}

func (c *Composer) extrasHTML(scope Scope, extras media.Extras) (string, error) {
	if _, ok := c.templates.PieceKey("extras.html", scope); !ok {
		return "", nil
	}
	piece, err := c.templates.Piece("extras", scope)
	if err != nil {
		return "", err
	}

	var images strings.Builder
	if len(extras.Images) > 0 {
		decoration, err := c.templates.Common(extras.Decoration())
		if err != nil {
			return "", err
		}
		for _, img := range extras.Images {
			item := Replace("index", strconv.Itoa(img.Index), decoration)
			item = Replace("source", img.URL(), item)
			images.WriteString(item)
		}
	}

	piece = ReplaceComponent("extraImages", images.String(), piece)
	if piece == "" {
		return "", nil
	}
	return `<div id="extra">` + piece + "</div>", nil
}

// populate substitutes resource strings, then display lists and record
// fields, then the computed values. Style directives, asset names and the embedded record are
// inserted as markup; everything else is escaped.
func (c *Composer) populate(doc string, p Page) (string, error) {
	g := p.Game

	for _, key := range c.bundle.Keys() {
		doc = ReplaceResource(key, c.bundle.Get(key), doc)
	}

	// Lists read better joined with ", " than in their field form.
	doc = Replace("genres", strings.Join(g.Genres, ", "), doc)
	doc = Replace("buttonLabels", strings.Join(g.ButtonLabels, ", "), doc)

	fields, err := g.Fields()
	if err != nil {
		return "", errors.WrapResource("encode", "game", g.Name, err)
	}
	for _, f := range fields {
		doc = Replace(f.Key, f.Value, doc)
	}

	record, err := json.Marshal(g)
	if err != nil {
		return "", errors.WrapResource("encode", "game", g.Name, err)
	}

	art := p.Media.Artwork
	bezelStyle, overlayStyle, artworkName, bezelName := "", "", "", ""
	if art != nil {
		artworkName, bezelName = art.Dir, art.Bezel
		bezelStyle = `style="background-image: url(&quot;` + media.ArtworkURL(art.Dir, art.Bezel) + `&quot;);`
		if ratio := art.AspectRatio(); ratio != "" {
			bezelStyle += "aspect-ratio:" + ratio
		}
		bezelStyle += `"`
		if art.Overlay != "" {
			overlayStyle = `style="background-image: url(` + media.ArtworkURL(art.OverlayDir(), art.Overlay) + `)"`
		}
	}

	players := "NA"
	if g.Players > 0 {
		players = strconv.Itoa(g.Players)
	}
	rating := "general"
	if g.Mature {
		rating = "mature"
	}
	alternating := c.bundle.Get("no")
	switch {
	case g.Players == 1:
		alternating = "N/A"
	case g.Alternating:
		alternating = c.bundle.Get("yes")
	}

	markup := []struct{ key, value string }{
		{"video-name", encodeComponent(p.Media.Video.Name(""))},
		{"bezel-style", bezelStyle},
		{"overlay-style", overlayStyle},
		{"artwork-name", encodeComponent(artworkName)},
		{"bezel-image-name", encodeComponent(bezelName)},
		{"logo-name", encodeComponent(p.Media.Logo.Name(""))},
	}
	for _, m := range markup {
		doc = ReplaceHTML(m.key, m.value, doc)
	}

	doc = Replace("rating", "--", doc)
	doc = Replace("story", "", doc)
	doc = ReplaceHTML("json", string(record), doc)

	text := []struct{ key, value string }{
		{"dosbox-emulator", c.opts.dosboxFlavor},
		{"author", c.opts.author},
		{"appName", c.opts.appName},
		{"yearCurrent", strconv.Itoa(c.opts.year)},
	}
	for _, t := range text {
		doc = Replace(t.key, t.value, doc)
	}

	avatar := p.Media.Avatar.Match
	doc = ReplaceHTML("avatarName", encodeComponent(p.Media.Avatar.Name(g.SystemKey())), doc)
	doc = ReplaceHTML("avatarFolder", encodeComponent(avatar.Folder), doc)
	doc = ReplaceHTML("iconName", encodeComponent(p.Media.Icon.Name(g.SystemKey())), doc)

	doc = Replace("players", players, doc)
	doc = Replace("generalOrMature", rating, doc)
	doc = Replace("alternatingYesNo", alternating, doc)
	return doc, nil
}
