package games

import (
	"regexp"
	"slices"
	"strings"
)

// Control types whose leading buttons may act as a two-way stick.
const (
	ControlOnlyButtons = "only_buttons"
	ControlPedal       = "pedal"
)

var trailingParenthetical = regexp.MustCompile(`\s*\(.*\)\s*$`)

// Normalize prepares a freshly loaded record for the pipeline: genres are
// cleaned, the description reformatted and button-driven directions mapped.
func Normalize(g *GameRecord) {
	g.Genres = CleanGenres(g.Genre)
	g.Description = NormalizeDescription(g.Description, g.IsMAME())
	NormalizeControls(g)
}

// CleanGenres splits a "/" delimited genre string, strips stray "][" and "!"
// characters and drops empty entries.
func CleanGenres(genre string) []string {
	genres := make([]string, 0, 2)
	for _, part := range strings.Split(genre, "/") {
		part = strings.ReplaceAll(part, "][", "")
		part = strings.ReplaceAll(part, "!", "")
		part = strings.TrimSpace(part)
		if part != "" {
			genres = append(genres, part)
		}
	}
	return genres
}

// NormalizeDescription moves a trailing ", The" article to the front and, for
// MAME titles, drops a trailing parenthetical.
func NormalizeDescription(desc string, mame bool) string {
	if before, after, ok := strings.Cut(desc, ", The"); ok {
		desc = "The " + before + after
	}
	if mame {
		desc = trailingParenthetical.ReplaceAllString(desc, "")
	}
	return desc
}

// NormalizeControls turns the first two button labels into stick directions
// for games whose player one has only buttons (or a pedal) and whose labels
// begin with a left/right or up/down pair.
func NormalizeControls(g *GameRecord) {
	p1 := g.Controls.Player(1)
	labels := g.ButtonLabels
	if p1 == nil || len(labels) < 2 {
		return
	}
	if p1.Type != ControlOnlyButtons && p1.Type != ControlPedal {
		return
	}

	apply := func(directions ...string) {
		g.ButtonLabels = slices.Clone(labels[2:])
		p1.Ways = 2
		p1.Buttons = len(labels)
		p1.NumberOfButtons = len(labels)
		p1.Directions = directions
	}

	if hasWord(labels[0], "left") && hasWord(labels[1], "right") {
		apply("left", "right")
	}
	if hasWord(labels[0], "up") && hasWord(labels[1], "down") {
		apply("up", "down")
	}
}

func hasWord(label, word string) bool {
	return slices.Contains(strings.Split(strings.ToLower(label), " "), word)
}
