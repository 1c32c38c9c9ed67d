package document

import (
	"slices"

	"github.com/agentstation/arcade/pkg/assets"
	"github.com/agentstation/arcade/pkg/constants"
	"github.com/agentstation/arcade/pkg/errors"
)

// Template directories below html/.
const (
	CommonDir   = constants.HTMLDir + "/common"
	GameDir     = constants.HTMLDir + "/game"
	SectionsDir = "sections"
)

// Scope identifies the game a fragment is resolved for.
type Scope struct {
	ID     string
	System string
	Genres []string
}

// Templates loads HTML fragments from the repository.
type Templates struct {
	repo assets.Repository
}

// NewTemplates creates a loader over repo.
func NewTemplates(repo assets.Repository) *Templates {
	return &Templates{repo: repo}
}

// Common loads html/common/<name>.html.
func (t *Templates) Common(name string) (string, error) {
	return assets.ReadText(t.repo, assets.Key(CommonDir, name+".html"))
}

// HasCommon reports whether html/common/<name>.html exists.
func (t *Templates) HasCommon(name string) bool {
	return assets.Exists(t.repo, assets.Key(CommonDir, name+".html"))
}

// Piece loads a game fragment. A game-specific fragment wins over the last
// matching genre, which wins over the system fragment and then the generic
// one.
func (t *Templates) Piece(name string, s Scope) (string, error) {
	return t.resolve(name+".html", s)
}

// Section loads a section fragment with the same precedence as Piece.
func (t *Templates) Section(name string, s Scope) (string, error) {
	return t.resolve(assets.Key(SectionsDir, name+".html"), s)
}

// PieceKey returns the key Piece would load, and false when no tier has it.
func (t *Templates) PieceKey(file string, s Scope) (string, bool) {
	var dirs []string
	if s.ID != "" {
		dirs = append(dirs, s.ID)
	}
	for _, genre := range slices.Backward(s.Genres) {
		dirs = append(dirs, genre)
	}
	if s.System != "" {
		dirs = append(dirs, s.System)
	}
	dirs = append(dirs, "")

	for _, dir := range dirs {
		key := assets.Key(GameDir, dir, file)
		if assets.Exists(t.repo, key) {
			return key, true
		}
	}
	return "", false
}

func (t *Templates) resolve(file string, s Scope) (string, error) {
	key, ok := t.PieceKey(file, s)
	if !ok {
		return "", &errors.NotFoundError{Resource: "template", ID: assets.Key(GameDir, file)}
	}
	return assets.ReadText(t.repo, key)
}

// Sections lists the section names under html/game/sections.
func (t *Templates) Sections() ([]string, error) {
	return assets.Files(t.repo, assets.Key(GameDir, SectionsDir), assets.ListOptions{
		Extensions:    []string{"html"},
		TrimExtension: true,
	})
}
