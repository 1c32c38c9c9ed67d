package media

import (
	"fmt"
	"image"
	_ "image/png" // bezel sizes
	"net/url"
	"strings"

	"github.com/agentstation/arcade/pkg/assets"
)

// Artwork directories.
const (
	ArtworkDir    = "mame/artwork"
	GenHorizontal = "genhorizontal"
	GenVertical   = "genvertical"
	bezelName     = "bezel"
	overlayName   = "overlay"
)

// Artwork is the resolved bezel and overlay of a MAME game.
type Artwork struct {
	// Dir is the artwork directory the bezel is drawn from. It is the game
	// or clone-parent directory, or a generic placeholder directory.
	Dir string
	// Source is the game or clone-parent directory, empty when neither exists.
	Source string
	// Layouts and Images are the .lay and .png names in Source without
	// their extensions.
	Layouts []string
	Images  []string

	Bezel   string
	Overlay string

	Width  int
	Height int

	Found            bool
	MissingBezel     bool
	AmbiguousBezel   bool
	AmbiguousOverlay bool
}

// Files returns the artwork file names the emulator loads.
func (a Artwork) Files() []string {
	files := make([]string, 0, len(a.Images)+len(a.Layouts))
	for _, name := range a.Images {
		files = append(files, name+".png")
	}
	for _, name := range a.Layouts {
		files = append(files, name+".lay")
	}
	return files
}

// Generic reports whether the bezel comes from a placeholder directory.
func (a Artwork) Generic() bool {
	return a.Dir == GenHorizontal || a.Dir == GenVertical
}

// Widescreen reports whether the bezel is 16:9. Unknown sizes count as
// widescreen.
func (a Artwork) Widescreen() bool {
	if a.Width == 0 || a.Height == 0 {
		return true
	}
	return a.Width*9 == a.Height*16
}

// AspectRatio returns the CSS aspect-ratio value for bezels that are not 16:9.
func (a Artwork) AspectRatio() string {
	if a.Widescreen() {
		return ""
	}
	return fmt.Sprintf("%d / %d", a.Width, a.Height)
}

// GenericDir picks the placeholder artwork matching the game orientation.
// Games without a known resolution use the horizontal one.
func GenericDir(in Input) string {
	if in.Resolution == nil || in.Resolution.Landscape() {
		return GenHorizontal
	}
	return GenVertical
}

// ResolveArtwork selects the bezel and overlay images of a game from its own
// artwork directory or its clone parent's.
func ResolveArtwork(repo assets.Repository, in Input) (Artwork, error) {
	art := Artwork{Dir: GenericDir(in), Bezel: bezelName}

	for _, name := range []string{in.ID, in.CloneOf} {
		if name != "" && assets.Exists(repo, assets.Key(ArtworkDir, name)) {
			art.Source = name
			break
		}
	}

	if art.Source != "" {
		art.Found = true
		dir := assets.Key(ArtworkDir, art.Source)

		var err error
		if art.Layouts, err = assets.Files(repo, dir, assets.ListOptions{Extensions: []string{"lay"}, TrimExtension: true}); err != nil {
			return Artwork{}, err
		}
		if art.Images, err = assets.Files(repo, dir, assets.ListOptions{Extensions: []string{"png"}, TrimExtension: true}); err != nil {
			return Artwork{}, err
		}
		selectImages(&art)
	}

	art.Width, art.Height = imageSize(repo, assets.Key(ArtworkDir, art.Dir, art.Bezel+".png"))
	return art, nil
}

func selectImages(art *Artwork) {
	var overlays, candidates []string
	for _, name := range art.Images {
		if strings.EqualFold(name, overlayName) {
			overlays = append(overlays, name)
		} else {
			candidates = append(candidates, name)
		}
	}

	switch len(overlays) {
	case 0:
	case 1:
		art.Overlay = overlays[0]
	default:
		art.AmbiguousOverlay = true
	}

	if len(candidates) == 1 {
		art.Dir, art.Bezel = art.Source, candidates[0]
		return
	}
	if len(candidates) == 0 {
		art.MissingBezel = true
		return
	}

	var bezels []string
	for _, name := range candidates {
		if strings.Contains(strings.ToLower(name), bezelName) {
			bezels = append(bezels, name)
		}
	}
	switch len(bezels) {
	case 0:
		art.MissingBezel = true
	case 1:
		art.Dir, art.Bezel = art.Source, bezels[0]
	default:
		for _, name := range bezels {
			if strings.EqualFold(name, bezelName) {
				art.Dir, art.Bezel = art.Source, name
				return
			}
		}
		art.AmbiguousBezel = true
	}
}

// OverlayDir is the directory the overlay image lives in.
func (a Artwork) OverlayDir() string {
	if a.Overlay == "" {
		return ""
	}
	return a.Source
}

func imageSize(repo assets.Repository, key string) (int, int) {
	rc, err := repo.Open(key)
	if err != nil {
		return 0, 0
	}
	defer func() { _ = rc.Close() }()

	cfg, _, err := image.DecodeConfig(rc)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

// ArtworkURL returns the URL of an artwork image relative to a game document.
func ArtworkURL(dir, name string) string {
	return "../" + ArtworkDir + "/" + url.PathEscape(dir) + "/" + url.PathEscape(name) + ".png"
}
