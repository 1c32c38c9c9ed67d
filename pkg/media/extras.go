package media

import (
	"slices"
	"strconv"

	"github.com/agentstation/arcade/pkg/assets"
	"github.com/agentstation/arcade/pkg/constants"
)

// Extra image tiers. The tier picks the decoration fragment used to render
// each image.
const (
	ExtrasGame   = ""
	ExtrasGenre  = "genre"
	ExtrasSystem = "system"
)

// ExtraImage is one decoration image.
type ExtraImage struct {
	// Name is the file name including its extension.
	Name string
	// Key is the source key, which is also the published key.
	Key string
	// Index is the decoration slot the image is placed in.
	Index int
}

// URL returns the image URL relative to a game document.
func (e ExtraImage) URL() string {
	return "../" + e.Key
}

// Extras is the resolved set of decoration images.
type Extras struct {
	Type   string
	Images []ExtraImage
}

// Decoration returns the common fragment name the images render with.
func (e Extras) Decoration() string {
	if e.Type == ExtrasGame {
		return "decoration"
	}
	return "decoration" + e.Type + "-decoration"
}

var extraExtensions = []string{"png", "gif"}

// ResolveExtras finds the decoration images of a game. Each tier tries a
// single png, then a single gif, then a directory of images.
func ResolveExtras(repo assets.Repository, in Input) (Extras, error) {
	var names []string
	if in.ID != "" {
		names = append(names, in.ID)
	}
	tiers := []struct {
		typ   string
		names []string
	}{
		{ExtrasGame, names},
		{ExtrasGenre, genreExtraNames(in.Genres)},
		{ExtrasSystem, []string{in.System}},
	}

	for _, tier := range tiers {
		images, err := findExtras(repo, tier.names)
		if err != nil {
			return Extras{}, err
		}
		if images != nil {
			return Extras{Type: tier.typ, Images: images}, nil
		}
	}
	return Extras{}, nil
}

// genreExtraNames lists "<genre> games" from the most specific genre back.
func genreExtraNames(genres []string) []string {
	names := make([]string, 0, len(genres))
	for _, genre := range slices.Backward(genres) {
		names = append(names, genre+" games")
	}
	return names
}

func findExtras(repo assets.Repository, names []string) ([]ExtraImage, error) {
	for _, ext := range []string{".png", ".gif"} {
		for _, name := range names {
			key := assets.Key(ExtrasDir, name+ext)
			if assets.Exists(repo, key) {
				return extraImages(ExtrasDir, []string{name + ext}), nil
			}
		}
	}

	for _, name := range names {
		dir := assets.Key(ExtrasDir, name)
		if !assets.Exists(repo, dir) {
			continue
		}
		files, err := assets.Files(repo, dir, assets.ListOptions{Extensions: extraExtensions})
		if err != nil {
			return nil, err
		}
		return extraImages(dir, files), nil
	}
	return nil, nil
}

func extraImages(dir string, files []string) []ExtraImage {
	images := make([]ExtraImage, 0, len(files))
	for i, name := range files {
		images = append(images, ExtraImage{
			Name:  name,
			Key:   assets.Key(dir, name),
			Index: extraIndex(name, i),
		})
	}
	return images
}

// extraIndex uses the leading number of the file name when there is one,
// otherwise the position capped at the last slot.
func extraIndex(name string, i int) int {
	end := 0
	for end < len(name) && name[end] >= '0' && name[end] <= '9' {
		end++
	}
	if n, err := strconv.Atoi(name[:end]); err == nil {
		return n
	}
	return min(i+1, constants.MaxExtraImageIndex)
}
