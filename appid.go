package arcade

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"path"

	"github.com/agentstation/arcade/pkg/assets"
	"github.com/agentstation/arcade/pkg/constants"
	"github.com/agentstation/arcade/pkg/errors"
)

// AppManifest is the run manifest written to app.json.
type AppManifest struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// AppID digests every template file under html/ in sorted key order and
// returns the leading hex characters. It changes whenever a template does.
func AppID(repo assets.Repository) (string, error) {
	files, err := assets.Files(repo, constants.HTMLDir, assets.ListOptions{Recursive: true})
	if err != nil {
		return "", errors.WrapResource("list", "templates", constants.HTMLDir, err)
	}

	h := sha256.New()
	for _, file := range files {
		data, err := assets.ReadFile(repo, path.Join(constants.HTMLDir, file))
		if err != nil {
			return "", err
		}
		h.Write(data)
	}
	return hex.EncodeToString(h.Sum(nil))[:constants.AppIDLength], nil
}

// ReadAppManifest reads a published run manifest.
func ReadAppManifest(repo assets.Repository) (*AppManifest, error) {
	data, err := assets.ReadFile(repo, constants.AppFile)
	if err != nil {
		return nil, err
	}
	var m AppManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.WrapParse("json", constants.AppFile, err)
	}
	return &m, nil
}

// DocumentKey returns the output key of a game document.
func DocumentKey(system, game, appID string) string {
	return path.Join(constants.GamesDir, system+"-"+game+"-"+appID+".html")
}
