// Package manifest builds the virtual file system an in-browser emulator
// instance fetches for one game, publishing every file it references.
package manifest

import (
	"context"

	"github.com/agentstation/arcade/pkg/assets"
	"github.com/agentstation/arcade/pkg/constants"
	"github.com/agentstation/arcade/pkg/errors"
	"github.com/agentstation/arcade/pkg/logging"
	"github.com/agentstation/arcade/pkg/media"
)

// Source and output locations below the MAME directory.
const (
	SamplesDir     = constants.MameDir + "/samples"
	NvramDir       = constants.MameDir + "/nvram"
	CfgDir         = constants.MameDir + "/cfg"
	ControllerFile = constants.MameDir + "/ctrlr/default.cfg"
)

// File is a file the emulator fetches into its virtual file system.
type File struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// VirtualFileSystem is the emulator's file manifest.
type VirtualFileSystem struct {
	Files   []File `json:"files"`
	Samples string `json:"samples,omitempty"`
}

// Manifest is the outcome of building one game's files.
type Manifest struct {
	// Roms are the rom archives, listed separately from the virtual file
	// system in the published metadata.
	Roms []File
	VFS  VirtualFileSystem

	Disks        []string
	NvramFiles   []string
	ArtworkFiles []string

	// MissingRoms counts required rom archives that could not be published.
	MissingRoms int
}

// Request describes the game a manifest is built for.
type Request struct {
	GameID string
	System string
	// Version is the resolved dump-set version of a MAME game.
	Version string
	// Roms are the required rom ids after version resolution.
	Roms    []string
	Artwork *media.Artwork
}

// Run holds the deduplication state shared by every game of one build.
type Run struct {
	controller bool
}

// NewRun creates the run state.
func NewRun() *Run {
	return &Run{}
}

// ControllerPublished reports whether the controller file was published.
func (r *Run) ControllerPublished() bool {
	return r.controller
}

// Builder publishes game files and records them in a manifest.
type Builder struct {
	pub *assets.Publisher
	run *Run
}

// NewBuilder creates a builder publishing through pub. The run state is
// shared by every game built with it.
func NewBuilder(pub *assets.Publisher, run *Run) *Builder {
	if run == nil {
		run = NewRun()
	}
	return &Builder{pub: pub, run: run}
}

// Build publishes the roms and optional files of a game. Only failures to
// write required roms are returned; optional categories that fail are left
// out of the manifest.
func (b *Builder) Build(ctx context.Context, req Request) (*Manifest, error) {
	m := &Manifest{VFS: VirtualFileSystem{Files: []File{}}}

	if req.System != constants.SystemMAME {
		if err := b.publishSystemRoms(ctx, req, m); err != nil {
			return nil, err
		}
		return m, nil
	}

	if err := b.publishRoms(ctx, req, m); err != nil {
		return nil, err
	}
	b.publishSamples(ctx, req, m)
	b.publishDisks(ctx, req, m)
	b.publishNvram(ctx, req, m)
	b.publishArtwork(ctx, req, m)
	b.publishController(ctx, m)
	b.publishCfg(ctx, req, m)
	return m, nil
}

func (b *Builder) publishRoms(ctx context.Context, req Request, m *Manifest) error {
	logger := logging.FromContext(ctx)
	for _, rom := range req.Roms {
		m.Roms = append(m.Roms, File{Name: rom + ".zip", URL: "../mame/roms/" + rom + ".zip"})
		if req.Version == "" {
			m.MissingRoms++
			continue
		}

		src := assets.Key(constants.MameRomsDir, req.Version, rom+".zip")
		dst := assets.Key(constants.MameRomsDir, rom+".zip")
		if err := b.pub.Copy(src, dst); err != nil {
			if errors.IsNotFound(err) {
				m.MissingRoms++
				continue
			}
			return err
		}
		logger.Debug().Str("rom", rom).Str("version", req.Version).Msg("Published ROM file")
	}
	return nil
}

func (b *Builder) publishSystemRoms(ctx context.Context, req Request, m *Manifest) error {
	logger := logging.FromContext(ctx)
	for _, rom := range req.Roms {
		key := assets.Key(req.System, "roms", rom+".zip")
		if err := b.pub.Mirror(key); err != nil {
			if errors.IsNotFound(err) {
				m.MissingRoms++
				continue
			}
			return err
		}
		m.Roms = append(m.Roms, File{Name: rom + ".zip", URL: "../" + key})
		logger.Debug().Str("rom", rom).Msg("Published ROM file")
	}
	return nil
}

func (b *Builder) publishSamples(ctx context.Context, req Request, m *Manifest) {
	key := assets.Key(SamplesDir, req.GameID+".zip")
	if !assets.Exists(b.pub.Source(), key) {
		return
	}
	if err := b.pub.Mirror(key); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("Failed to publish sound samples")
		return
	}
	m.VFS.Samples = req.GameID + "_samples"
}

func (b *Builder) publishDisks(ctx context.Context, req Request, m *Manifest) {
	if req.Version == "" {
		return
	}
	dir := assets.Key(constants.MameRomsDir, req.Version, req.GameID)
	files, err := assets.Files(b.pub.Source(), dir, assets.ListOptions{Extensions: []string{"chd"}})
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("Failed to list disk files")
		return
	}
	for _, file := range files {
		dst := assets.Key(constants.MameRomsDir, req.GameID, file)
		if err := b.pub.Copy(assets.Key(dir, file), dst); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Str("file", file).Msg("Failed to publish disk file")
			continue
		}
		m.VFS.Files = append(m.VFS.Files, File{Name: file, URL: "../" + dst})
		m.Disks = append(m.Disks, file)
	}
}

func (b *Builder) publishNvram(ctx context.Context, req Request, m *Manifest) {
	dir := assets.Key(NvramDir, req.GameID)
	files, err := assets.Files(b.pub.Source(), dir, assets.ListOptions{})
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("Failed to list NVRAM files")
		return
	}
	for _, file := range files {
		key := assets.Key(dir, file)
		if err := b.pub.Mirror(key); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Str("file", file).Msg("Failed to publish NVRAM file")
			continue
		}
		m.VFS.Files = append(m.VFS.Files, File{Name: file, URL: "../" + key})
		m.NvramFiles = append(m.NvramFiles, file)
	}
}

func (b *Builder) publishArtwork(ctx context.Context, req Request, m *Manifest) {
	art := req.Artwork
	if art == nil || art.Source == "" {
		return
	}
	for _, file := range art.Files() {
		key := assets.Key(media.ArtworkDir, art.Source, file)
		if err := b.pub.Mirror(key); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Str("file", file).Msg("Failed to publish MAME artwork file")
			continue
		}
		m.VFS.Files = append(m.VFS.Files, File{Name: "artwork/" + file, URL: "../" + key})
		m.ArtworkFiles = append(m.ArtworkFiles, file)
	}
}

func (b *Builder) publishController(ctx context.Context, m *Manifest) {
	if !assets.Exists(b.pub.Source(), ControllerFile) {
		return
	}
	if !b.run.controller {
		if err := b.pub.Mirror(ControllerFile); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Msg("Failed to publish controller file")
			return
		}
		b.run.controller = true
	}
	m.VFS.Files = append(m.VFS.Files, File{Name: "ctrlr/default.cfg", URL: "../" + ControllerFile})
}

func (b *Builder) publishCfg(ctx context.Context, req Request, m *Manifest) {
	key := assets.Key(CfgDir, req.GameID+".cfg")
	if !assets.Exists(b.pub.Source(), key) {
		return
	}
	if err := b.pub.Mirror(key); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("Failed to publish configuration file")
		return
	}
	m.VFS.Files = append(m.VFS.Files, File{Name: "cfg/" + req.GameID + ".cfg", URL: "../" + key})
}
