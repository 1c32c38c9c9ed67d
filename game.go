package arcade

import (
	"context"
	"path"
	"slices"

	"github.com/agentstation/arcade/pkg/assets"
	"github.com/agentstation/arcade/pkg/constants"
	"github.com/agentstation/arcade/pkg/document"
	"github.com/agentstation/arcade/pkg/errors"
	"github.com/agentstation/arcade/pkg/games"
	"github.com/agentstation/arcade/pkg/logging"
	"github.com/agentstation/arcade/pkg/manifest"
	"github.com/agentstation/arcade/pkg/media"
	"github.com/agentstation/arcade/pkg/metadata"
	"github.com/agentstation/arcade/pkg/report"
	"github.com/agentstation/arcade/pkg/versions"
)

// Machines whose emulator builds have never been found. They are skipped even
// when binaries could be referenced externally.
var undiscoveredMachines = []string{
	"ace", "carpolo", "clayshoo", "cybsled", "ddrdismx", "ddrstraw", "primrage", "tmek",
}

// run is the state of one Build call. Games are processed one at a time.
type run struct {
	cfg    *config
	hooks  *hooks
	pub    *assets.Publisher
	report *report.Report
	appID  string

	versions *versions.Resolver
	media    *media.Resolver
	files    *manifest.Builder
	metadata *metadata.Reconciler
	composer *document.Composer

	// emulators maps each attempted binary id to its missing file count.
	emulators map[string]int

	genres  map[string]bool
	systems map[string]bool
}

// process runs one game through every stage. Only fatal conditions are
// returned; skips and degraded assets are logged and counted.
func (r *run) process(ctx context.Context, src *games.GameRecord) error {
	g := src.Clone()
	system := g.SystemKey()
	ctx = logging.WithGame(ctx, g.Name, system)
	logger := logging.FromContext(ctx)

	logger.Debug().Str("description", g.Description).Msg("Processing game")

	// Step 1: Select the dump-set version, or require emulator metadata
	if g.IsMAME() {
		res := r.versions.Resolve(logging.WithStage(ctx, "versions"), versions.Request{MachineID: g.Name, CloneOf: g.CloneOf, Roms: g.Roms})
		if res.Ambiguous {
			r.report.Record(report.AmbiguousVersions, g.Name)
		}
		g.Version = res.Version
		g.Roms = res.Roms
	} else if err := r.requireMetadata(g); err != nil {
		return err
	}

	// Step 2: Resolve media
	set, err := r.media.ResolveAll(media.InputFor(g))
	if err != nil {
		return errors.WrapResource("resolve", "media", g.Name, err)
	}

	// Step 3: Publish the emulator
	missingEmulator := r.publishEmulator(ctx, g)

	// Step 4: Publish roms and runtime files
	m, err := r.files.Build(logging.WithStage(ctx, "manifest"), manifest.Request{
		GameID:  g.Name,
		System:  system,
		Version: g.Version,
		Roms:    g.Roms,
		Artwork: set.Artwork,
	})
	if err != nil {
		return errors.WrapResource("build", "manifest", g.Name, err)
	}
	g.Disks = m.Disks
	g.NvramFiles = m.NvramFiles
	if set.Artwork != nil && set.Artwork.Found {
		g.ArtworkFiles = m.ArtworkFiles
		g.ArtworkName = set.Artwork.Dir
	}

	// Step 5: Reconcile canonical metadata
	var meta *metadata.Result
	if g.IsMAME() {
		meta, err = r.metadata.Reconcile(logging.WithStage(ctx, "metadata"), metadata.Input{
			GameID:       g.Name,
			Description:  g.Description,
			CloneOf:      g.CloneOf,
			ParentSystem: g.ParentSystem,
			Resolution:   g.NativeResolution,
			BiosFiles:    g.BiosFiles,
			Roms:         m.Roms,
			VFS:          m.VFS,
		})
		if err != nil {
			return err
		}
		if meta.Resolution != (games.Resolution{}) {
			res := meta.Resolution
			g.NativeResolution = &res
		}
		g.WasmProgramName = meta.WasmProgramName
	}

	// Step 6: Decide whether the game is published
	if m.MissingRoms > 0 {
		r.report.RecordN(report.MissingRoms, g.Name, m.MissingRoms)
		if g.ExternalLocation == "" {
			logger.Warn().Int("roms", m.MissingRoms).Msg("Missing ROMs")
			return r.skip(g, SkipMissingRoms)
		}
	}
	if missingEmulator > 0 {
		if r.cfg.externalEmulatorLocation == "" {
			r.report.RecordN(report.MissingEmulators, g.Name, missingEmulator)
			logger.Warn().Int("files", missingEmulator).Msg("Missing emulator files")
			return r.skip(g, SkipMissingEmulator)
		}
		if slices.Contains(undiscoveredMachines, g.Name) {
			logger.Warn().Int("files", missingEmulator).Msg("Emulator never discovered")
			return r.skip(g, SkipUndiscovered)
		}
		g.ExternalEmulatorLocation = r.cfg.externalEmulatorLocation
	}
	if r.cfg.publishFilter != nil && !r.cfg.publishFilter(g, set.Flags()) {
		logger.Info().Msg("Filtered")
		return r.skip(g, SkipFiltered)
	}

	// Step 7: Publish
	r.recordPublished(ctx, g, set, meta, m.MissingRoms, missingEmulator)

	for _, key := range set.Keys() {
		if err := r.pub.Mirror(key); err != nil {
			logger.Warn().Err(err).Str("file", key).Msg("Failed to publish media file")
		}
	}

	if meta != nil {
		key := path.Join(constants.MameDir, g.Name+".json")
		if err := r.pub.Write(key, meta.Record.Indent()); err != nil {
			return errors.WrapIO("write", key, err)
		}
	}

	doc, err := r.composer.Compose(ctx, document.Page{Game: g, Media: set})
	if err != nil {
		return err
	}
	key := DocumentKey(system, g.Name, r.appID)
	if err := r.pub.Write(key, []byte(doc)); err != nil {
		return errors.WrapIO("write", key, err)
	}

	for _, genre := range g.Genres {
		r.genres[genre] = true
	}
	r.systems[system] = true
	r.report.Record(report.Published, g.Name)
	r.hooks.published(g, key)

	logger.Info().Str("document", key).Msg("Published game")
	return nil
}

// requireMetadata checks that a non-MAME game's emulator metadata exists.
func (r *run) requireMetadata(g *games.GameRecord) error {
	key := path.Join(g.SystemKey(), g.Name+".json")
	if g.IsDOSBox() {
		key = path.Join(constants.SystemDOSBox, r.cfg.dosboxFlavor+".json")
	}
	if !assets.Exists(r.pub.Source(), key) {
		return errors.NewMissingMetadataError(g.SystemKey(), key)
	}
	return nil
}

// publishEmulator publishes the game's emulator binaries once per binary id
// and returns how many of its files are missing.
func (r *run) publishEmulator(ctx context.Context, g *games.GameRecord) int {
	var id string
	var keys []string
	switch {
	case g.IsMAME():
		id = metadata.BinaryID(g.Name, g.CloneOf, g.ParentSystem)
		keys = []string{
			path.Join(constants.MameDir, metadata.WasmFile(id)),
			path.Join(constants.MameDir, metadata.JSFile(id)),
		}
	case g.IsDOSBox():
		id = constants.SystemDOSBox
		base := path.Join(constants.SystemDOSBox, r.cfg.dosboxFlavor)
		keys = []string{base + ".wasm.gz", base + ".js.gz", base + ".json"}
	default:
		id = g.SystemKey() + "/" + g.Name
		keys = []string{path.Join(g.SystemKey(), g.Name+".json")}
	}

	if missing, ok := r.emulators[id]; ok {
		return missing
	}

	logger := logging.FromContext(ctx)
	missing := 0
	for _, key := range keys {
		if err := r.pub.Mirror(key); err != nil {
			logger.Debug().Err(err).Str("file", key).Msg("Emulator file not published")
			missing++
		}
	}
	r.emulators[id] = missing
	if missing == 0 {
		logger.Debug().Str("binary", id).Msg("Published emulator")
	}
	return missing
}

func (r *run) skip(g *games.GameRecord, reason SkipReason) error {
	r.report.Record(report.Skipped, g.Name)
	r.hooks.skipped(g, reason)
	return nil
}

// recordPublished counts every degraded outcome of a published game.
func (r *run) recordPublished(ctx context.Context, g *games.GameRecord, set media.Set, meta *metadata.Result, missingRoms, missingEmulator int) {
	logger := logging.FromContext(ctx)
	rep := r.report

	if missingEmulator > 0 {
		logger.Info().Str("location", g.ExternalEmulatorLocation).Msg("Referencing emulator files")
		rep.Record(report.ExternalEmulators, g.Name)
	}
	if missingRoms > 0 {
		logger.Info().Str("location", g.ExternalLocation).Msg("Referencing ROM files")
		rep.Record(report.ExternalRoms, g.Name)
	}

	for _, o := range []struct {
		outcome  media.Outcome
		category report.Category
		message  string
	}{
		{set.Video, report.MissingVideos, "Missing video"},
		{set.Logo, report.MissingLogos, "Missing logo image"},
		{set.Icon, report.MissingIcons, "Missing icon"},
		{set.Background, report.MissingBackgrounds, "Missing background image"},
		{set.Avatar, report.MissingAvatars, "Missing avatar image"},
	} {
		if o.outcome.Missing {
			logger.Warn().Strs("tried", o.outcome.Tried).Msg(o.message)
			rep.Record(o.category, g.Name)
		}
	}
	if !set.Avatar.Found {
		logger.Warn().Msg("Missing system avatar image")
		rep.Record(report.MissingSystemAvatars, g.Name)
	}

	if art := set.Artwork; art != nil {
		switch {
		case !art.Found:
			logger.Warn().Msg("Missing MAME artwork")
			rep.Record(report.MissingArtwork, g.Name)
		case art.MissingBezel:
			logger.Warn().Msg("Missing bezel image")
			rep.Record(report.MissingBezels, g.Name)
		}
		if art.AmbiguousBezel {
			rep.Record(report.AmbiguousBezels, g.Name)
		}
		if art.AmbiguousOverlay {
			rep.Record(report.AmbiguousOverlays, g.Name)
		}
		if !art.Widescreen() {
			logger.Info().Str("aspect_ratio", art.AspectRatio()).Msg("Odd bezel aspect ratio")
			rep.Record(report.OddBezelAspectRatios, g.Name)
		}
	}

	if meta == nil {
		return
	}
	for _, f := range []struct {
		set      bool
		category report.Category
	}{
		{meta.Missing, report.MissingMetadata},
		{meta.ResolutionMismatch, report.ResolutionMismatches},
		{meta.Variation, report.WasmVariations},
		{meta.WasmMismatch, report.WasmMismatches},
		{meta.WasmJSMismatch, report.WasmJSMismatches},
		{meta.BiosMismatch, report.BiosMismatches},
		{meta.ExtraArgs, report.ExtraArguments},
	} {
		if f.set {
			rep.Record(f.category, g.Name)
		}
	}
}
