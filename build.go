package arcade

import (
	"context"
	"encoding/json"
	"maps"
	"path"
	"slices"

	"github.com/google/uuid"

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

// Scripts every document loads. A missing one aborts the run.
var requiredScripts = []string{
	"browserfs.min.js",
	"browserfs.min.js.map",
	"loader.js",
	"es6-promise.js",
	"three.module.min.js",
}

// Build publishes the configured database.
func (b *builder) Build(ctx context.Context) (*report.Report, error) {
	// Step 0: Set context
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := b.config

	runID := cfg.runID
	if runID == "" {
		runID = uuid.NewString()
	}
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.FromContext(ctx)

	rep := report.New(runID)
	rep.Database = cfg.database
	rep.Language = cfg.language
	defer rep.Finish()

	pub := assets.NewPublisher(cfg.source, cfg.store)

	// Step 1: Load localization and catalog
	bundle, err := document.LoadBundle(cfg.source, cfg.language)
	if err != nil {
		return rep, err
	}

	var loaderOpts []games.LoaderOption
	if cfg.loadFilter != nil {
		loaderOpts = append(loaderOpts, games.WithLoadFilter(cfg.loadFilter))
	}
	loader, err := games.NewLoader(cfg.source, loaderOpts...)
	if err != nil {
		return rep, err
	}
	catalog, err := loader.Load(ctx, cfg.database)
	if err != nil {
		return rep, errors.WrapResource("load", "database", cfg.database, err)
	}
	for _, rejected := range catalog.Rejected {
		rep.Record(report.RejectedRecords, rejected.File)
	}
	logger.Info().Int("games", len(catalog.Games)).Str("database", cfg.database).Msg("Loaded games")

	// Step 2: Delete previously published documents
	if err := pub.Clean(constants.GamesDir, "html"); err != nil {
		return rep, errors.NewFatalError("clean "+constants.GamesDir, err)
	}

	// Step 3: Compute and publish the app id
	appID, err := AppID(cfg.source)
	if err != nil {
		return rep, err
	}
	rep.AppID = appID
	data, err := json.Marshal(AppManifest{Name: cfg.appName, ID: appID})
	if err != nil {
		return rep, err
	}
	if err := pub.Write(constants.AppFile, data); err != nil {
		return rep, errors.WrapIO("write", constants.AppFile, err)
	}
	logger.Info().Str("app_id", appID).Msg("Published app meta data")

	// Step 4: Publish common scripts, styles and generic artwork
	if err := publishCommon(ctx, pub); err != nil {
		return rep, err
	}

	// Step 5: Discover MAME dump-set versions
	discovered, err := versions.Discover(cfg.source, cfg.romsetTypes)
	if err != nil {
		return rep, err
	}
	resolver, err := versions.New(cfg.source, discovered, versions.WithPreferred(cfg.preferredVersion))
	if err != nil {
		return rep, err
	}

	// Step 6: Create the per-game stages
	reconciler, err := metadata.New(cfg.source)
	if err != nil {
		return rep, err
	}
	composer, err := document.New(cfg.source, bundle, b.documentOptions()...)
	if err != nil {
		return rep, err
	}

	r := &run{
		cfg:       cfg,
		hooks:     b.hooks,
		pub:       pub,
		report:    rep,
		appID:     appID,
		versions:  resolver,
		media:     media.NewResolver(cfg.source),
		files:     manifest.NewBuilder(pub, manifest.NewRun()),
		metadata:  reconciler,
		composer:  composer,
		emulators: make(map[string]int),
		genres:    make(map[string]bool),
		systems:   make(map[string]bool),
	}

	// Step 7: Process every game in catalog order
	for _, game := range catalog.Games {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if err := r.process(ctx, game); err != nil {
			return rep, err
		}
	}

	// Step 8: Publish shared media used by the published games
	r.publishShared(ctx)

	logger.Info().
		Int("published", rep.Count(report.Published)).
		Int("skipped", rep.Count(report.Skipped)).
		Int("files", pub.Count()).
		Msg("Published games")

	return rep, nil
}

func (b *builder) documentOptions() []document.Option {
	cfg := b.config
	opts := []document.Option{
		document.WithAppName(cfg.appName),
		document.WithAuthor(cfg.author),
		document.WithDefaultSection(cfg.defaultSection),
		document.WithFullScreen(cfg.fullScreen),
		document.WithDOSBoxFlavor(cfg.dosboxFlavor),
	}
	if cfg.year != 0 {
		opts = append(opts, document.WithYear(cfg.year))
	}
	return opts
}

// publishCommon publishes the assets every document shares.
func publishCommon(ctx context.Context, pub *assets.Publisher) error {
	logger := logging.FromContext(ctx)

	if !pub.TryMirror(path.Join(constants.ScriptsDir, "common.js")) {
		logger.Warn().Msg("Missing common script")
	}

	for _, name := range requiredScripts {
		key := path.Join(constants.ScriptsDir, name)
		if err := pub.Mirror(key); err != nil {
			return errors.NewFatalError("publish script "+name, err)
		}
	}

	if !pub.TryMirror(path.Join(constants.StyleDir, "common.css")) {
		logger.Warn().Msg("Missing common style sheet")
	}

	for _, dir := range []string{media.GenHorizontal, media.GenVertical} {
		mirrorAll(ctx, pub, path.Join(media.ArtworkDir, dir), assets.ListOptions{Extensions: []string{"lay", "png"}})
	}
	return nil
}

// publishShared publishes the images, shaders, videos, genre logos, system
// icons and system backgrounds referenced by the published documents.
func (r *run) publishShared(ctx context.Context) {
	logger := logging.FromContext(ctx)

	mirrorAll(ctx, r.pub, constants.ImagesDir, assets.ListOptions{Extensions: []string{"png"}})
	mirrorAll(ctx, r.pub, path.Join(constants.ImagesDir, "shaders"), assets.ListOptions{Extensions: []string{"png"}})
	mirrorAll(ctx, r.pub, constants.VideoDir, assets.ListOptions{Extensions: []string{"mp4"}})

	for _, genre := range slices.Sorted(maps.Keys(r.genres)) {
		key := path.Join(media.LogosDir, genre+" Games.png")
		if !r.pub.TryMirror(key) {
			logger.Warn().Str("genre", genre).Msg("Missing genre image")
			r.report.Record(report.MissingGenreImages, genre)
		}
	}

	for _, system := range slices.Sorted(maps.Keys(r.systems)) {
		if !r.pub.TryMirror(path.Join(constants.IconsDir, system+".ico")) {
			logger.Warn().Str("system", system).Msg("Missing system icon")
		}
		if !r.pub.TryMirror(path.Join(media.BackgroundsDir, system+".png")) {
			logger.Warn().Str("system", system).Msg("Missing system background")
		}
	}
}

// mirrorAll publishes the files directly under dir. Failures are logged.
func mirrorAll(ctx context.Context, pub *assets.Publisher, dir string, opts assets.ListOptions) {
	logger := logging.FromContext(ctx)

	files, err := assets.Files(pub.Source(), dir, opts)
	if err != nil {
		logger.Warn().Err(err).Str("dir", dir).Msg("Failed to list assets")
		return
	}
	for _, file := range files {
		if err := pub.Mirror(path.Join(dir, file)); err != nil {
			logger.Warn().Err(err).Str("file", file).Msg("Failed to publish asset")
		}
	}
}
