package metadata

import (
	"context"
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/agentstation/arcade/pkg/assets"
	"github.com/agentstation/arcade/pkg/errors"
	"github.com/agentstation/arcade/pkg/games"
	"github.com/agentstation/arcade/pkg/logging"
	"github.com/agentstation/arcade/pkg/manifest"
)

// Input holds the facts derived locally for one MAME machine.
type Input struct {
	GameID       string
	Description  string
	CloneOf      string
	ParentSystem string

	// Resolution is the catalogued native resolution, nil when unknown.
	Resolution *games.Resolution
	// BiosFiles are the bios rom ids; nil when the catalog sets none.
	BiosFiles []string

	Roms []manifest.File
	VFS  manifest.VirtualFileSystem
}

// Result is a reconciled record with everything worth reporting about it.
type Result struct {
	Record   *Record
	BinaryID string
	// Source is the canonical record key used, empty when fabricated.
	Source string

	// Resolution is the authoritative native resolution.
	Resolution games.Resolution

	Missing            bool
	ResolutionMismatch bool
	WasmMismatch       bool
	WasmJSMismatch     bool
	BiosMismatch       bool
	ExtraArgs          bool
	JSFilename         bool

	// Variation reports that the canonical file locations do not use the
	// conventional assembly name.
	Variation bool
	// VariationApplied reports that a fabricated record reused the file
	// locations of an earlier variation.
	VariationApplied bool
	// Confidence is the share of machines on this binary needing the
	// variation so far. Only set when VariationApplied.
	Confidence float64
	// WasmProgramName is the assembly name taken from a reused variation.
	WasmProgramName string
}

// variation tracks file location overrides of one binary.
type variation struct {
	locations []byte
	overrides int
	total     int
}

// Reconciler merges canonical metadata with local facts. It remembers file
// location variations across calls, so one Reconciler serves one run.
type Reconciler struct {
	repo           assets.Repository
	canonicalDir   string
	mirrorRotation map[string]bool
	variations     map[string]*variation
}

// New creates a Reconciler reading canonical records from repo.
func New(repo assets.Repository, opts ...Option) (*Reconciler, error) {
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	return &Reconciler{
		repo:           repo,
		canonicalDir:   o.canonicalDir,
		mirrorRotation: o.mirrorRotation,
		variations:     make(map[string]*variation),
	}, nil
}

// Confidence returns overrides / total for a binary's variation, and false
// when no variation was seen.
func (r *Reconciler) Confidence(binaryID string) (float64, bool) {
	v, ok := r.variations[binaryID]
	if !ok || v.total == 0 {
		return 0, false
	}
	return float64(v.overrides) / float64(v.total), true
}

// Reconcile builds the published record of one machine. A canonical record
// that already carries output-only fields is returned as a fatal
// CorruptMetadataError.
func (r *Reconciler) Reconcile(ctx context.Context, in Input) (*Result, error) {
	logger := logging.FromContext(ctx)
	res := &Result{BinaryID: BinaryID(in.GameID, in.CloneOf, in.ParentSystem)}

	rec, source, err := r.canonical(ctx, in)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		if rec, err = r.fabricate(ctx, in, res); err != nil {
			return nil, err
		}
		res.Missing = true
	} else {
		res.Source = source
	}
	res.Record = rec

	for _, f := range []struct{ path, value string }{
		{FieldName, in.Description},
		{FieldDriver, res.BinaryID},
		{FieldMachineName, in.GameID},
	} {
		if err := rec.Set(f.path, f.value); err != nil {
			return nil, err
		}
	}

	if rec.Has(FieldJSFilename) {
		res.JSFilename = true
		logger.Warn().Msg(`Canonical meta data has "js_filename" property`)
	}
	if rec.String(FieldExtraArgs+".0") != "" {
		res.ExtraArgs = true
		logger.Warn().Msg("Extra arguments in canonical meta data")
	}

	if err := r.setOutputs(rec, in); err != nil {
		return nil, err
	}
	if err := r.reconcileResolution(ctx, rec, in, res); err != nil {
		return nil, err
	}
	r.checkFilenames(ctx, rec, res)
	if err := r.trackVariation(ctx, rec, res); err != nil {
		return nil, err
	}
	if err := r.reconcileBios(ctx, rec, in, res); err != nil {
		return nil, err
	}
	return res, nil
}

// canonical loads the record of the machine or, failing that, its clone
// parent. Unreadable records are logged and treated as absent. A record
// that already carries output-only fields is fatal even when unreadable.
func (r *Reconciler) canonical(ctx context.Context, in Input) (*Record, string, error) {
	for _, name := range []string{in.GameID, in.CloneOf} {
		if name == "" {
			continue
		}
		key := assets.Key(r.canonicalDir, name+".json")
		if !assets.Exists(r.repo, key) {
			continue
		}
		data, err := assets.ReadFile(r.repo, key)
		if err == nil {
			for _, field := range []string{FieldVirtualFileSystem, FieldFiles} {
				if gjson.GetBytes(data, field).Exists() {
					return nil, "", errors.NewCorruptMetadataError(in.GameID, field)
				}
			}
			var rec *Record
			if rec, err = Parse(key, data); err == nil {
				return rec, key, nil
			}
		}
		logging.FromContext(ctx).Warn().Err(err).Str("file", key).Msg("Failed to load meta data")
		return nil, "", nil
	}
	return nil, "", nil
}

func (r *Reconciler) fabricate(ctx context.Context, in Input, res *Result) (*Record, error) {
	id := res.BinaryID
	rec := NewRecord()
	fields := []struct {
		path  string
		value any
	}{
		{FieldName, in.Description},
		{FieldArcade, "1"},
		{FieldPeripherals, []string{""}},
		{FieldExtraArgs, []string{""}},
		{FieldDriver, id},
		{FieldMachineName, in.GameID},
		{FieldWasmJSFilename, JSFile(id)},
		{FieldWasmFilename, WasmFile(id)},
	}
	for _, f := range fields {
		if err := rec.Set(f.path, f.value); err != nil {
			return nil, err
		}
	}

	if v, ok := r.variations[id]; ok {
		if err := rec.SetRaw(FieldFileLocations, v.locations); err != nil {
			return nil, err
		}
		res.VariationApplied = true
		res.Confidence, _ = r.Confidence(id)
		gjson.ParseBytes(v.locations).ForEach(func(key, _ gjson.Result) bool {
			res.WasmProgramName = key.String()
			return false
		})

		event := logging.FromContext(ctx).Info()
		if res.Confidence < 1 {
			event = logging.FromContext(ctx).Warn()
		}
		event.Float64("confidence", res.Confidence).Str("binary", id).Msg("Fixing file location variation")
		return rec, nil
	}

	if err := setConventionalLocations(rec, id); err != nil {
		return nil, err
	}
	return rec, nil
}

// setConventionalLocations maps the conventional assembly name of binary id.
func setConventionalLocations(rec *Record, id string) error {
	locations, err := json.Marshal(map[string]string{PrimaryLocation(id): WasmFile(id)})
	if err != nil {
		return errors.WrapResource("encode", "metadata", FieldFileLocations, err)
	}
	return rec.SetRaw(FieldFileLocations, locations)
}

func (r *Reconciler) setOutputs(rec *Record, in Input) error {
	vfs := in.VFS
	if vfs.Files == nil {
		vfs.Files = []manifest.File{}
	}
	roms := in.Roms
	if roms == nil {
		roms = []manifest.File{}
	}
	if err := rec.Set(FieldVirtualFileSystem, vfs); err != nil {
		return err
	}
	if err := rec.Set(FieldFiles, roms); err != nil {
		return err
	}
	return rec.Set(FieldKeepAspect, true)
}

// reconcileResolution makes the canonical resolution authoritative. Each axis
// is compared against the catalogued value on its own.
func (r *Reconciler) reconcileResolution(ctx context.Context, rec *Record, in Input, res *Result) error {
	canonical, ok := rec.Resolution()

	switch {
	case in.Resolution == nil && ok:
		res.Resolution = canonical
		return nil
	case in.Resolution == nil:
		res.Resolution = games.Resolution{0, 0}
	case !ok:
		res.Resolution = *in.Resolution
	default:
		local := *in.Resolution
		res.Resolution = canonical
		if canonical == local {
			return nil
		}
		swapped := canonical[0] == local[1] && canonical[1] == local[0]
		if swapped && r.mirrorRotation[in.GameID] {
			logging.FromContext(ctx).Debug().Msg("Resolution swapped by mirror rotation")
			return nil
		}
		res.ResolutionMismatch = true
		logging.FromContext(ctx).Info().
			Ints("canonical", canonical[:]).
			Ints("catalog", local[:]).
			Bool("swapped", swapped).
			Msg("Resolution variation")
		return nil
	}
	return rec.Set(FieldNativeResolution, res.Resolution[:])
}

// checkFilenames records canonical assembly names that differ from the
// convention. The canonical values are kept.
func (r *Reconciler) checkFilenames(ctx context.Context, rec *Record, res *Result) {
	logger := logging.FromContext(ctx)
	if name := rec.String(FieldWasmJSFilename); name != "" && name != JSFile(res.BinaryID) {
		res.WasmJSMismatch = true
		logger.Warn().Str("canonical", name).Str("expected", JSFile(res.BinaryID)).Msg("Assembly script mismatch")
	}
	if name := rec.String(FieldWasmFilename); name != "" && name != WasmFile(res.BinaryID) {
		res.WasmMismatch = true
		logger.Warn().Str("canonical", name).Str("expected", WasmFile(res.BinaryID)).Msg("Assembly mismatch")
	}
}

// trackVariation remembers file locations that skip the conventional
// assembly name so later machines on the same binary can reuse them.
// Records that reused a variation count towards the total only, as do
// records without file locations, which get the conventional mapping.
func (r *Reconciler) trackVariation(ctx context.Context, rec *Record, res *Result) error {
	id := res.BinaryID
	locations := rec.Get(FieldFileLocations)
	v := r.variations[id]

	if !res.VariationApplied && !locations.IsObject() {
		if err := setConventionalLocations(rec, id); err != nil {
			return err
		}
		locations = rec.Get(FieldFileLocations)
	}

	if res.VariationApplied || locations.Get(games.PathKey(PrimaryLocation(id))).Exists() {
		if v != nil {
			v.total++
		}
		return nil
	}

	res.Variation = true
	if v == nil {
		v = &variation{}
		r.variations[id] = v
	}
	v.locations = []byte(locations.Raw)
	v.overrides++
	v.total++
	logging.FromContext(ctx).Info().Str("binary", id).Msgf("Assembly filename variation: %q not used", PrimaryLocation(id))
	return nil
}

// reconcileBios replaces bios_filenames with the catalogued bios archives.
// A mismatch is flagged only when canonical names a different first file.
func (r *Reconciler) reconcileBios(ctx context.Context, rec *Record, in Input, res *Result) error {
	if in.BiosFiles == nil {
		return nil
	}

	if len(in.BiosFiles) > 0 && in.BiosFiles[0] != "" {
		local := in.BiosFiles[0]
		canonical := rec.String(FieldBiosFilenames + ".0")
		if canonical != "" && canonical != local && canonical != local+".zip" {
			res.BiosMismatch = true
			logging.FromContext(ctx).Warn().Str("canonical", canonical).Str("catalog", local).Msg("BIOS mismatch")
		}
	}

	bios := make([]string, 0, len(in.BiosFiles))
	for _, file := range in.BiosFiles {
		bios = append(bios, file+".zip")
	}
	if len(bios) == 0 {
		bios = []string{""}
	}
	return rec.Set(FieldBiosFilenames, bios)
}
