// Package report accumulates the run-wide counters and affected-game lists of
// a build and renders them for the operator at the end of the run.
package report

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category names one counter of the report.
type Category string

// Report categories, in the order they are summarized.
const (
	Published            Category = "published"
	Skipped              Category = "skipped"
	RejectedRecords      Category = "rejected_records"
	MissingRoms          Category = "missing_roms"
	MissingEmulators     Category = "missing_emulators"
	MissingAvatars       Category = "missing_avatars"
	MissingSystemAvatars Category = "missing_system_avatars"
	MissingArtwork       Category = "missing_artwork"
	MissingBezels        Category = "missing_bezels"
	AmbiguousBezels      Category = "ambiguous_bezels"
	AmbiguousOverlays    Category = "ambiguous_overlays"
	MissingGenreImages   Category = "missing_genre_images"
	MissingLogos         Category = "missing_logos"
	MissingBackgrounds   Category = "missing_backgrounds"
	MissingVideos        Category = "missing_videos"
	MissingIcons         Category = "missing_icons"
	AmbiguousVersions    Category = "ambiguous_rom_versions"
	BiosMismatches       Category = "bios_mismatches"
	ExternalEmulators    Category = "external_emulators"
	MissingMetadata      Category = "missing_metadata"
	ResolutionMismatches Category = "resolution_mismatches"
	WasmVariations       Category = "wasm_variations"
	ExternalRoms         Category = "external_roms"
	WasmMismatches       Category = "wasm_mismatches"
	WasmJSMismatches     Category = "wasmjs_mismatches"
	ExtraArguments       Category = "extra_arguments"
	OddBezelAspectRatios Category = "odd_bezel_aspect_ratios"
)

// Categories lists every category in summary order.
var Categories = []Category{
	Published, Skipped, RejectedRecords,
	MissingRoms, MissingEmulators, MissingAvatars, MissingSystemAvatars,
	MissingArtwork, MissingBezels, AmbiguousBezels, AmbiguousOverlays,
	MissingGenreImages, MissingLogos, MissingBackgrounds, MissingVideos, MissingIcons,
	AmbiguousVersions, BiosMismatches, ExternalEmulators, MissingMetadata,
	ResolutionMismatches, WasmVariations, ExternalRoms, WasmMismatches,
	WasmJSMismatches, ExtraArguments, OddBezelAspectRatios,
}

// informational categories are logged at info level, the rest at warn.
var informational = map[Category]bool{
	Published:            true,
	ExternalEmulators:    true,
	ResolutionMismatches: true,
	WasmVariations:       true,
	ExternalRoms:         true,
	OddBezelAspectRatios: true,
}

// Title returns the human readable name of c.
func (c Category) Title() string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(c), "_", " "))
}

// Warning reports whether a non-zero count of c deserves operator attention.
func (c Category) Warning() bool {
	return !informational[c]
}

// Report is the aggregate of one run. It is created at run start, mutated by
// the run loop and read once at the end.
type Report struct {
	RunID    string
	Database string
	Language string
	AppID    string
	Started  time.Time
	Finished time.Time

	counts map[Category]int
	games  map[Category][]string
}

// New creates an empty report for run runID.
func New(runID string) *Report {
	return &Report{
		RunID:   runID,
		Started: time.Now(),
		counts:  make(map[Category]int),
		games:   make(map[Category][]string),
	}
}

// Record counts one occurrence of c for game. An empty game only counts.
func (r *Report) Record(c Category, game string) {
	r.counts[c]++
	if game != "" {
		r.games[c] = append(r.games[c], game)
	}
}

// RecordN counts n occurrences of c for game.
func (r *Report) RecordN(c Category, game string, n int) {
	if n <= 0 {
		return
	}
	r.counts[c] += n
	if game != "" {
		r.games[c] = append(r.games[c], game)
	}
}

// Add adds n to the counter of c without listing a game.
func (r *Report) Add(c Category, n int) {
	r.counts[c] += n
}

// Count returns the counter of c.
func (r *Report) Count(c Category) int {
	return r.counts[c]
}

// Games returns the games listed under c in recording order.
func (r *Report) Games(c Category) []string {
	return slices.Clone(r.games[c])
}

// Finish stamps the end of the run.
func (r *Report) Finish() {
	r.Finished = time.Now()
}

// Duration returns the run time, up to now when the run is still going.
func (r *Report) Duration() time.Duration {
	end := r.Finished
	if end.IsZero() {
		end = time.Now()
	}
	return end.Sub(r.Started)
}
