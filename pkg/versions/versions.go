// Package versions picks which ROM dump-set version a MAME game is published
// from.
package versions

import (
	"context"
	"path"
	"slices"

	"github.com/agentstation/arcade/pkg/assets"
	"github.com/agentstation/arcade/pkg/constants"
	"github.com/agentstation/arcade/pkg/errors"
	"github.com/agentstation/arcade/pkg/logging"
)

// MergeMode describes how a dump set packages clone content.
type MergeMode string

const (
	// Merged sets bundle clone roms inside the parent archive.
	Merged MergeMode = "merged"
	// Unmerged sets hold a complete archive per machine.
	Unmerged MergeMode = "unmerged"
	// Split sets hold only the roms that differ from the parent.
	Split MergeMode = "split"
)

// Valid reports whether m is a known merge mode.
func (m MergeMode) Valid() bool {
	return m == Merged || m == Unmerged || m == Split
}

// Version is one dump-set release under mame/roms/<id>.
type Version struct {
	ID   string
	Mode MergeMode
}

// Request describes the game being resolved.
type Request struct {
	MachineID string
	CloneOf   string
	Roms      []string
}

// Result is the outcome of a resolution.
type Result struct {
	// Version is the selected version id, empty when no version is complete.
	Version string
	// Ambiguous is set when several versions are complete and none is preferred.
	Ambiguous bool
	// Roms is the rom list to publish from the selected version.
	Roms []string
	// Candidates lists every complete version in declared order.
	Candidates []string
}

// Resolved reports whether a version was selected.
func (r Result) Resolved() bool {
	return r.Version != ""
}

// Resolver selects dump-set versions.
type Resolver struct {
	repo      assets.Repository
	versions  []Version
	preferred string
}

// Option configures a Resolver.
type Option func(*Resolver) error

// WithPreferred sets the version selected whenever it is complete.
func WithPreferred(id string) Option {
	return func(r *Resolver) error {
		r.preferred = id
		return nil
	}
}

// New creates a resolver over versions in declared order.
func New(repo assets.Repository, versions []Version, opts ...Option) (*Resolver, error) {
	r := &Resolver{repo: repo, versions: slices.Clone(versions)}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Discover lists the version directories under mame/roms in sorted order and
// pairs each with its merge mode. A version without a mode is a
// configuration error.
func Discover(repo assets.Repository, modes map[string]string) ([]Version, error) {
	if !assets.Exists(repo, constants.MameRomsDir) {
		return nil, nil
	}

	entries, err := repo.List(constants.MameRomsDir)
	if err != nil {
		return nil, errors.WrapResource("list", "versions", constants.MameRomsDir, err)
	}

	var versions []Version
	for _, entry := range entries {
		if !entry.Dir {
			continue
		}
		mode := MergeMode(modes[entry.Name])
		if mode == "" {
			return nil, errors.NewConfigError("mame", "missing romset type for version "+entry.Name, nil)
		}
		if !mode.Valid() {
			return nil, errors.NewConfigError("mame", "unknown romset type "+string(mode)+" for version "+entry.Name, nil)
		}
		versions = append(versions, Version{ID: entry.Name, Mode: mode})
	}
	return versions, nil
}

// Versions returns the declared versions.
func (r *Resolver) Versions() []Version {
	return slices.Clone(r.versions)
}

// Mode returns the merge mode of version id.
func (r *Resolver) Mode(id string) MergeMode {
	for _, v := range r.versions {
		if v.ID == id {
			return v.Mode
		}
	}
	return ""
}

// Resolve selects the version a game's roms are published from.
func (r *Resolver) Resolve(ctx context.Context, req Request) Result {
	var candidates []string
	for _, v := range r.versions {
		if r.complete(v, req) {
			candidates = append(candidates, v.ID)
		}
	}

	res := Result{Candidates: candidates}
	preferred := r.preferred != "" && slices.Contains(candidates, r.preferred)

	switch {
	case preferred:
		res.Version = r.preferred
	case len(candidates) > 0:
		res.Version = candidates[0]
		res.Ambiguous = len(candidates) > 1
	}

	if res.Ambiguous {
		logging.FromContext(ctx).Warn().
			Strs("versions", candidates).
			Str("selected", res.Version).
			Msg("Multiple ROM versions found")
	}

	res.Roms = required(req, r.Mode(res.Version))
	return res
}

// complete reports whether every required rom exists under v.
func (r *Resolver) complete(v Version, req Request) bool {
	for _, rom := range required(req, v.Mode) {
		if !assets.Exists(r.repo, path.Join(constants.MameRomsDir, v.ID, rom+".zip")) {
			return false
		}
	}
	return true
}

// required returns the roms a version must hold. A clone under a merged set
// drops its own rom, which lives inside the parent archive.
func required(req Request, mode MergeMode) []string {
	if mode != Merged || req.CloneOf == "" {
		return slices.Clone(req.Roms)
	}
	roms := make([]string, 0, len(req.Roms))
	for _, rom := range req.Roms {
		if rom != req.MachineID {
			roms = append(roms, rom)
		}
	}
	return roms
}
