package arcade

import (
	"sync"

	"github.com/agentstation/arcade/pkg/games"
)

// Hook function types for game events
type (
	// GamePublishedHook is called after a game document is written to key
	GamePublishedHook func(game *games.GameRecord, key string)

	// GameSkippedHook is called when a game is left out of the build
	GameSkippedHook func(game *games.GameRecord, reason SkipReason)
)

// SkipReason says why a game was not published.
type SkipReason string

// Skip reasons.
const (
	SkipMissingRoms     SkipReason = "missing roms"
	SkipMissingEmulator SkipReason = "missing emulator"
	SkipUndiscovered    SkipReason = "undiscovered emulator"
	SkipFiltered        SkipReason = "filtered"
)

// hooks manages event callbacks for build progress
type hooks struct {
	mu              sync.RWMutex
	onGamePublished []GamePublishedHook
	onGameSkipped   []GameSkippedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnGamePublished registers a callback for published games
func (h *hooks) OnGamePublished(fn GamePublishedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onGamePublished = append(h.onGamePublished, fn)
}

// OnGameSkipped registers a callback for skipped games
func (h *hooks) OnGameSkipped(fn GameSkippedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onGameSkipped = append(h.onGameSkipped, fn)
}

func (h *hooks) published(game *games.GameRecord, key string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onGamePublished {
		hook(game, key)
	}
}

func (h *hooks) skipped(game *games.GameRecord, reason SkipReason) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onGameSkipped {
		hook(game, reason)
	}
}
