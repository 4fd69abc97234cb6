package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/homekey-labs/homekey/internal/logger"
)

// FileName is the UI state file inside the data directory.
const FileName = "ui-state.json"

// UIState holds kiosk preferences that carry across runs.
type UIState struct {
	Splash      SplashState `json:"splash"`
	LastSection string      `json:"last_section,omitempty"`
}

// SplashState records when the splash screen was last shown.
type SplashState struct {
	Seen   bool      `json:"seen"`
	SeenAt time.Time `json:"seen_at,omitzero"`
}

// DefaultUIState returns the state of a first run.
func DefaultUIState() *UIState {
	return &UIState{}
}

// ShowSplash reports whether the splash should play on this run.
func (s *UIState) ShowSplash(always bool) bool {
	return always || !s.Splash.Seen
}

// MarkSplashSeen records that the splash has played.
func (s *UIState) MarkSplashSeen(at time.Time) {
	s.Splash.Seen = true
	s.Splash.SeenAt = at
}

// Load reads the UI state from <dataDir>/ui-state.json.
// Returns default state if the file doesn't exist or on error.
func Load(dataDir string) *UIState {
	path := filepath.Join(dataDir, FileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Failed to read UI state file: %v", err)
		}
		return DefaultUIState()
	}

	var state UIState
	if err := json.Unmarshal(data, &state); err != nil {
		logger.Warn("Failed to parse UI state JSON: %v", err)
		return DefaultUIState()
	}

	return &state
}

// Save writes the UI state to <dataDir>/ui-state.json.
// Creates the data directory if it doesn't exist.
func Save(dataDir string, state *UIState) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	path := filepath.Join(dataDir, FileName)

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling UI state: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing UI state file: %w", err)
	}

	logger.Debug("UI state saved to %s", path)
	return nil
}
