package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultUIState(t *testing.T) {
	state := DefaultUIState()
	require.NotNil(t, state)
	assert.False(t, state.Splash.Seen)
	assert.Empty(t, state.LastSection)
	assert.True(t, state.ShowSplash(false), "first run shows the splash")
}

func TestLoadNonExistent(t *testing.T) {
	state := Load(filepath.Join(t.TempDir(), "missing"))
	require.NotNil(t, state)
	assert.Equal(t, DefaultUIState(), state)
}

func TestSaveAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".homekey")

	state := DefaultUIState()
	state.LastSection = "faq"
	state.MarkSplashSeen(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, Save(dir, state))

	_, err := os.Stat(filepath.Join(dir, FileName))
	require.NoError(t, err, "save creates the data directory")

	loaded := Load(dir)
	assert.Equal(t, "faq", loaded.LastSection)
	assert.True(t, loaded.Splash.Seen)
	assert.True(t, loaded.Splash.SeenAt.Equal(state.Splash.SeenAt))
}

func TestShowSplash(t *testing.T) {
	state := DefaultUIState()
	state.MarkSplashSeen(time.Now())

	assert.False(t, state.ShowSplash(false))
	assert.True(t, state.ShowSplash(true), "splash.always overrides the seen flag")
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("{not json"), 0644))

	state := Load(dir)
	assert.Equal(t, DefaultUIState(), state)
}
