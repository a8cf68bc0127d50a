package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 60, cfg.BrickRows*cfg.BrickColumns, "standard pattern has 60 bricks")
	assert.InDelta(t, 35.0, cfg.BrickOffsetLeft, 1e-9)
	assert.InDelta(t, 215.0, cfg.BrickOffsetTop, 1e-9)
	assert.Equal(t, 10.0, cfg.FreezeSeconds)
	assert.Equal(t, 5.0, cfg.AshesSeconds)
	assert.Equal(t, 5, cfg.BrickScore)
	assert.Equal(t, 10, cfg.GoalScore)
	assert.Equal(t, 16*time.Millisecond, cfg.GameTickPeriod)
}

func TestValidateRejectsBrokenGeometry(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BrickColumns = 40
	cfg.BallBaseSpeed = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "does not fit the canvas width")
	assert.Contains(t, err.Error(), "ballBaseSpeed must be positive")
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ballBaseSpeed": 350, "winningScore": 100, "gameTickPeriod": 20000000}`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 350.0, cfg.BallBaseSpeed)
	assert.Equal(t, 100, cfg.WinningScore)
	assert.Equal(t, 20*time.Millisecond, cfg.GameTickPeriod)
	assert.Equal(t, DefaultConfig().CanvasWidth, cfg.CanvasWidth, "unspecified fields keep defaults")
}

func TestLoadConfigErrors(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))
	_, err = LoadConfig(path)
	assert.ErrorIs(t, err, ErrConfig)

	path = filepath.Join(t.TempDir(), "invalid.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ballRadius": -1}`), 0o600))
	_, err = LoadConfig(path)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestLoadConfigTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("ballBaseSpeed = 320.0\nwinningScore = 50\ngameTickPeriod = \"20ms\"\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 320.0, cfg.BallBaseSpeed)
	assert.Equal(t, 50, cfg.WinningScore)
	assert.Equal(t, 20*time.Millisecond, cfg.GameTickPeriod)

	path = filepath.Join(dir, "typo.toml")
	require.NoError(t, os.WriteFile(path, []byte("ballBaseSpeeed = 320.0\n"), 0o600))
	_, err = LoadConfig(path)
	assert.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "ballBaseSpeeed")
}
