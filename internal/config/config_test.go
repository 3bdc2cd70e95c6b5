package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/staws/sim/internal/projection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "staws.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[simulation]
tick_rate = "20ms"
time_scale = 2.5
workers = 4
clamp_throttle = true

[projection]
horizon = 3.0
resolution = 10

[logging]
format = "json"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 20*time.Millisecond, cfg.Simulation.TickRate)
	assert.Equal(t, 2.5, cfg.Simulation.TimeScale)
	assert.Equal(t, 4, cfg.Simulation.Workers)
	assert.True(t, cfg.Simulation.ClampThrottle)
	assert.Equal(t, 3.0, cfg.Projection.Horizon)
	assert.Equal(t, 10, cfg.Projection.Resolution)
	assert.Equal(t, "json", cfg.Logging.Format)

	// untouched keys keep defaults
	assert.Equal(t, 1.0, cfg.Simulation.MinDistance)
	assert.Equal(t, 6.67430e-11, cfg.Simulation.GravConstant)
	assert.True(t, cfg.Projection.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "data/scenarios/binary.yaml", cfg.Scenario.Path)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "[simulation\n"))
	assert.ErrorContains(t, err, "parse config")

	_, err = Load(writeConfig(t, "[projection]\nresolution = 0\n"))
	assert.ErrorIs(t, err, projection.ErrInvalidParams)
	assert.ErrorContains(t, err, "resolution")

	_, err = Load(writeConfig(t, "[projection]\nhorizon = 1e19\n"))
	assert.ErrorIs(t, err, projection.ErrInvalidParams)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Default().Validate())

	cfg := Default()
	cfg.Simulation.TickRate = 0
	cfg.Simulation.MinDistance = -1
	cfg.Projection.Horizon = -2
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "tick_rate")
	assert.ErrorContains(t, err, "min_distance")
	assert.ErrorIs(t, err, projection.ErrInvalidParams)
}

func TestDt(t *testing.T) {
	cfg := Default()
	cfg.Simulation.TickRate = 50 * time.Millisecond
	cfg.Simulation.TimeScale = 4
	assert.InDelta(t, 0.2, cfg.Dt(), 1e-12)
}

func TestShippedConfigLoads(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "staws.toml"))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Projection.Resolution)
}
