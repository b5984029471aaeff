package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, int32(8), cfg.Loader.PopIn)
	assert.Equal(t, int32(16), cfg.Loader.PopOut)
	assert.Equal(t, 200*time.Millisecond, cfg.Loader.Interval())
	assert.Equal(t, 40, cfg.World.CommandBuffer)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.yaml")
	yml := `
world:
  seed: 42
  generator: flat
  flat_height: 3
loader:
  pop_in: 4
  pop_out: 6
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.World.Seed)
	assert.Equal(t, "flat", cfg.World.Generator)
	assert.Equal(t, int32(3), cfg.World.FlatHeight)
	assert.Equal(t, int32(4), cfg.Loader.PopIn)
	// Не указанные поля сохраняют значения по умолчанию
	assert.Equal(t, 16, cfg.Physics.TickMS)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("loader:\n  pop_in: 10\n  pop_out: 2\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRetireRadiusCoversPopOut(t *testing.T) {
	cfg := Default()
	cfg.Presentation.RetireRadius = cfg.Loader.PopOut - 1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retire_radius")

	cfg.Presentation.RetireRadius = cfg.Loader.PopOut
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("VOXEL_CONFIG", "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestMetricsPortFallback(t *testing.T) {
	s := ServerConfig{}
	t.Setenv("VOXEL_METRICS_PORT", "9100")
	assert.Equal(t, 9100, s.GetMetricsPort())

	t.Setenv("VOXEL_METRICS_PORT", "")
	assert.Equal(t, 2112, s.GetMetricsPort())

	s.MetricsPort = 3000
	assert.Equal(t, 3000, s.GetMetricsPort())
}
