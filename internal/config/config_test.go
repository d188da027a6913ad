package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10.0, cfg.UpdatesPerSecond)
	assert.Equal(t, GainsConfig{Kp: 10, Ki: 0, Kd: 10}, cfg.Pitch)
	assert.Equal(t, cfg.Pitch, cfg.Yaw)
	assert.InDelta(t, 0.0872664626, cfg.SlowdownAngle, 1e-9)
	assert.Len(t, cfg.Thrusters, 6)
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			cfg := GetPreset(name)
			require.NotNil(t, cfg)
			assert.Equal(t, name, cfg.Name)
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestGetPresetReturnsCopy(t *testing.T) {
	a := GetPreset("spacecraft")
	require.NotNil(t, a)
	a.Gyros[0].Forward = Vec{9, 9, 9}
	a.Duration = 1

	b := GetPreset("spacecraft")
	assert.NotEqual(t, Vec{9, 9, 9}, b.Gyros[0].Forward)
	assert.Equal(t, DefaultDuration, b.Duration)
}

func TestGetPresetNotFound(t *testing.T) {
	assert.Nil(t, GetPreset("nonexistent"))
}

func TestListPresetsSorted(t *testing.T) {
	names := ListPresets()
	require.NotEmpty(t, names)
	assert.IsIncreasing(t, names)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nav.yaml")
	cfg := GetPreset("level")

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nav.yaml")
	data := `
align_mode: natural
pitch:
  kp: 3
target:
  forward: [0, 0, 1]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "natural", cfg.AlignMode)
	assert.Equal(t, 3.0, cfg.Pitch.Kp)
	assert.Equal(t, DefaultKd, cfg.Pitch.Kd)
	assert.Equal(t, Vec{0, 0, 1}, cfg.Target.Forward)
	assert.Equal(t, DefaultUpdatesPerSecond, cfg.UpdatesPerSecond)
	assert.Len(t, cfg.Gyros, 1)
	assert.Len(t, cfg.Thrusters, 6)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("updates_per_second: -1\n"), 0644))
	_, err = Load(bad)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	short := filepath.Join(dir, "short.yaml")
	require.NoError(t, os.WriteFile(short, []byte("target:\n  forward: [1, 2]\n"), 0644))
	_, err = Load(short)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(c *Config)
	}{
		{"zero rate", func(c *Config) { c.UpdatesPerSecond = 0 }},
		{"no substeps", func(c *Config) { c.Substeps = 0 }},
		{"zero duration", func(c *Config) { c.Duration = 0 }},
		{"negative slowdown", func(c *Config) { c.SlowdownAngle = -0.1 }},
		{"zero response time", func(c *Config) { c.Body.ResponseTime = 0 }},
		{"zero max rate", func(c *Config) { c.Body.MaxRate = 0 }},
		{"zero mass", func(c *Config) { c.Body.Mass = 0 }},
		{"zero body forward", func(c *Config) { c.Body.Forward = Vec{} }},
		{"bad align mode", func(c *Config) { c.AlignMode = "sideways" }},
		{"bad status", func(c *Config) { c.Status = "maybe" }},
		{"bad integrator", func(c *Config) { c.Integrator = "rk45" }},
		{"zero gyro forward", func(c *Config) { c.Gyros[0].Forward = Vec{} }},
		{"zero thruster forward", func(c *Config) { c.Thrusters[0].Forward = Vec{} }},
		{"zero body up", func(c *Config) { c.Body.Up = Vec{} }},
		{"body forward along up", func(c *Config) { c.Body.Forward, c.Body.Up = Vec{0, 1, 0}, Vec{0, 2, 0} }},
		{"gyro forward along up", func(c *Config) { c.Gyros[0].Forward, c.Gyros[0].Up = Vec{0, 0, 1}, Vec{0, 0, -1} }},
		{"thruster forward along up", func(c *Config) { c.Thrusters[4].Forward, c.Thrusters[4].Up = Vec{0, 1, 0}, Vec{0, 1, 0} }},
		{"negative thrust", func(c *Config) { c.Thrusters[0].MaxThrust = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
