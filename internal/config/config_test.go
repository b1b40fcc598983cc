package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/robosim/internal/robot"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := parse(map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, "mobile", cfg.Robot)
	assert.Equal(t, 16*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 2*time.Minute, cfg.ScriptTimeout)
	assert.Empty(t, cfg.DB)
	assert.Equal(t, robot.TypeMobile, cfg.RobotType())
}

func TestParseOverrides(t *testing.T) {
	cfg, err := parse(map[string]string{
		"ROBOSIM_DB":            "/tmp/x.db",
		"ROBOSIM_ROBOT":         "drone",
		"ROBOSIM_CHALLENGE":     "intro-2",
		"ROBOSIM_TICK_INTERVAL": "5ms",
		"ROBOSIM_CATALOG":       "catalog.json",
	})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.DB)
	assert.Equal(t, robot.TypeDrone, cfg.RobotType())
	assert.Equal(t, "intro-2", cfg.Challenge)
	assert.Equal(t, 5*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, "catalog.json", cfg.Catalog)

	opts := cfg.SimOptions(nil)
	assert.Equal(t, robot.TypeDrone, opts.Robot)
	assert.Equal(t, 5*time.Millisecond, opts.TickInterval)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
		want    string
	}{
		{"bad robot", map[string]string{"ROBOSIM_ROBOT": "hovercraft"}, "unknown robot type"},
		{"zero tick", map[string]string{"ROBOSIM_TICK_INTERVAL": "0s"}, "TICK_INTERVAL must be positive"},
		{"bad duration", map[string]string{"ROBOSIM_TICK_INTERVAL": "fast"}, "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(tt.environ)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	cat, err := Config{}.LoadCatalog()
	require.NoError(t, err)
	assert.NotZero(t, cat.Len())

	_, err = Config{Catalog: filepath.Join(t.TempDir(), "missing.json")}.LoadCatalog()
	assert.ErrorContains(t, err, "open catalog")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"version":"v9.0.0","challenges":[]}`), 0o644))
	_, err = Config{Catalog: bad}.LoadCatalog()
	assert.Error(t, err)
}
