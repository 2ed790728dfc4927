package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 1280.0, cfg.ViewportWidth)
	assert.Equal(t, 800.0, cfg.ViewportHeight)
	assert.Equal(t, 40.0, cfg.MaxImperviousPercent)
	assert.Equal(t, "MDI & Associates", cfg.FirmName)
	assert.Equal(t, "mdi-site-plan.png", cfg.ExportFilename)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.Origins())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("MAX_IMPERVIOUS_PERCENT", "55")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 55.0, cfg.MaxImperviousPercent)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins())
}

func TestLoadRejectsBadNumber(t *testing.T) {
	t.Setenv("VIEWPORT_WIDTH", "wide")

	_, err := Load()
	assert.Error(t, err)
}
