package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "trackpro", cfg.DBName)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("TRACKPRO_PORT", "8080")
	t.Setenv("TRACKPRO_DB_HOST", "db.internal")
	t.Setenv("TRACKPRO_DB_NAME", "issues_prod")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "issues_prod", cfg.DBName)
}
