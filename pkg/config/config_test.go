package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/openpcs/openpcs/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Database struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"database"`
	Storage string `yaml:"storage"`
}

func TestFromString(t *testing.T) {
	t.Setenv("PCS_TEST_DB_HOST", "db.port.local")
	t.Setenv("PCS_TEST_STORAGE", "memory")

	content := `
database:
  host: {{ .PCS_TEST_DB_HOST }}
  port: 5432
storage: ${PCS_TEST_STORAGE}
`
	var cfg testConfig
	require.NoError(t, config.FromString(content, &cfg))
	assert.Equal(t, "db.port.local", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "memory", cfg.Storage)
}

func TestFromFile(t *testing.T) {
	t.Setenv("PCS_TEST_DB_HOST", "localhost")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  host: ${PCS_TEST_DB_HOST}\n"), 0o600))

	var cfg testConfig
	require.NoError(t, config.FromFile(path, &cfg))
	assert.Equal(t, "localhost", cfg.Database.Host)

	assert.Error(t, config.FromFile(filepath.Join(t.TempDir(), "missing.yaml"), &cfg))
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv("PCS_TEST_KEPT", "from-process")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PCS_TEST_DOTENV=from-file\nPCS_TEST_KEPT=from-file\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("PCS_TEST_DOTENV") })

	require.NoError(t, config.LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"), path))
	assert.Equal(t, "from-file", os.Getenv("PCS_TEST_DOTENV"))
	assert.Equal(t, "from-process", os.Getenv("PCS_TEST_KEPT"))

	var cfg testConfig
	require.NoError(t, config.FromString("storage: ${PCS_TEST_DOTENV}\n", &cfg))
	assert.Equal(t, "from-file", cfg.Storage)
}
