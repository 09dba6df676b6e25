package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DEVSALARY_CONFIG", "")
	t.Setenv("SUPERJOB_API_KEY", "")
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultLanguages, cfg.Languages)
	assert.Equal(t, "RUR", cfg.Currency)
	assert.Equal(t, 100, cfg.HeadHunter.MinFound)
	assert.Equal(t, 1, cfg.HeadHunter.Area)
	assert.Equal(t, 48, cfg.SuperJob.Catalogue)
	assert.Equal(t, "Москва", cfg.SuperJob.Town)
	assert.Equal(t, 3050*time.Millisecond, cfg.HTTP.ConnectTimeout)
	assert.Equal(t, 27*time.Second, cfg.HTTP.ReadTimeout)
	assert.Empty(t, cfg.SuperJob.APIKey)
}

func TestLoadYAMLOverrides(t *testing.T) {
	t.Setenv("SUPERJOB_API_KEY", "")
	path := writeConfig(t, `
languages: [Go, Rust]
workers: 4
isolate_failures: true
http:
  read_timeout: 10s
headhunter:
  min_found: 50
  area: 2
superjob:
  api_key: from-file
  town: Санкт-Петербург
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Go", "Rust"}, cfg.Languages)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.IsolateFailures)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 3050*time.Millisecond, cfg.HTTP.ConnectTimeout)
	assert.Equal(t, 50, cfg.HeadHunter.MinFound)
	assert.Equal(t, 2, cfg.HeadHunter.Area)
	assert.Equal(t, "Программист", cfg.HeadHunter.Profession)
	assert.Equal(t, "from-file", cfg.SuperJob.APIKey)
	assert.Equal(t, "Санкт-Петербург", cfg.SuperJob.Town)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("SUPERJOB_API_KEY", "from-env")
	path := writeConfig(t, "superjob:\n  api_key: from-file\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.SuperJob.APIKey)
}

func TestLoadErrors(t *testing.T) {
	t.Run("explicit file missing", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "languages: [Go\n"))
		require.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := Load(writeConfig(t, "languages: []\nheadhunter:\n  per_page: 500\n"))
		require.ErrorIs(t, err, errInvalidConfig)
		assert.Contains(t, err.Error(), "languages must not be empty")
		assert.Contains(t, err.Error(), "per_page")
	})
}
