package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFrom(t *testing.T, configYAML string) (*Config, string) {
	t.Helper()
	home := t.TempDir()
	if configYAML != "" {
		require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(configYAML), 0644))
	}
	t.Setenv("HULY_CODER_HOME", home)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	return cfg, home
}

func TestLoadConfigCreatesDefaultOnFirstRun(t *testing.T) {
	cfg, home := loadFrom(t, "")

	assert.Equal(t, "default", cfg.ActiveProfile)
	assert.Equal(t, "gpt-4o-mini", cfg.GetModel())
	assert.Equal(t, 128000, cfg.MaxTokens)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.IsValid(), "default config has no API key yet")

	// First run persists the default file.
	_, err := os.Stat(filepath.Join(home, "config.yaml"))
	require.NoError(t, err)
}

func TestLoadConfigFromFile(t *testing.T) {
	workspace := t.TempDir()
	cfg, _ := loadFrom(t, `
profiles:
  work:
    api_key: sk-test
    base_url: https://openrouter.ai/api/v1
    model: openrouter/some-model
active_profile: work
workspace: `+workspace+`
max_tokens: 64000
log_level: debug
`)

	assert.True(t, cfg.IsValid())
	assert.Equal(t, "sk-test", cfg.GetAPIKey())
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.GetBaseURL())
	assert.Equal(t, "openrouter/some-model", cfg.GetModel())
	assert.Equal(t, workspace, cfg.Workspace)
	assert.Equal(t, 64000, cfg.MaxTokens)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestMissingActiveProfileFallsBack(t *testing.T) {
	cfg, _ := loadFrom(t, `
profiles:
  only:
    api_key: sk-only
    model: m
active_profile: nonexistent
`)

	assert.Equal(t, "only", cfg.ActiveProfile)
	assert.Equal(t, "sk-only", cfg.GetAPIKey())
}

func TestSaveRoundTrip(t *testing.T) {
	cfg, _ := loadFrom(t, "")

	cfg.Profiles["default"] = Profile{APIKey: "sk-new", Model: "gpt-4o"}
	cfg.MaxTokens = 32000
	require.NoError(t, cfg.Save())

	reloaded, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "sk-new", reloaded.GetAPIKey())
	assert.Equal(t, "gpt-4o", reloaded.GetModel())
	assert.Equal(t, 32000, reloaded.MaxTokens)
}

func TestWorkspaceIsNormalizedAndCreated(t *testing.T) {
	workspace := filepath.Join(t.TempDir(), "project")
	cfg, _ := loadFrom(t, `
profiles:
  default:
    api_key: k
    model: m
workspace: `+workspace+`
`)

	assert.True(t, filepath.IsAbs(cfg.Workspace))
	info, err := os.Stat(cfg.Workspace)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSetWorkspaceNormalizes(t *testing.T) {
	cfg, _ := loadFrom(t, "")

	override := filepath.Join(t.TempDir(), "other")
	require.NoError(t, cfg.SetWorkspace(override))

	assert.Equal(t, override, cfg.Workspace)
	_, err := os.Stat(override)
	require.NoError(t, err)
}

func TestDerivedPaths(t *testing.T) {
	cfg, home := loadFrom(t, "")

	assert.Equal(t, filepath.Join(home, "history.json"), cfg.HistoryPath())
	assert.Equal(t, filepath.Join(home, "logs"), cfg.LogDir())
}
