package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agentcast.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.True(t, cfg.Sources.Slack.Enabled)
	assert.Equal(t, 3, cfg.Sources.Slack.MaxRetries)
	assert.Equal(t, time.Second, time.Duration(cfg.Sources.Slack.BaseDelay))
	assert.Equal(t, 100, cfg.Fetch.Limit)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
sources:
  slack:
    enabled: true
    max_retries: 5
    base_delay: 500ms
    timeout: 10s
  gmail:
    enabled: false
  gdocs:
    enabled: false
fetch:
  branch_timeout: 45s
  limit: 20
  lookback: 48h
podcast:
  show_name: "Lab Notes FM"
  hosts: ["Ada", "Lin"]
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Sources.Slack.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, time.Duration(cfg.Sources.Slack.BaseDelay))
	assert.Equal(t, 10*time.Second, time.Duration(cfg.Sources.Slack.Timeout))
	assert.False(t, cfg.Sources.Gmail.Enabled)
	assert.False(t, cfg.Sources.GDocs.Enabled)
	assert.Equal(t, 45*time.Second, time.Duration(cfg.Fetch.BranchTimeout))
	assert.Equal(t, 20, cfg.Fetch.Limit)
	assert.Equal(t, 48*time.Hour, time.Duration(cfg.Fetch.Lookback))
	assert.Equal(t, "Lab Notes FM", cfg.Podcast.ShowName)
	assert.Equal(t, []string{"Ada", "Lin"}, cfg.Podcast.Hosts)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Untouched sections keep their defaults.
	assert.Equal(t, "qwen2.5:3b", cfg.Podcast.Model)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadDuration(t *testing.T) {
	path := writeConfig(t, `
fetch:
  branch_timeout: soon
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "soon")
}

func TestValidate_NoSourcesEnabled(t *testing.T) {
	cfg := Default()
	cfg.Sources.Slack.Enabled = false
	cfg.Sources.Gmail.Enabled = false
	cfg.Sources.GDocs.Enabled = false

	assert.ErrorIs(t, cfg.Validate(), ErrNoSourcesEnabled)
}

func TestValidate_BadSourceSettings(t *testing.T) {
	cfg := Default()
	cfg.Sources.Gmail.MaxRetries = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sources.gmail")
}

func TestValidate_BadLogLevel(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "verbose"

	assert.ErrorIs(t, cfg.Validate(), ErrInvalidLogLevel)
}

func TestValidate_BadHosts(t *testing.T) {
	cfg := Default()
	cfg.Podcast.Hosts = []string{"Solo"}

	assert.Error(t, cfg.Validate())
}

func TestSourceConfig_Settings(t *testing.T) {
	section := SourceConfig{
		MaxRetries: 2,
		BaseDelay:  Duration(250 * time.Millisecond),
		Timeout:    Duration(5 * time.Second),
	}

	settings := section.Settings()
	assert.Equal(t, 2, settings.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, settings.BaseDelay)
	assert.Equal(t, 5*time.Second, settings.Timeout)
}
