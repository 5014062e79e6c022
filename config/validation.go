package config

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSourcesEnabled is returned when every source is switched off.
	ErrNoSourcesEnabled = errors.New("at least one source must be enabled")

	// ErrInvalidLogLevel is returned for an unrecognized logging level.
	ErrInvalidLogLevel = errors.New("invalid log level")
)

var logLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks the configuration for internal consistency.
// Source sections are validated only when enabled, so a disabled source
// with a bogus section does not block startup.
func (c *Config) Validate() error {
	sections := map[string]SourceConfig{
		"slack": c.Sources.Slack,
		"gmail": c.Sources.Gmail,
		"gdocs": c.Sources.GDocs,
	}

	anyEnabled := false
	for name, section := range sections {
		if !section.Enabled {
			continue
		}
		anyEnabled = true
		if err := section.Settings().Validate(); err != nil {
			return fmt.Errorf("sources.%s: %w", name, err)
		}
	}
	if !anyEnabled {
		return ErrNoSourcesEnabled
	}

	if c.Fetch.BranchTimeout <= 0 {
		return errors.New("fetch.branch_timeout must be positive")
	}
	if c.Fetch.Limit < 1 {
		return errors.New("fetch.limit must be at least 1")
	}
	if c.Fetch.Lookback < 0 {
		return errors.New("fetch.lookback cannot be negative")
	}

	if c.Podcast.Host == "" {
		return errors.New("podcast.host is required")
	}
	if c.Podcast.Model == "" {
		return errors.New("podcast.model is required")
	}
	if c.Podcast.ShowName == "" {
		return errors.New("podcast.show_name is required")
	}
	if len(c.Podcast.Hosts) != 2 || c.Podcast.Hosts[0] == "" || c.Podcast.Hosts[1] == "" {
		return errors.New("podcast.hosts must name exactly two hosts")
	}

	if !logLevels[c.Logging.Level] {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	return nil
}
