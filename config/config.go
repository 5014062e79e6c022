// Copyright 2025 Agentcast Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hanjuhn/agentcast/source"
)

// Config is the agentcast configuration.
type Config struct {
	Sources SourcesConfig `yaml:"sources"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Podcast PodcastConfig `yaml:"podcast"`
	Logging LoggingConfig `yaml:"logging"`
}

// SourcesConfig holds the per-source toggles and retry parameters.
type SourcesConfig struct {
	Slack SourceConfig `yaml:"slack"`
	Gmail SourceConfig `yaml:"gmail"`
	GDocs SourceConfig `yaml:"gdocs"`
}

// SourceConfig configures one source adapter.
type SourceConfig struct {
	Enabled    bool     `yaml:"enabled"`
	MaxRetries int      `yaml:"max_retries"`
	BaseDelay  Duration `yaml:"base_delay"`
	Timeout    Duration `yaml:"timeout"`
}

// Settings converts a source section into adapter settings.
func (c SourceConfig) Settings() *source.Settings {
	return source.NewSettings(
		source.WithMaxRetries(c.MaxRetries),
		source.WithBaseDelay(time.Duration(c.BaseDelay)),
		source.WithTimeout(time.Duration(c.Timeout)),
	)
}

// FetchConfig configures the fan-out fetch.
type FetchConfig struct {
	// BranchTimeout bounds one source's share of a fan-out call.
	BranchTimeout Duration `yaml:"branch_timeout"`

	// Limit caps the records fetched per source.
	Limit int `yaml:"limit"`

	// Lookback bounds how far back records are fetched.
	Lookback Duration `yaml:"lookback"`
}

// PodcastConfig configures the script writer.
type PodcastConfig struct {
	Host     string   `yaml:"host"`
	Model    string   `yaml:"model"`
	ShowName string   `yaml:"show_name"`
	Hosts    []string `yaml:"hosts"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
}

// Duration is a time.Duration that unmarshals from YAML strings like
// "30s" or "2m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	defaults := source.DefaultSettings()
	sourceDefaults := SourceConfig{
		Enabled:    true,
		MaxRetries: defaults.MaxRetries,
		BaseDelay:  Duration(defaults.BaseDelay),
		Timeout:    Duration(defaults.Timeout),
	}

	return &Config{
		Sources: SourcesConfig{
			Slack: sourceDefaults,
			Gmail: sourceDefaults,
			GDocs: sourceDefaults,
		},
		Fetch: FetchConfig{
			BranchTimeout: Duration(30 * time.Second),
			Limit:         100,
			Lookback:      Duration(24 * time.Hour),
		},
		Podcast: PodcastConfig{
			Host:     "http://localhost:11434/v1",
			Model:    "qwen2.5:3b",
			ShowName: "Agentcast Daily",
			Hosts:    []string{"Mina", "Juno"},
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads a YAML configuration file over the defaults and validates
// the result. An empty path yields the validated defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
