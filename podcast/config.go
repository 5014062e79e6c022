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


package podcast

import (
	"errors"
	"strings"
)

// Config holds configuration for the script writer.
type Config struct {
	// Host is the base URL of the OpenAI-compatible chat API.
	// Example: "http://localhost:11434/v1" for a local server.
	Host string

	// Model is the chat model identifier.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	Model string

	// ShowName is the podcast title woven into the script.
	ShowName string

	// Hosts are the speaker names used in the generated dialogue.
	// Exactly two hosts are supported.
	Hosts [2]string

	// ItemsPerCategory caps how many records of each category are
	// quoted in the prompt. Default: 5
	ItemsPerCategory int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the chat service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithModel sets the chat model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithShowName sets the podcast title.
func WithShowName(name string) ConfigOption {
	return func(c *Config) {
		c.ShowName = name
	}
}

// WithHosts sets the two speaker names.
func WithHosts(first, second string) ConfigOption {
	return func(c *Config) {
		c.Hosts = [2]string{first, second}
	}
}

// WithItemsPerCategory caps the records quoted per category.
func WithItemsPerCategory(n int) ConfigOption {
	return func(c *Config) {
		c.ItemsPerCategory = n
	}
}

// DefaultConfig returns a Config with sensible defaults for a local
// OpenAI-compatible service.
func DefaultConfig() *Config {
	return &Config{
		Host:             "http://localhost:11434/v1",
		Model:            "qwen2.5:3b",
		ShowName:         "Agentcast Daily",
		Hosts:            [2]string{"Mina", "Juno"},
		ItemsPerCategory: 5,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the host is in the canonical form expected by
// OpenAI-compatible APIs, adding the /v1 suffix when missing.
func (c *Config) Normalize() {
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/") + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Host == "" {
		return errors.New("podcast config: Host is required")
	}
	if c.Model == "" {
		return errors.New("podcast config: Model is required")
	}
	if c.ShowName == "" {
		return errors.New("podcast config: ShowName is required")
	}
	if c.Hosts[0] == "" || c.Hosts[1] == "" {
		return errors.New("podcast config: two host names are required")
	}
	if c.ItemsPerCategory < 1 {
		return errors.New("podcast config: ItemsPerCategory must be at least 1")
	}
	return nil
}
