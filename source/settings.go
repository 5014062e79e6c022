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


package source

import "time"

// Settings holds the connection and retry parameters for one adapter.
type Settings struct {
	// MaxRetries is the number of retries after the initial attempt.
	// An operation is attempted at most 1+MaxRetries times.
	MaxRetries int

	// BaseDelay is the first backoff delay; it doubles on each retry.
	BaseDelay time.Duration

	// Timeout bounds a single dial, ping, or fetch attempt.
	Timeout time.Duration
}

// SettingsOption is a functional option for configuring Settings.
type SettingsOption func(*Settings)

// WithMaxRetries sets the retry count after the initial attempt.
func WithMaxRetries(n int) SettingsOption {
	return func(s *Settings) {
		s.MaxRetries = n
	}
}

// WithBaseDelay sets the first backoff delay.
func WithBaseDelay(d time.Duration) SettingsOption {
	return func(s *Settings) {
		s.BaseDelay = d
	}
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) SettingsOption {
	return func(s *Settings) {
		s.Timeout = d
	}
}

// DefaultSettings returns Settings with the defaults carried by every
// adapter unless configured otherwise.
func DefaultSettings() *Settings {
	return &Settings{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		Timeout:    30 * time.Second,
	}
}

// NewSettings creates Settings with the default values and applies the
// provided options.
func NewSettings(opts ...SettingsOption) *Settings {
	s := DefaultSettings()
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate checks that the settings are usable.
func (s *Settings) Validate() error {
	if s.MaxRetries < 0 {
		return ErrInvalidMaxRetries
	}
	if s.BaseDelay <= 0 {
		return ErrInvalidBaseDelay
	}
	if s.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}
