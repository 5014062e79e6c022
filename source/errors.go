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

import "errors"

var (
	// ErrNameRequired is returned when a lifecycle is built without a source name.
	ErrNameRequired = errors.New("source name required")

	// ErrDialerRequired is returned when a lifecycle is built without a dialer.
	ErrDialerRequired = errors.New("dialer required")

	// ErrInvalidMaxRetries is returned when MaxRetries is negative.
	ErrInvalidMaxRetries = errors.New("max retries must be zero or greater")

	// ErrInvalidBaseDelay is returned when BaseDelay is not positive.
	ErrInvalidBaseDelay = errors.New("base delay must be greater than zero")

	// ErrInvalidTimeout is returned when Timeout is not positive.
	ErrInvalidTimeout = errors.New("timeout must be greater than zero")
)
