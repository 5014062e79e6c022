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


package acquire

import "errors"

var (
	// ErrNoAdapters is returned when a coordinator is built without adapters.
	ErrNoAdapters = errors.New("at least one adapter required")

	// ErrNilAdapter is returned when a nil adapter is registered.
	ErrNilAdapter = errors.New("adapter cannot be nil")

	// ErrAdapterNameRequired is returned when an adapter reports an empty name.
	ErrAdapterNameRequired = errors.New("adapter name cannot be empty")

	// ErrDuplicateAdapter is returned when two adapters share a name.
	ErrDuplicateAdapter = errors.New("duplicate adapter name")

	// ErrUnknownSource is returned when a named source is not registered.
	ErrUnknownSource = errors.New("unknown source")

	// ErrInvalidBranchTimeout is returned for a non-positive branch timeout.
	ErrInvalidBranchTimeout = errors.New("branch timeout must be positive")
)
