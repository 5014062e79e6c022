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


package mock

import (
	"context"
	"sync"
	"time"

	"github.com/hanjuhn/agentcast/core"
	"github.com/hanjuhn/agentcast/source"
)

// MockAdapter is a test double for source.Adapter.
// It allows custom behavior injection via function fields.
// The zero-configured mock connects successfully and fetches nothing.
type MockAdapter struct {
	// SourceName is returned by Name(). Required.
	SourceName string

	// RecordKind is returned by Kind(). Defaults to core.KindMessage.
	RecordKind core.RecordKind

	// ConnectFunc is called by Connect if set.
	ConnectFunc func(ctx context.Context) bool

	// DisconnectFunc is called by Disconnect if set.
	DisconnectFunc func(ctx context.Context) bool

	// HealthCheckFunc is called by HealthCheck if set.
	HealthCheckFunc func(ctx context.Context) core.HealthReport

	// FetchAllFunc is called by FetchAll if set.
	FetchAllFunc func(ctx context.Context, kind core.RecordKind, filters source.Filters) ([]core.SourceRecord, error)

	mu           sync.Mutex
	connected    bool
	connectCalls int
	fetchCalls   int
	healthCalls  int
}

var _ source.Adapter = (*MockAdapter)(nil)

// NewMockAdapter creates a mock adapter with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockAdapter(name string) *MockAdapter {
	return &MockAdapter{SourceName: name}
}

// Name returns the registry name of the mock source.
func (m *MockAdapter) Name() string {
	return m.SourceName
}

// Kind returns the configured record kind.
func (m *MockAdapter) Kind() core.RecordKind {
	if m.RecordKind == 0 {
		return core.KindMessage
	}
	return m.RecordKind
}

// Connect succeeds by default or delegates to ConnectFunc.
func (m *MockAdapter) Connect(ctx context.Context) bool {
	m.mu.Lock()
	m.connectCalls++
	m.mu.Unlock()

	ok := true
	if m.ConnectFunc != nil {
		ok = m.ConnectFunc(ctx)
	}

	m.mu.Lock()
	m.connected = ok
	m.mu.Unlock()
	return ok
}

// Disconnect succeeds by default or delegates to DisconnectFunc.
func (m *MockAdapter) Disconnect(ctx context.Context) bool {
	m.mu.Lock()
	m.connected = false
	m.mu.Unlock()

	if m.DisconnectFunc != nil {
		return m.DisconnectFunc(ctx)
	}
	return true
}

// IsConnected reports the mock connection state.
func (m *MockAdapter) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// HealthCheck reports a healthy connected source by default.
func (m *MockAdapter) HealthCheck(ctx context.Context) core.HealthReport {
	m.mu.Lock()
	m.healthCalls++
	m.mu.Unlock()

	if m.HealthCheckFunc != nil {
		return m.HealthCheckFunc(ctx)
	}

	status := core.StatusDisconnected
	message := "not connected to " + m.SourceName
	if m.IsConnected() {
		status = core.StatusConnected
		message = m.SourceName + " is responding"
	}
	return core.HealthReport{
		SourceName: m.SourceName,
		Status:     status,
		Message:    message,
		Timestamp:  time.Now().UTC(),
	}
}

// Info returns a minimal snapshot derived from the mock state.
func (m *MockAdapter) Info() core.ConnectionInfo {
	status := core.StatusDisconnected
	if m.IsConnected() {
		status = core.StatusConnected
	}
	return core.ConnectionInfo{SourceName: m.SourceName, Status: status}
}

// FetchAll returns no records by default or delegates to FetchAllFunc.
func (m *MockAdapter) FetchAll(ctx context.Context, kind core.RecordKind, filters source.Filters) ([]core.SourceRecord, error) {
	m.mu.Lock()
	m.fetchCalls++
	m.mu.Unlock()

	if m.FetchAllFunc != nil {
		return m.FetchAllFunc(ctx, kind, filters)
	}
	return nil, nil
}

// ConnectCalls returns the number of Connect invocations.
func (m *MockAdapter) ConnectCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectCalls
}

// FetchCalls returns the number of FetchAll invocations.
func (m *MockAdapter) FetchCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchCalls
}

// HealthCalls returns the number of HealthCheck invocations.
func (m *MockAdapter) HealthCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.healthCalls
}

// Reset clears the call counts and injected behavior.
func (m *MockAdapter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectCalls = 0
	m.fetchCalls = 0
	m.healthCalls = 0
	m.connected = false
	m.ConnectFunc = nil
	m.DisconnectFunc = nil
	m.HealthCheckFunc = nil
	m.FetchAllFunc = nil
}
