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

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hanjuhn/agentcast/core"
)

// Lifecycle owns the connection state of one source adapter.
// It wraps the adapter's transport and provides connect/disconnect,
// health checks, and a retry executor with exponential backoff.
//
// The ConnectionInfo is created here at construction and mutated in
// place; it is never recreated.
type Lifecycle struct {
	name     string
	dialer   Dialer
	settings *Settings
	logger   *slog.Logger
	clock    func() time.Time

	// connectMu serializes connect and disconnect attempts. A caller
	// that acquires it after a sibling connected observes the status
	// and returns without dialing again.
	connectMu sync.Mutex

	mu   sync.Mutex // guards info
	info core.ConnectionInfo
}

// LifecycleOption configures a Lifecycle.
type LifecycleOption func(*Lifecycle)

// WithSettings sets the connection and retry parameters.
// Default is DefaultSettings().
func WithSettings(s *Settings) LifecycleOption {
	return func(l *Lifecycle) {
		if s != nil {
			l.settings = s
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) LifecycleOption {
	return func(l *Lifecycle) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithClock sets the time source. Used by tests to pin timestamps.
func WithClock(clock func() time.Time) LifecycleOption {
	return func(l *Lifecycle) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// NewLifecycle creates a lifecycle for the named source over the given
// transport.
func NewLifecycle(name string, dialer Dialer, opts ...LifecycleOption) (*Lifecycle, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if dialer == nil {
		return nil, ErrDialerRequired
	}

	l := &Lifecycle{
		name:     name,
		dialer:   dialer,
		settings: DefaultSettings(),
		logger:   slog.Default(),
		clock:    time.Now,
		info: core.ConnectionInfo{
			SourceName: name,
			Status:     core.StatusDisconnected,
		},
	}

	for _, opt := range opts {
		opt(l)
	}

	if err := l.settings.Validate(); err != nil {
		return nil, fmt.Errorf("settings for %s: %w", name, err)
	}

	l.logger = l.logger.With("source", name)
	return l, nil
}

// Name returns the source name.
func (l *Lifecycle) Name() string {
	return l.name
}

// Settings returns the lifecycle's connection parameters.
func (l *Lifecycle) Settings() *Settings {
	return l.settings
}

// Connect establishes the session. Failures are recorded on the
// connection info and reported as false, never as an error.
//
// Concurrent callers are serialized: only one dial is in flight at a
// time, and a caller that waited behind a successful dial returns true
// without dialing again.
func (l *Lifecycle) Connect(ctx context.Context) bool {
	l.connectMu.Lock()
	defer l.connectMu.Unlock()

	if l.IsConnected() {
		return true
	}

	l.setStatus(core.StatusConnecting)
	l.logger.Debug("connecting")

	dialCtx, cancel := context.WithTimeout(ctx, l.settings.Timeout)
	defer cancel()

	if err := l.dialer.Dial(dialCtx); err != nil {
		l.recordFailure(core.ClassifyErr(l.name, err))
		l.logger.Warn("connect failed", "error", err)
		return false
	}

	l.recordConnected()
	l.logger.Info("connected")
	return true
}

// Disconnect tears the session down. Calling it while already
// disconnected is a no-op that reports success.
func (l *Lifecycle) Disconnect(ctx context.Context) bool {
	l.connectMu.Lock()
	defer l.connectMu.Unlock()

	if !l.IsConnected() {
		l.setStatus(core.StatusDisconnected)
		return true
	}

	err := l.dialer.Hangup(ctx)
	l.setStatus(core.StatusDisconnected)
	if err != nil {
		l.logger.Warn("hangup failed", "error", err)
		return false
	}

	l.logger.Info("disconnected")
	return true
}

// IsConnected reports whether the session is established. Pure status
// read, no I/O.
func (l *Lifecycle) IsConnected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.info.Status == core.StatusConnected
}

// Info returns a snapshot copy of the connection info.
func (l *Lifecycle) Info() core.ConnectionInfo {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.info
}

// HealthCheck probes the source. While disconnected it reports so
// without performing any I/O. It never fails.
func (l *Lifecycle) HealthCheck(ctx context.Context) core.HealthReport {
	info := l.Info()
	report := core.HealthReport{
		SourceName: l.name,
		Timestamp:  l.clock(),
		ErrorCount: info.ErrorCount,
	}

	if info.Status != core.StatusConnected {
		report.Status = core.StatusDisconnected
		report.Message = fmt.Sprintf("not connected to %s", l.name)
		return report
	}

	pingCtx, cancel := context.WithTimeout(ctx, l.settings.Timeout)
	defer cancel()

	if err := l.dialer.Ping(pingCtx); err != nil {
		se := core.ClassifyErr(l.name, err)
		if se.Code == core.CodeTimeout {
			report.Status = core.StatusTimeout
		} else {
			report.Status = core.StatusFailed
		}
		report.Message = fmt.Sprintf("health check failed: %v", err)
		return report
	}

	report.Status = core.StatusConnected
	report.Message = fmt.Sprintf("%s is responding", l.name)
	return report
}

// ExecuteWithRetry runs op with exponential backoff. Before each
// attempt it reconnects exactly once if the session is down. The delay
// before retry n is BaseDelay doubled n times; retries are strictly
// sequential. After exhaustion the lifecycle is marked failed with the
// last error and that error is returned, classified.
func (l *Lifecycle) ExecuteWithRetry(ctx context.Context, op func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= l.settings.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return l.recordCancellation(ctx.Err())
		default:
		}

		if !l.IsConnected() {
			l.Connect(ctx)
		}

		opCtx, cancel := context.WithTimeout(ctx, l.settings.Timeout)
		lastErr = op(opCtx)
		cancel()

		if lastErr == nil {
			if attempt > 0 {
				l.logger.Debug("operation succeeded after retry", "attempt", attempt+1)
			}
			l.recordConnected()
			return nil
		}

		l.logger.Debug("operation failed, will retry",
			"attempt", attempt+1, "maxAttempts", l.settings.MaxRetries+1, "error", lastErr)

		if attempt == l.settings.MaxRetries {
			break
		}

		delay := l.settings.BaseDelay << attempt

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return l.recordCancellation(ctx.Err())
		case <-timer.C:
		}
	}

	se := core.ClassifyErr(l.name, lastErr)
	l.recordFailure(se)
	return se
}

func (l *Lifecycle) setStatus(status core.ConnectionStatus) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.info.Status = status
}

func (l *Lifecycle) recordConnected() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.info.Status = core.StatusConnected
	l.info.LastConnectedAt = l.clock()
	l.info.ErrorCount = 0
	l.info.LastError = ""
}

func (l *Lifecycle) recordFailure(se *core.SourceError) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.info.Status = core.StatusFailed
	l.info.ErrorCount++
	l.info.LastError = se.Error()
}

func (l *Lifecycle) recordCancellation(cause error) error {
	se := core.ClassifyErr(l.name, cause)
	l.mu.Lock()
	l.info.Status = core.StatusTimeout
	l.info.ErrorCount++
	l.info.LastError = se.Error()
	l.mu.Unlock()
	return se
}
