package source

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanjuhn/agentcast/core"
)

// fakeDialer is a scriptable Dialer for lifecycle tests.
type fakeDialer struct {
	dialErr   error
	pingErr   error
	hangupErr error

	dialDelay time.Duration

	dialCount   atomic.Int64
	pingCount   atomic.Int64
	hangupCount atomic.Int64
}

func (d *fakeDialer) Dial(ctx context.Context) error {
	d.dialCount.Add(1)
	if d.dialDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d.dialDelay):
		}
	}
	return d.dialErr
}

func (d *fakeDialer) Hangup(ctx context.Context) error {
	d.hangupCount.Add(1)
	return d.hangupErr
}

func (d *fakeDialer) Ping(ctx context.Context) error {
	d.pingCount.Add(1)
	return d.pingErr
}

func newTestLifecycle(t *testing.T, dialer Dialer, opts ...LifecycleOption) *Lifecycle {
	t.Helper()
	base := []LifecycleOption{
		WithSettings(NewSettings(WithMaxRetries(3), WithBaseDelay(10*time.Millisecond), WithTimeout(time.Second))),
	}
	l, err := NewLifecycle("testsource", dialer, append(base, opts...)...)
	require.NoError(t, err)
	return l
}

func TestNewLifecycle_Validation(t *testing.T) {
	_, err := NewLifecycle("", &fakeDialer{})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = NewLifecycle("slack", nil)
	assert.ErrorIs(t, err, ErrDialerRequired)

	_, err = NewLifecycle("slack", &fakeDialer{}, WithSettings(&Settings{MaxRetries: -1, BaseDelay: time.Second, Timeout: time.Second}))
	assert.ErrorIs(t, err, ErrInvalidMaxRetries)

	_, err = NewLifecycle("slack", &fakeDialer{}, WithSettings(&Settings{MaxRetries: 0, BaseDelay: 0, Timeout: time.Second}))
	assert.ErrorIs(t, err, ErrInvalidBaseDelay)
}

func TestLifecycle_ConnectSuccess(t *testing.T) {
	now := time.Date(2024, 8, 16, 9, 30, 0, 0, time.UTC)
	dialer := &fakeDialer{}
	l := newTestLifecycle(t, dialer, WithClock(func() time.Time { return now }))

	require.Equal(t, core.StatusDisconnected, l.Info().Status)
	assert.False(t, l.IsConnected())

	ok := l.Connect(context.Background())
	require.True(t, ok)
	assert.True(t, l.IsConnected())

	info := l.Info()
	assert.Equal(t, core.StatusConnected, info.Status)
	assert.Equal(t, now, info.LastConnectedAt)
	assert.Equal(t, 0, info.ErrorCount)
	assert.Empty(t, info.LastError)
}

func TestLifecycle_ConnectFailure(t *testing.T) {
	dialer := &fakeDialer{dialErr: errors.New("refused")}
	l := newTestLifecycle(t, dialer)

	ok := l.Connect(context.Background())
	require.False(t, ok)
	assert.False(t, l.IsConnected())

	info := l.Info()
	assert.Equal(t, core.StatusFailed, info.Status)
	assert.Equal(t, 1, info.ErrorCount)
	assert.Contains(t, info.LastError, "unknown_error")

	// Error count accumulates across failed attempts.
	l.Connect(context.Background())
	assert.Equal(t, 2, l.Info().ErrorCount)
}

func TestLifecycle_ErrorCountResetsOnConnect(t *testing.T) {
	dialer := &fakeDialer{dialErr: errors.New("refused")}
	l := newTestLifecycle(t, dialer)

	l.Connect(context.Background())
	l.Connect(context.Background())
	require.Equal(t, 2, l.Info().ErrorCount)

	dialer.dialErr = nil
	require.True(t, l.Connect(context.Background()))

	info := l.Info()
	assert.Equal(t, 0, info.ErrorCount)
	assert.Empty(t, info.LastError)
}

func TestLifecycle_ConnectSerialized(t *testing.T) {
	dialer := &fakeDialer{dialDelay: 50 * time.Millisecond}
	l := newTestLifecycle(t, dialer)

	var wg sync.WaitGroup
	results := make([]bool, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = l.Connect(context.Background())
		}(i)
	}
	wg.Wait()

	for _, ok := range results {
		assert.True(t, ok)
	}
	// Only the first caller dials; the rest observe the connected
	// status after the guard releases.
	assert.Equal(t, int64(1), dialer.dialCount.Load(), "concurrent connects must not dial more than once")
}

func TestLifecycle_DisconnectIdempotent(t *testing.T) {
	dialer := &fakeDialer{}
	l := newTestLifecycle(t, dialer)

	assert.True(t, l.Disconnect(context.Background()))
	assert.Equal(t, int64(0), dialer.hangupCount.Load(), "disconnect while disconnected must not hang up")

	require.True(t, l.Connect(context.Background()))
	assert.True(t, l.Disconnect(context.Background()))
	assert.Equal(t, int64(1), dialer.hangupCount.Load())
	assert.Equal(t, core.StatusDisconnected, l.Info().Status)

	assert.True(t, l.Disconnect(context.Background()))
	assert.Equal(t, int64(1), dialer.hangupCount.Load())
}

func TestLifecycle_HealthCheckDisconnected(t *testing.T) {
	dialer := &fakeDialer{}
	l := newTestLifecycle(t, dialer)

	report := l.HealthCheck(context.Background())
	assert.Equal(t, core.StatusDisconnected, report.Status)
	assert.Contains(t, report.Message, "not connected")
	assert.Equal(t, int64(0), dialer.pingCount.Load(), "disconnected health check must not ping")
}

func TestLifecycle_HealthCheckConnected(t *testing.T) {
	dialer := &fakeDialer{}
	l := newTestLifecycle(t, dialer)
	require.True(t, l.Connect(context.Background()))

	report := l.HealthCheck(context.Background())
	assert.Equal(t, core.StatusConnected, report.Status)
	assert.Contains(t, report.Message, "responding")
	assert.Equal(t, int64(1), dialer.pingCount.Load())

	dialer.pingErr = errors.New("boom")
	report = l.HealthCheck(context.Background())
	assert.Equal(t, core.StatusFailed, report.Status)
	assert.Contains(t, report.Message, "health check failed")
}

func TestExecuteWithRetry_SuccessFirstTry(t *testing.T) {
	l := newTestLifecycle(t, &fakeDialer{})

	attempts := 0
	err := l.ExecuteWithRetry(context.Background(), func(ctx context.Context) error {
		attempts++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, attempts, "should succeed on first try")
	assert.True(t, l.IsConnected(), "successful operation marks the session live")
}

func TestExecuteWithRetry_EventualSuccess(t *testing.T) {
	l := newTestLifecycle(t, &fakeDialer{})

	attempts := 0
	err := l.ExecuteWithRetry(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts, "should succeed on third attempt")
}

func TestExecuteWithRetry_Exhaustion(t *testing.T) {
	l := newTestLifecycle(t, &fakeDialer{})

	attempts := 0
	opErr := errors.New("persistent error")
	err := l.ExecuteWithRetry(context.Background(), func(ctx context.Context) error {
		attempts++
		return opErr
	})

	require.Error(t, err)
	assert.Equal(t, 4, attempts, "maxRetries=3 means one initial attempt plus three retries")

	var se *core.SourceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, core.CodeUnknown, se.Code)
	assert.ErrorIs(t, err, opErr)

	info := l.Info()
	assert.Equal(t, core.StatusFailed, info.Status)
	assert.Contains(t, info.LastError, "persistent error")
}

func TestExecuteWithRetry_ReconnectsOnceBeforeRetry(t *testing.T) {
	dialer := &fakeDialer{}
	l := newTestLifecycle(t, dialer)

	err := l.ExecuteWithRetry(context.Background(), func(ctx context.Context) error {
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), dialer.dialCount.Load(), "disconnected executor dials exactly once before the attempt")
}

func TestExecuteWithRetry_BackoffDoubles(t *testing.T) {
	l := newTestLifecycle(t, &fakeDialer{})

	attempts := 0
	var delays []time.Duration
	lastTime := time.Now()

	err := l.ExecuteWithRetry(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts > 1 {
			delays = append(delays, time.Since(lastTime))
		}
		lastTime = time.Now()
		if attempts < 4 {
			return errors.New("error")
		}
		return nil
	})
	require.NoError(t, err)
	require.Len(t, delays, 3)

	// Allow timing variance; only the doubling trend is asserted.
	assert.Greater(t, delays[1], delays[0], "second delay should be greater than first")
	assert.Greater(t, delays[2], delays[1], "third delay should be greater than second")
}

func TestExecuteWithRetry_ContextCanceled(t *testing.T) {
	l := newTestLifecycle(t, &fakeDialer{})

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := l.ExecuteWithRetry(ctx, func(ctx context.Context) error {
		attempts++
		if attempts == 2 {
			cancel()
		}
		return errors.New("error")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.LessOrEqual(t, attempts, 2, "should stop when context is canceled")
	assert.Equal(t, core.StatusTimeout, l.Info().Status)
}

func TestExecuteWithRetry_ContextTimeout(t *testing.T) {
	l := newTestLifecycle(t, &fakeDialer{})

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()

	err := l.ExecuteWithRetry(ctx, func(ctx context.Context) error {
		return errors.New("error")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	var se *core.SourceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, core.CodeTimeout, se.Code)
}
