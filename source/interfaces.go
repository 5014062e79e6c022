package source

import (
	"context"
	"time"

	"github.com/hanjuhn/agentcast/core"
)

// Dialer is the provider-specific transport behind a Lifecycle.
// Implementations establish, tear down, and probe one session.
type Dialer interface {
	// Dial establishes the session. It is called with a context bounded
	// by the lifecycle's per-attempt timeout.
	Dial(ctx context.Context) error

	// Hangup tears down the session. It must be safe to call when no
	// session is established.
	Hangup(ctx context.Context) error

	// Ping probes the established session without side effects.
	Ping(ctx context.Context) error
}

// Filters narrows a fetch call. The zero value means no filtering;
// DefaultFilters supplies the limits the coordinator uses.
type Filters struct {
	// Query is a provider-interpreted search expression.
	Query string

	// Limit caps the number of records returned per source.
	Limit int

	// Since excludes records older than the given time when the
	// provider supports it.
	Since time.Time
}

// DefaultFilters returns the filters used when the caller supplies none.
func DefaultFilters() Filters {
	return Filters{Limit: 100}
}

// Adapter binds the acquisition core to one external data source.
// Implementations must be safe for concurrent use; connection state is
// serialized by the embedded Lifecycle.
type Adapter interface {
	// Name returns the registry name of the source.
	Name() string

	// Kind returns the record shape this source produces.
	Kind() core.RecordKind

	// Connect establishes the source session. It never fails with an
	// error; failures are recorded on the connection info.
	Connect(ctx context.Context) bool

	// Disconnect tears the session down. Idempotent.
	Disconnect(ctx context.Context) bool

	// IsConnected reports the connection status without I/O.
	IsConnected() bool

	// HealthCheck probes the source. It never fails; while disconnected
	// it reports so without performing I/O.
	HealthCheck(ctx context.Context) core.HealthReport

	// Info returns a snapshot of the adapter's connection info.
	Info() core.ConnectionInfo

	// FetchAll collects records of the given kind, normalized into
	// core.SourceRecord values. Errors returned after the adapter's own
	// retries are *core.SourceError.
	FetchAll(ctx context.Context, kind core.RecordKind, filters Filters) ([]core.SourceRecord, error)
}
