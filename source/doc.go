// Package source defines the adapter contract for external data sources
// and the connection lifecycle shared by every adapter.
//
// A Lifecycle wraps one adapter's dial/hangup/ping transport and owns its
// ConnectionInfo. It provides:
//   - Connect/Disconnect/IsConnected with serialized connect attempts
//   - HealthCheck that never fails and performs no I/O while disconnected
//   - ExecuteWithRetry, a context-aware exponential backoff executor
//
// Concrete adapters (source/slack, source/gmail, source/gdocs) implement
// the Adapter interface by delegating lifecycle concerns here and
// normalizing provider payloads into core.SourceRecord values.
package source
