package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for collected records.
// It is generated from record content so identical payloads dedup naturally.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// The same content always produces the same ID, across sources and runs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ConnectionStatus describes the state of one source connection.
type ConnectionStatus int

const (
	// StatusDisconnected means no session is established.
	StatusDisconnected ConnectionStatus = iota + 1
	// StatusConnecting means a connect attempt is in flight.
	StatusConnecting
	// StatusConnected means the session is established and usable.
	StatusConnected
	// StatusFailed means the last connect or operation failed.
	StatusFailed
	// StatusTimeout means the last operation exceeded its deadline.
	StatusTimeout
)

// String returns the wire name of the status.
func (s ConnectionStatus) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusFailed:
		return "failed"
	case StatusTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// ConnectionInfo tracks the connection state of one source adapter.
// It is created once at adapter construction and mutated in place for
// the adapter's process lifetime; it is never persisted.
type ConnectionInfo struct {
	SourceName      string
	Status          ConnectionStatus
	LastConnectedAt time.Time // zero until the first successful connect
	ErrorCount      int
	LastError       string
}

// RecordKind identifies the shape of a collected record.
type RecordKind int

const (
	// KindMessage is a chat message from a messaging source.
	KindMessage RecordKind = iota + 1
	// KindDocument is a document or page from a document source.
	KindDocument
	// KindEmail is a mail message from a mail source.
	KindEmail
)

// String returns the wire name of the kind.
func (k RecordKind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindDocument:
		return "document"
	case KindEmail:
		return "email"
	default:
		return "unknown"
	}
}

// SourceRecord is one normalized item collected from a source.
// Records are immutable values; adapters must never hand out raw
// provider payloads, only records in this shape.
type SourceRecord struct {
	Id         ID
	SourceName string
	Kind       RecordKind
	// TextSignal is the comparable text used for classification:
	// body for messages, title for documents, subject plus snippet
	// for email. Always stored lowercase.
	TextSignal string
	Title      string
	Body       string
	Timestamp  time.Time
	// Fallback marks records synthesized when the source was unreachable.
	Fallback bool
	Metadata map[string]string
}

// FetchResult is the outcome of one fetch call against one source.
// Degraded is true iff every record was synthesized as fallback data;
// a result never mixes real and fallback records.
type FetchResult struct {
	SourceName string
	Records    []SourceRecord
	Degraded   bool
	Err        *SourceError
}

// Category is one classification bucket with the records assigned to it.
type Category struct {
	Name  string
	Items []SourceRecord
}

// HealthReport is the outcome of one health check against one source.
type HealthReport struct {
	SourceName string
	Status     ConnectionStatus
	Message    string
	Timestamp  time.Time
	ErrorCount int
}
