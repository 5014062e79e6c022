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


package core

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Domain validation errors
var (
	// ErrInvalidRecord indicates a SourceRecord failed validation.
	ErrInvalidRecord = errors.New("invalid source record")

	// ErrEmptySourceName indicates the SourceName field is empty.
	ErrEmptySourceName = errors.New("source name cannot be empty")

	// ErrEmptyText indicates a record carries no classifiable text.
	ErrEmptyText = errors.New("record text cannot be empty")

	// ErrInvalidRecordKind indicates an invalid RecordKind value.
	ErrInvalidRecordKind = errors.New("invalid record kind")
)

// ErrorCode tags a source error with its taxonomy class.
// The wire words are stable and recorded on ConnectionInfo.LastError.
type ErrorCode string

const (
	CodeConnectionFailed  ErrorCode = "connection_failed"
	CodeAuthFailed        ErrorCode = "authentication_failed"
	CodePermissionDenied  ErrorCode = "permission_denied"
	CodeRateLimited       ErrorCode = "rate_limit_exceeded"
	CodeServerUnavailable ErrorCode = "server_unavailable"
	CodeTimeout           ErrorCode = "timeout"
	CodeUnknown           ErrorCode = "unknown_error"
)

// SourceError is a typed error produced by a source adapter after its
// own retries are exhausted. It never crosses the coordinator boundary;
// the coordinator downgrades it into a degraded FetchResult.
type SourceError struct {
	Source string
	Code   ErrorCode
	Err    error
}

// NewSourceError wraps err with a source name and taxonomy code.
func NewSourceError(source string, code ErrorCode, err error) *SourceError {
	return &SourceError{Source: source, Code: code, Err: err}
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Source, e.Code)
	}
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Code, e.Err)
}

// Unwrap returns the underlying error.
func (e *SourceError) Unwrap() error {
	return e.Err
}

// ClassifyErr converts an arbitrary error into a SourceError with the
// best-fitting taxonomy code. Already-classified errors pass through
// with their code preserved. Provider-specific mapping (HTTP statuses,
// API error payloads) happens in the adapters; this covers the generic
// context and network cases.
func ClassifyErr(source string, err error) *SourceError {
	if err == nil {
		return nil
	}

	var se *SourceError
	if errors.As(err, &se) {
		return se
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewSourceError(source, CodeTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return NewSourceError(source, CodeTimeout, err)
		}
		return NewSourceError(source, CodeConnectionFailed, err)
	}

	return NewSourceError(source, CodeUnknown, err)
}
