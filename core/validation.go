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
	"fmt"
	"strings"
	"time"
)

// NewMessageRecord builds a normalized chat message record.
// The classification signal is the message body.
func NewMessageRecord(source, body string, ts time.Time, metadata map[string]string) (SourceRecord, error) {
	return newRecord(source, KindMessage, "", body, body, ts, metadata)
}

// NewDocumentRecord builds a normalized document record.
// The classification signal is the document title.
func NewDocumentRecord(source, title string, ts time.Time, metadata map[string]string) (SourceRecord, error) {
	return newRecord(source, KindDocument, title, "", title, ts, metadata)
}

// NewEmailRecord builds a normalized mail record.
// The classification signal is the subject joined with the snippet.
func NewEmailRecord(source, subject, snippet string, ts time.Time, metadata map[string]string) (SourceRecord, error) {
	signal := strings.TrimSpace(subject + " " + snippet)
	return newRecord(source, KindEmail, subject, snippet, signal, ts, metadata)
}

func newRecord(source string, kind RecordKind, title, body, signal string, ts time.Time, metadata map[string]string) (SourceRecord, error) {
	record := SourceRecord{
		SourceName: source,
		Kind:       kind,
		TextSignal: strings.ToLower(strings.TrimSpace(signal)),
		Title:      title,
		Body:       body,
		Timestamp:  ts,
		Metadata:   metadata,
	}
	record.Id = IDFromContent(source + "|" + kind.String() + "|" + record.TextSignal)

	if err := ValidateSourceRecord(&record); err != nil {
		return SourceRecord{}, err
	}
	return record, nil
}

// ValidateSourceRecord validates a SourceRecord according to domain rules.
//
// Validation rules:
//   - SourceName must not be empty
//   - Kind must be a declared RecordKind
//   - TextSignal must not be empty (a record with no text cannot be classified)
//
// NOT validated:
//   - Timestamp (sources report their own clocks; zero means unknown)
//   - Metadata (free-form provider annotations)
func ValidateSourceRecord(record *SourceRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if record.SourceName == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptySourceName)
	}

	if err := ValidateRecordKind(record.Kind); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	if record.TextSignal == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyText)
	}

	return nil
}

// ValidateRecordKind validates that a RecordKind has a declared value.
func ValidateRecordKind(kind RecordKind) error {
	switch kind {
	case KindMessage, KindDocument, KindEmail:
		return nil
	default:
		return fmt.Errorf("%w: value %d", ErrInvalidRecordKind, kind)
	}
}
