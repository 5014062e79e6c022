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


package fallback

import (
	"time"

	"github.com/hanjuhn/agentcast/core"
)

// fixture is one static fallback payload.
type fixture struct {
	title   string // subject for email, title for documents, unused for messages
	body    string // message body or email snippet
	channel string // messaging channel annotation, when applicable
}

// Representative payloads per record kind. Chosen so that downstream
// classification still produces a sensible episode when a source is
// down: research chatter, a planning document, a meeting mail, and a
// conference-deadline mail.
var fixtures = map[core.RecordKind][]fixture{
	core.KindMessage: {
		{body: "The discussion about AI optimization algorithms today was really interesting.", channel: "research-discussion"},
		{body: "Especially the dynamic batching part was impressive.", channel: "research-discussion"},
	},
	core.KindDocument: {
		{title: "AI Research Direction and Plans"},
		{title: "Weekly Team Progress Notes"},
	},
	core.KindEmail: {
		{title: "AI Research Meeting Schedule", body: "Coordinating a meeting to discuss AI research"},
		{title: "ICML 2024 Registration Deadline", body: "Conference registration closes this Friday"},
	},
}

// Records synthesizes the placeholder records for the named source.
// The result depends only on the arguments; only the Timestamp field
// derives from now.
func Records(name string, kind core.RecordKind, now time.Time) []core.SourceRecord {
	set, ok := fixtures[kind]
	if !ok {
		return nil
	}

	records := make([]core.SourceRecord, 0, len(set))
	for _, f := range set {
		metadata := map[string]string{"status": "fallback"}
		if f.channel != "" {
			metadata["channel"] = f.channel
		}

		var (
			record core.SourceRecord
			err    error
		)
		switch kind {
		case core.KindMessage:
			record, err = core.NewMessageRecord(name, f.body, now, metadata)
		case core.KindDocument:
			record, err = core.NewDocumentRecord(name, f.title, now, metadata)
		case core.KindEmail:
			record, err = core.NewEmailRecord(name, f.title, f.body, now, metadata)
		}
		if err != nil {
			// Fixtures are static and always valid; a failure here is a
			// programming error in this file.
			panic(err)
		}

		record.Fallback = true
		records = append(records, record)
	}

	return records
}
