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

package podcast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"github.com/hanjuhn/agentcast/core"
)

// ErrNoCategories is returned when there is nothing to write about.
var ErrNoCategories = errors.New("no categories to write a script from")

// ErrEmptyResponse is returned when the model produces no usable text.
var ErrEmptyResponse = errors.New("model returned an empty script")

// Script is one generated episode.
type Script struct {
	Title       string
	Body        string
	Categories  []string
	GeneratedAt time.Time
}

// ScriptWriter renders categorized records into a two-host episode
// script.
type ScriptWriter struct {
	client llms.Model
	config *Config
	logger *slog.Logger
	clock  func() time.Time
}

// NewScriptWriter creates a script writer backed by an
// OpenAI-compatible chat API.
func NewScriptWriter(config *Config) (*ScriptWriter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// "none" as token for local OpenAI-compatible services that don't
	// require authentication.
	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken("none"),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	return newScriptWriter(client, config), nil
}

func newScriptWriter(client llms.Model, config *Config) *ScriptWriter {
	return &ScriptWriter{
		client: client,
		config: config,
		logger: slog.Default().With("component", "script-writer"),
		clock:  func() time.Time { return time.Now().UTC() },
	}
}

// WriteScript generates an episode script covering the given
// categories. Categories arrive in classification order and the script
// is asked to cover them in that order.
func (w *ScriptWriter) WriteScript(ctx context.Context, categories []core.Category) (*Script, error) {
	if len(categories) == 0 {
		return nil, ErrNoCategories
	}

	content := []llms.MessageContent{
		{
			Role: schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(w.systemPrompt()),
			},
		},
		{
			Role: schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(w.digest(categories)),
			},
		},
	}

	response, err := w.client.GenerateContent(ctx, content, llms.WithTemperature(0.7))
	if err != nil {
		w.logger.Error("failed to generate script", "err", err)
		return nil, err
	}

	if len(response.Choices) < 1 {
		return nil, ErrEmptyResponse
	}

	body := strings.TrimSpace(response.Choices[0].Content)
	if body == "" {
		return nil, ErrEmptyResponse
	}

	names := make([]string, len(categories))
	for i, category := range categories {
		names[i] = category.Name
	}

	generatedAt := w.clock()
	w.logger.Debug("script generated",
		"categories", len(categories), "length", len(body))

	return &Script{
		Title:       fmt.Sprintf("%s, %s", w.config.ShowName, generatedAt.Format("January 2")),
		Body:        body,
		Categories:  names,
		GeneratedAt: generatedAt,
	}, nil
}

func (w *ScriptWriter) systemPrompt() string {
	return fmt.Sprintf(`You write the script for "%s", a short daily podcast with two hosts, %s and %s.
Turn the provided digest of workplace activity into a natural back-and-forth conversation.
Cover the topics in the order given, one segment per topic, and keep the tone light and concrete.
Label each line with the speaking host's name followed by a colon.`,
		w.config.ShowName, w.config.Hosts[0], w.config.Hosts[1])
}

// digest renders categories into the prompt text, quoting a bounded
// number of items per category.
func (w *ScriptWriter) digest(categories []core.Category) string {
	var b strings.Builder
	b.WriteString("Today's digest:\n")

	for _, category := range categories {
		fmt.Fprintf(&b, "\n## %s (%d items)\n", category.Name, len(category.Items))

		limit := w.config.ItemsPerCategory
		if limit > len(category.Items) {
			limit = len(category.Items)
		}
		for _, item := range category.Items[:limit] {
			line := itemLine(item)
			if line == "" {
				continue
			}
			fmt.Fprintf(&b, "- [%s] %s\n", item.SourceName, line)
		}
	}
	return b.String()
}

// itemLine picks the most readable one-line rendition of a record.
func itemLine(record core.SourceRecord) string {
	switch {
	case record.Title != "" && record.Body != "":
		return record.Title + ": " + record.Body
	case record.Title != "":
		return record.Title
	default:
		return record.Body
	}
}
