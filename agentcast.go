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


// Package agentcast assembles the acquisition layer into one system:
// source adapters behind a fan-out coordinator, keyword classification,
// and optional script generation.
package agentcast

import (
	"context"
	"log/slog"

	"github.com/hanjuhn/agentcast/acquire"
	"github.com/hanjuhn/agentcast/core"
	"github.com/hanjuhn/agentcast/grouping"
	"github.com/hanjuhn/agentcast/podcast"
	"github.com/hanjuhn/agentcast/source"
)

// System is the assembled acquisition layer. Construct it with the
// adapters you want to collect from; all fan-out behavior lives in the
// embedded coordinator.
type System struct {
	coordinator *acquire.Coordinator
	engine      *grouping.Engine
	writer      *podcast.ScriptWriter
	logger      *slog.Logger
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	rules           []grouping.Rule
	podcastConfig   *podcast.Config
	coordinatorOpts []acquire.Option
}

// WithRules overrides the default classification rule table.
func WithRules(rules []grouping.Rule) SystemOption {
	return func(o *systemOptions) {
		o.rules = rules
	}
}

// WithPodcastConfig enables script generation with the given config.
// Without it, WriteScript returns ErrScriptWriterDisabled.
func WithPodcastConfig(cfg *podcast.Config) SystemOption {
	return func(o *systemOptions) {
		o.podcastConfig = cfg
	}
}

// WithCoordinatorOptions forwards options to the fan-out coordinator.
func WithCoordinatorOptions(opts ...acquire.Option) SystemOption {
	return func(o *systemOptions) {
		o.coordinatorOpts = append(o.coordinatorOpts, opts...)
	}
}

// NewSystem builds a system over the given adapters.
func NewSystem(adapters []source.Adapter, opts ...SystemOption) (*System, error) {
	options := &systemOptions{
		rules: grouping.DefaultRules(),
	}
	for _, opt := range opts {
		opt(options)
	}

	engine, err := grouping.NewEngine(options.rules)
	if err != nil {
		return nil, err
	}

	coordinator, err := acquire.NewCoordinator(adapters, options.coordinatorOpts...)
	if err != nil {
		return nil, err
	}

	var writer *podcast.ScriptWriter
	if options.podcastConfig != nil {
		writer, err = podcast.NewScriptWriter(options.podcastConfig)
		if err != nil {
			coordinator.Release()
			return nil, err
		}
	}

	return &System{
		coordinator: coordinator,
		engine:      engine,
		writer:      writer,
		logger:      slog.Default(),
	}, nil
}

// Coordinator exposes the fan-out coordinator for direct per-source
// operations.
func (s *System) Coordinator() *acquire.Coordinator {
	return s.coordinator
}

// Collect fetches from every source, merges the results with content
// dedup, and classifies them. It never fails on source errors; degraded
// sources contribute their synthesized placeholder records.
func (s *System) Collect(ctx context.Context, filters source.Filters) ([]core.Category, []core.FetchResult) {
	results := s.coordinator.FetchEverything(ctx, filters)
	summary := acquire.Summarize(results)
	s.logger.Info("collection settled",
		"sources", summary.Sources, "healthy", summary.Healthy,
		"degraded", summary.Degraded, "records", summary.Records)

	return s.engine.Classify(acquire.Merge(results)), results
}

// WriteScript generates an episode script from classified categories.
func (s *System) WriteScript(ctx context.Context, categories []core.Category) (*podcast.Script, error) {
	if s.writer == nil {
		return nil, ErrScriptWriterDisabled
	}
	return s.writer.WriteScript(ctx, categories)
}

// Close disconnects every source and releases the coordinator's pool.
// The system should not be used after calling Close.
func (s *System) Close(ctx context.Context) {
	s.coordinator.DisconnectAll(ctx)
	s.coordinator.Release()
}
