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


package acquire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/hanjuhn/agentcast/core"
	"github.com/hanjuhn/agentcast/fallback"
	"github.com/hanjuhn/agentcast/source"
)

// DefaultBranchTimeout bounds one adapter's share of a fan-out call.
const DefaultBranchTimeout = 30 * time.Second

// Coordinator fans requests out to a fixed set of source adapters.
// The adapter set is immutable after construction; all fan-out methods
// are safe for concurrent use.
type Coordinator struct {
	adapters      map[string]source.Adapter
	order         []string
	pool          *ants.Pool
	branchTimeout time.Duration
	logger        *slog.Logger
	clock         func() time.Time
}

// Option configures a Coordinator.
type Option func(*Coordinator) error

// WithPoolSize sets the worker pool size for fan-out calls.
// Default is one worker per adapter.
func WithPoolSize(size int) Option {
	return func(c *Coordinator) error {
		if size < 1 {
			size = 1
		}

		if c.pool != nil {
			c.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		c.pool = pool
		return nil
	}
}

// WithBranchTimeout sets the per-adapter deadline for fan-out calls.
// Default is DefaultBranchTimeout.
func WithBranchTimeout(timeout time.Duration) Option {
	return func(c *Coordinator) error {
		if timeout <= 0 {
			return ErrInvalidBranchTimeout
		}
		c.branchTimeout = timeout
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithClock overrides the time source used to stamp synthesized
// records. Intended for tests.
func WithClock(clock func() time.Time) Option {
	return func(c *Coordinator) error {
		if clock != nil {
			c.clock = clock
		}
		return nil
	}
}

// NewCoordinator builds a coordinator over the given adapters.
// Registration order is preserved in all per-source results.
func NewCoordinator(adapters []source.Adapter, opts ...Option) (*Coordinator, error) {
	if len(adapters) == 0 {
		return nil, ErrNoAdapters
	}

	byName := make(map[string]source.Adapter, len(adapters))
	order := make([]string, 0, len(adapters))
	for i, adapter := range adapters {
		if adapter == nil {
			return nil, fmt.Errorf("adapter %d: %w", i, ErrNilAdapter)
		}
		name := adapter.Name()
		if name == "" {
			return nil, fmt.Errorf("adapter %d: %w", i, ErrAdapterNameRequired)
		}
		if _, dup := byName[name]; dup {
			return nil, fmt.Errorf("adapter %q: %w", name, ErrDuplicateAdapter)
		}
		byName[name] = adapter
		order = append(order, name)
	}

	pool, err := ants.NewPool(len(adapters))
	if err != nil {
		return nil, err
	}

	c := &Coordinator{
		adapters:      byName,
		order:         order,
		pool:          pool,
		branchTimeout: DefaultBranchTimeout,
		logger:        slog.Default(),
		clock:         func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		if optErr := opt(c); optErr != nil {
			c.Release()
			return nil, optErr
		}
	}

	return c, nil
}

// Sources returns the registered source names in registration order.
func (c *Coordinator) Sources() []string {
	names := make([]string, len(c.order))
	copy(names, c.order)
	return names
}

// Status reports every adapter's connection info, keyed by source
// name. Pure status read, no I/O.
func (c *Coordinator) Status() map[string]core.ConnectionInfo {
	infos := make(map[string]core.ConnectionInfo, len(c.order))
	for _, name := range c.order {
		infos[name] = c.adapters[name].Info()
	}
	return infos
}

// ConnectAll connects every adapter concurrently and reports success
// per source. Every branch settles even when some connections fail.
func (c *Coordinator) ConnectAll(ctx context.Context) map[string]bool {
	results := make(map[string]bool, len(c.order))
	var mu sync.Mutex

	c.each(func(name string, adapter source.Adapter) {
		branchCtx, cancel := context.WithTimeout(ctx, c.branchTimeout)
		defer cancel()

		ok := adapter.Connect(branchCtx)
		if !ok {
			c.logger.Warn("source connection failed", "source", name,
				"error", adapter.Info().LastError)
		}

		mu.Lock()
		results[name] = ok
		mu.Unlock()
	})

	return results
}

// DisconnectAll disconnects every adapter concurrently.
func (c *Coordinator) DisconnectAll(ctx context.Context) map[string]bool {
	results := make(map[string]bool, len(c.order))
	var mu sync.Mutex

	c.each(func(name string, adapter source.Adapter) {
		ok := adapter.Disconnect(ctx)

		mu.Lock()
		results[name] = ok
		mu.Unlock()
	})

	return results
}

// HealthCheckAll probes every adapter concurrently and returns one
// report per source, in registration order.
func (c *Coordinator) HealthCheckAll(ctx context.Context) []core.HealthReport {
	reports := make(map[string]core.HealthReport, len(c.order))
	var mu sync.Mutex

	c.each(func(name string, adapter source.Adapter) {
		branchCtx, cancel := context.WithTimeout(ctx, c.branchTimeout)
		defer cancel()

		report := adapter.HealthCheck(branchCtx)

		mu.Lock()
		reports[name] = report
		mu.Unlock()
	})

	ordered := make([]core.HealthReport, 0, len(c.order))
	for _, name := range c.order {
		ordered = append(ordered, reports[name])
	}
	return ordered
}

// Fetch collects records from one named source. A failing source is
// reported as degraded with synthesized placeholder records rather than
// an error; the error return covers only unknown source names.
func (c *Coordinator) Fetch(ctx context.Context, name string, filters source.Filters) (core.FetchResult, error) {
	adapter, ok := c.adapters[name]
	if !ok {
		return core.FetchResult{}, fmt.Errorf("source %q: %w", name, ErrUnknownSource)
	}
	return c.fetchOne(ctx, adapter, filters), nil
}

// FetchEverything collects records from all sources concurrently and
// returns one result per source, in registration order. Branches are
// isolated: a failure, timeout, or panic in one adapter degrades only
// that source's result.
func (c *Coordinator) FetchEverything(ctx context.Context, filters source.Filters) []core.FetchResult {
	results := make(map[string]core.FetchResult, len(c.order))
	var mu sync.Mutex

	c.each(func(name string, adapter source.Adapter) {
		result := c.fetchOne(ctx, adapter, filters)

		mu.Lock()
		results[name] = result
		mu.Unlock()
	})

	ordered := make([]core.FetchResult, 0, len(c.order))
	for _, name := range c.order {
		ordered = append(ordered, results[name])
	}
	return ordered
}

// fetchOne runs one source branch to completion under its own deadline.
func (c *Coordinator) fetchOne(ctx context.Context, adapter source.Adapter, filters source.Filters) core.FetchResult {
	name := adapter.Name()

	branchCtx, cancel := context.WithTimeout(ctx, c.branchTimeout)
	defer cancel()

	records, err := c.collect(branchCtx, adapter, filters)
	if err == nil {
		return core.FetchResult{SourceName: name, Records: dedupe(records)}
	}

	se := core.ClassifyErr(name, err)
	c.logger.Warn("source degraded, synthesizing placeholder records",
		"source", name, "code", string(se.Code), "error", err)

	return core.FetchResult{
		SourceName: name,
		Records:    fallback.Records(name, adapter.Kind(), c.clock()),
		Degraded:   true,
		Err:        se,
	}
}

// collect connects on demand and fetches, converting panics to errors
// so a misbehaving adapter cannot take down sibling branches.
func (c *Coordinator) collect(ctx context.Context, adapter source.Adapter, filters source.Filters) (records []core.SourceRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("adapter panic: %v", r)
		}
	}()

	if !adapter.IsConnected() && !adapter.Connect(ctx) {
		cause := "connection attempt failed"
		if last := adapter.Info().LastError; last != "" {
			cause = last
		}
		return nil, core.NewSourceError(adapter.Name(), core.CodeConnectionFailed, errors.New(cause))
	}

	return adapter.FetchAll(ctx, adapter.Kind(), filters)
}

// dedupe drops records repeating an already-seen content ID, keeping
// the first occurrence.
func dedupe(records []core.SourceRecord) []core.SourceRecord {
	if len(records) < 2 {
		return records
	}

	seen := make(map[core.ID]bool, len(records))
	deduped := records[:0]
	for _, record := range records {
		if seen[record.Id] {
			continue
		}
		seen[record.Id] = true
		deduped = append(deduped, record)
	}
	return deduped
}

// Merge flattens results into a single record list, dropping duplicate
// content IDs. Result order follows the input order; the first
// occurrence of an ID wins.
func Merge(results []core.FetchResult) []core.SourceRecord {
	var total int
	for _, result := range results {
		total += len(result.Records)
	}

	seen := make(map[core.ID]bool, total)
	merged := make([]core.SourceRecord, 0, total)
	for _, result := range results {
		for _, record := range result.Records {
			if seen[record.Id] {
				continue
			}
			seen[record.Id] = true
			merged = append(merged, record)
		}
	}
	return merged
}

// Summary aggregates the outcome of one fan-out fetch.
type Summary struct {
	Sources   int // sources queried
	Healthy   int // sources that returned real records
	Degraded  int // sources that fell back to synthesized records
	Records   int // total records across all sources
	Synthetic int // records carrying the fallback tag
}

// Summarize computes aggregate counts over per-source results.
func Summarize(results []core.FetchResult) Summary {
	s := Summary{Sources: len(results)}
	for _, result := range results {
		if result.Degraded {
			s.Degraded++
		} else {
			s.Healthy++
		}
		s.Records += len(result.Records)
		for _, record := range result.Records {
			if record.Fallback {
				s.Synthetic++
			}
		}
	}
	return s
}

// Release releases the worker pool. The coordinator must not be used
// after calling Release.
func (c *Coordinator) Release() {
	if c.pool != nil {
		c.pool.Release()
	}
}

// each runs fn once per adapter on the pool and waits for all branches
// to settle. Submission failures fall back to running inline so no
// branch is ever silently dropped.
func (c *Coordinator) each(fn func(name string, adapter source.Adapter)) {
	var wg sync.WaitGroup
	for _, name := range c.order {
		name := name
		adapter := c.adapters[name]

		wg.Add(1)
		task := func() {
			defer wg.Done()
			fn(name, adapter)
		}
		if err := c.pool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()
}
