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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/hanjuhn/agentcast/acquire"
	"github.com/hanjuhn/agentcast/config"
	"github.com/hanjuhn/agentcast/grouping"
	"github.com/hanjuhn/agentcast/podcast"
	"github.com/hanjuhn/agentcast/source"
	"github.com/hanjuhn/agentcast/source/gdocs"
	"github.com/hanjuhn/agentcast/source/gmail"
	"github.com/hanjuhn/agentcast/source/slack"
)

func main() {
	app := &cli.App{
		Name:  "agentcast",
		Usage: "Collects workplace activity and writes a daily podcast script",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "fetch",
				Usage:  "Fetch records from all enabled sources and print a summary",
				Action: fetchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum records per source (overrides config)",
					},
					&cli.DurationFlag{
						Name:  "lookback",
						Usage: "Fetch records newer than this (overrides config)",
					},
					&cli.StringFlag{
						Name:  "query",
						Usage: "Provider-interpreted search expression",
					},
				},
			},
			{
				Name:   "health",
				Usage:  "Connect to all enabled sources and report their health",
				Action: healthCommand,
			},
			{
				Name:   "script",
				Usage:  "Fetch, classify, and generate an episode script",
				Action: scriptCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum records per source (overrides config)",
					},
					&cli.DurationFlag{
						Name:  "lookback",
						Usage: "Fetch records newer than this (overrides config)",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// buildCoordinator assembles the enabled adapters from configuration
// and environment credentials.
func buildCoordinator(cfg *config.Config) (*acquire.Coordinator, error) {
	var adapters []source.Adapter

	if cfg.Sources.Slack.Enabled {
		adapter, err := slack.NewFromEnv([]source.LifecycleOption{
			source.WithSettings(cfg.Sources.Slack.Settings()),
		})
		if err != nil {
			return nil, fmt.Errorf("building slack adapter: %w", err)
		}
		adapters = append(adapters, adapter)
	}

	if cfg.Sources.Gmail.Enabled {
		adapter, err := gmail.NewFromEnv([]source.LifecycleOption{
			source.WithSettings(cfg.Sources.Gmail.Settings()),
		})
		if err != nil {
			return nil, fmt.Errorf("building gmail adapter: %w", err)
		}
		adapters = append(adapters, adapter)
	}

	if cfg.Sources.GDocs.Enabled {
		adapter, err := gdocs.NewFromEnv([]source.LifecycleOption{
			source.WithSettings(cfg.Sources.GDocs.Settings()),
		})
		if err != nil {
			return nil, fmt.Errorf("building gdocs adapter: %w", err)
		}
		adapters = append(adapters, adapter)
	}

	return acquire.NewCoordinator(adapters,
		acquire.WithBranchTimeout(time.Duration(cfg.Fetch.BranchTimeout)))
}

// fetchFilters resolves fetch filters from flags over configuration.
func fetchFilters(c *cli.Context, cfg *config.Config) source.Filters {
	filters := source.DefaultFilters()
	filters.Limit = cfg.Fetch.Limit
	filters.Query = c.String("query")

	lookback := time.Duration(cfg.Fetch.Lookback)
	if c.IsSet("lookback") {
		lookback = c.Duration("lookback")
	}
	if lookback > 0 {
		filters.Since = time.Now().UTC().Add(-lookback)
	}

	if c.IsSet("limit") {
		filters.Limit = c.Int("limit")
	}
	return filters
}

func fetchCommand(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	coordinator, err := buildCoordinator(cfg)
	if err != nil {
		return err
	}
	defer coordinator.Release()

	ctx := context.Background()
	coordinator.ConnectAll(ctx)
	defer coordinator.DisconnectAll(ctx)

	results := coordinator.FetchEverything(ctx, fetchFilters(c, cfg))

	for _, result := range results {
		if result.Degraded {
			fmt.Printf("%-8s degraded (%s): %d placeholder records\n",
				result.SourceName, result.Err.Code, len(result.Records))
			continue
		}
		fmt.Printf("%-8s ok: %d records\n", result.SourceName, len(result.Records))
	}

	summary := acquire.Summarize(results)
	fmt.Printf("\n%d sources, %d healthy, %d degraded, %d records (%d synthetic)\n",
		summary.Sources, summary.Healthy, summary.Degraded, summary.Records, summary.Synthetic)

	categories := grouping.NewDefaultEngine().Classify(acquire.Merge(results))
	fmt.Println()
	for _, category := range categories {
		fmt.Printf("%-28s %d\n", category.Name, len(category.Items))
	}

	return nil
}

func healthCommand(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	coordinator, err := buildCoordinator(cfg)
	if err != nil {
		return err
	}
	defer coordinator.Release()

	ctx := context.Background()
	coordinator.ConnectAll(ctx)
	defer coordinator.DisconnectAll(ctx)

	for _, report := range coordinator.HealthCheckAll(ctx) {
		fmt.Printf("%-8s %-12s %s\n", report.SourceName, report.Status, report.Message)
		if report.ErrorCount > 0 {
			fmt.Printf("%-8s %-12s %d consecutive errors\n", "", "", report.ErrorCount)
		}
	}

	return nil
}

func scriptCommand(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	coordinator, err := buildCoordinator(cfg)
	if err != nil {
		return err
	}
	defer coordinator.Release()

	ctx := context.Background()
	results := coordinator.FetchEverything(ctx, fetchFilters(c, cfg))
	defer coordinator.DisconnectAll(ctx)

	summary := acquire.Summarize(results)
	fmt.Fprintf(os.Stderr, "%d sources, %d healthy, %d degraded, %d records\n",
		summary.Sources, summary.Healthy, summary.Degraded, summary.Records)

	categories := grouping.NewDefaultEngine().Classify(acquire.Merge(results))
	if len(categories) == 0 {
		return fmt.Errorf("no records to write a script from")
	}

	writer, err := podcast.NewScriptWriter(podcast.NewConfig(
		podcast.WithHost(cfg.Podcast.Host),
		podcast.WithModel(cfg.Podcast.Model),
		podcast.WithShowName(cfg.Podcast.ShowName),
		podcast.WithHosts(cfg.Podcast.Hosts[0], cfg.Podcast.Hosts[1]),
	))
	if err != nil {
		return fmt.Errorf("building script writer: %w", err)
	}

	script, err := writer.WriteScript(ctx, categories)
	if err != nil {
		return fmt.Errorf("writing script: %w", err)
	}

	fmt.Printf("# %s\n\n%s\n", script.Title, script.Body)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
