// Package main provides the ontos binary entry point. Ontos serves a
// multi-source knowledge graph: it loads taxonomy, schema, definition,
// glossary, and governance-link sources into named contexts and answers
// pattern queries, lexical searches, and taxonomy reads over the union
// graph.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/larsgeorge/ontos-sub001/config"
	"github.com/larsgeorge/ontos-sub001/engine"
	"github.com/larsgeorge/ontos-sub001/metric"
	"github.com/larsgeorge/ontos-sub001/service"
	"github.com/larsgeorge/ontos-sub001/storage"
)

const (
	Version = "0.1.0"
	appName = "ontos"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type appFlags struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	flags := &appFlags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Knowledge graph query engine",
		Long: `Ontos builds an in-memory knowledge graph from taxonomy files,
uploaded semantic models, built-in schemas, glossaries, and governance
links, and serves pattern queries, lexical search, and taxonomy views
over the combined graph.`,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		serveCmd(flags),
		rebuildCmd(flags),
		queryCmd(flags),
		searchCmd(flags),
		taxonomiesCmd(flags),
		versionCmd(),
	)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	}
}

// setup loads configuration, configures logging, and builds an engine with
// its sources rebuilt once.
func setup(flags *appFlags, metrics *metric.Metrics) (*config.Config, *engine.Engine, *slog.Logger, error) {
	logger := newLogger(flags.logLevel)
	slog.SetDefault(logger)

	cfg := config.Default()
	if flags.configPath != "" {
		loaded, err := config.LoadFile(flags.configPath)
		if err != nil {
			return nil, nil, nil, err
		}
		cfg = loaded
	}

	eng := engine.New(engine.Options{
		TaxonomyDir: cfg.Sources.TaxonomyDir,
		SchemaDir:   cfg.Sources.SchemaDir,
		Definitions: storage.NewMemoryStore(),
		Limits:      cfg.Engine,
		Metrics:     metrics,
		Logger:      logger,
	})

	if _, err := eng.Rebuild(context.Background()); err != nil {
		return nil, nil, nil, err
	}
	return cfg, eng, logger, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func serveCmd(flags *appFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the engine as a long-lived service",
		RunE: func(_ *cobra.Command, _ []string) error {
			registry := metric.NewRegistry()

			cfg, eng, logger, err := setup(flags, registry.CoreMetrics())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if cfg.Metrics.Enabled {
				server := metric.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, registry)
				go func() {
					if err := server.Start(); err != nil {
						logger.Error("metrics server stopped", "error", err)
					}
				}()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = server.Stop(shutdownCtx)
				}()
			}

			if cfg.NATS.Enabled {
				svc := service.New(eng, cfg.NATS, logger)
				if err := svc.Start(ctx); err != nil {
					return err
				}
				defer svc.Stop()
			}

			if cfg.Sources.Watch {
				watcher := service.NewWatcher(cfg.Sources.SchemaDir, cfg.Sources.WatchDebounce.Std(),
					func(ctx context.Context) {
						if _, err := eng.Rebuild(ctx); err != nil {
							logger.Error("watched rebuild failed", "error", err)
						}
					}, logger)
				if err := watcher.Start(ctx); err != nil {
					return err
				}
				defer watcher.Stop()
			}

			logger.Info("engine serving",
				"generation", eng.Store().Generation(),
				"contexts", eng.Store().ContextCount(),
				"triples", eng.Store().TripleCount())

			<-ctx.Done()
			logger.Info("shutting down")
			return nil
		},
	}
}

func rebuildCmd(flags *appFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Load all sources once and report the result",
		RunE: func(_ *cobra.Command, _ []string) error {
			_, eng, _, err := setup(flags, nil)
			if err != nil {
				return err
			}

			report, err := eng.Rebuild(context.Background())
			if err != nil {
				return err
			}
			return printJSON(map[string]any{
				"generation":     report.Generation,
				"contexts":       report.Loaded,
				"triples":        report.Triples,
				"failed_sources": len(report.Failed),
			})
		},
	}
}

func queryCmd(flags *appFlags) *cobra.Command {
	var (
		maxResults int
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "query <sparql>",
		Short: "Run a read-only pattern query against the graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			_, eng, _, err := setup(flags, nil)
			if err != nil {
				return err
			}

			rows, err := eng.Query(context.Background(), args[0], maxResults, timeout)
			if err != nil {
				return err
			}
			return printJSON(rows)
		},
	}
	cmd.Flags().IntVar(&maxResults, "max-results", 0, "Row cap (0 uses the configured limit)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Execution timeout (0 uses the configured limit)")
	return cmd
}

func searchCmd(flags *appFlags) *cobra.Command {
	var (
		limit    int
		taxonomy string
		concepts bool
	)

	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Search terms or concepts by substring",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			_, eng, _, err := setup(flags, nil)
			if err != nil {
				return err
			}

			if concepts {
				return printJSON(eng.SearchConcepts(args[0], taxonomy, limit))
			}
			return printJSON(eng.PrefixSearch(args[0], limit))
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 25, "Maximum number of results")
	cmd.Flags().StringVar(&taxonomy, "taxonomy", "", "Restrict concept search to one taxonomy")
	cmd.Flags().BoolVar(&concepts, "concepts", false, "Search ranked concepts instead of raw terms")
	return cmd
}

func taxonomiesCmd(flags *appFlags) *cobra.Command {
	var stats bool

	cmd := &cobra.Command{
		Use:   "taxonomies",
		Short: "List taxonomy summaries or aggregate stats",
		RunE: func(_ *cobra.Command, _ []string) error {
			_, eng, _, err := setup(flags, nil)
			if err != nil {
				return err
			}

			if stats {
				return printJSON(eng.GetTaxonomyStats())
			}
			return printJSON(eng.GetTaxonomies())
		},
	}
	cmd.Flags().BoolVar(&stats, "stats", false, "Print aggregate stats instead of per-taxonomy rows")
	return cmd
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
