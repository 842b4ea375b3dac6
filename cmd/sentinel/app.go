package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"SignalSentinel/internal/cache"
	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/config"
	"SignalSentinel/internal/logging"
	"SignalSentinel/internal/recorder"
	"SignalSentinel/internal/scheduler"
	"SignalSentinel/internal/strategy"
)

// app holds what every subcommand shares once the config is loaded.
type app struct {
	configPath string
	cfg        *config.Config
	logger     *logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "sentinel",
		Short:        "Multi-factor trading signal engine",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.load()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $CONFIG_PATH or "+config.DefaultPath+")")

	root.AddCommand(newRunCmd(a))
	root.AddCommand(newAnalyzeCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

func (a *app) load() error {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load(".env")

	path := a.configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = config.DefaultPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	a.cfg = cfg
	a.logger = logging.New(cfg.Logging.Level)
	a.logger.Debug().Str("path", path).Msg("config loaded")
	return nil
}

func (a *app) analyzer() (*scheduler.Analyzer, error) {
	ds := a.cfg.DataSource
	fetcher, err := collector.NewFetcher(ds.Provider, ds.BaseURL, ds.APIKey, a.cfg.Proxy, ds.RateLimit)
	if err != nil {
		return nil, err
	}
	a.logger.Info().Str("source", fetcher.Name()).Msg("data source ready")

	col := collector.NewCollector(fetcher, ds.Days, a.cfg.Engine.Indicators.MinBars, a.logger.Component("collector"))
	engine := strategy.NewEngine(a.cfg.Engine, strategy.WithLogger(a.logger.Component("engine")))
	return scheduler.NewAnalyzer(col, engine, a.cfg.Fundamentals), nil
}

// recorder opens the SQLite history, falling back to a no-op recorder.
func (a *app) recorder() recorder.Recorder {
	if a.cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	if err := os.MkdirAll(filepath.Dir(a.cfg.Database.SQLitePath), 0o755); err != nil {
		a.logger.Warn().Err(err).Msg("create database directory, using noop recorder")
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(a.cfg.Database.SQLitePath, a.logger.Component("recorder"))
	if err != nil {
		a.logger.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}

// signalCache connects to Redis when configured. Without it the cache is a pass-through.
func (a *app) signalCache(ctx context.Context, inner cache.SignalSource) (*cache.SignalCache, func()) {
	rc := a.cfg.Redis
	if rc.Addr == "" {
		return cache.NewSignalCache(nil, rc.TTL, inner, ""), func() {}
	}
	rdb, err := cache.NewClient(ctx, rc.Addr, rc.Password, rc.DB)
	if err != nil {
		a.logger.Warn().Err(err).Msg("redis unavailable, signal cache disabled")
		return cache.NewSignalCache(nil, rc.TTL, inner, ""), func() {}
	}
	a.logger.Info().Str("addr", rc.Addr).Dur("ttl", rc.TTL).Msg("signal cache enabled")
	return cache.NewSignalCache(rdb, rc.TTL, inner, ""), func() { rdb.Close() }
}
