package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"SignalSentinel/internal/notifier"
	"SignalSentinel/internal/recorder"
	"SignalSentinel/internal/scheduler"
)

func newRunCmd(a *app) *cobra.Command {
	var runOnStart bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scheduler and Telegram command loop until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if os.Getenv("RUN_ON_START") == "true" {
				runOnStart = true
			}
			return a.run(cmd.Context(), runOnStart)
		},
	}
	cmd.Flags().BoolVar(&runOnStart, "now", false, "analyze the watchlist immediately on start (also RUN_ON_START=true)")
	return cmd
}

func (a *app) run(parent context.Context, runOnStart bool) error {
	log := a.logger
	log.Info().Str("version", version).Msg("SignalSentinel starting")

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	an, err := a.analyzer()
	if err != nil {
		return err
	}
	sc, closeCache := a.signalCache(ctx, an)
	defer closeCache()

	rec := a.recorder()
	defer rec.Close()

	var (
		tn     *notifier.TelegramNotifier
		sender scheduler.Sender
	)
	if a.cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy, log)
		sender = tn
	} else {
		log.Warn().Msg("telegram not configured, reports go to the log")
	}

	sched := scheduler.NewScheduler(ctx, an, sc, sender, rec, a.cfg.Symbols(), log)
	if err := sched.Register(a.cfg.Schedule.AnalysisCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	if runOnStart {
		log.Info().Msg("running watchlist analysis now")
		go sched.RunAnalysis("start")
	}

	log.Info().Str("cron", a.cfg.Schedule.AnalysisCron).Msg("SignalSentinel is running, press Ctrl+C to stop")
	<-ctx.Done()
	log.Info().Msg("shutdown signal received, stopping")
	return nil
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		report  bool
		record  bool
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "analyze [SYMBOL...]",
		Short: "Analyze symbols once and print the signals",
		Long: `Fetch daily history for each symbol, run the fusion engine and print
the resulting signals as JSON. Without arguments the configured watchlist
is analyzed.`,
		Example: `  sentinel analyze AAPL MSFT
  sentinel analyze --report
  sentinel analyze NVDA --record`,
		RunE: func(cmd *cobra.Command, args []string) error {
			symbols := args
			if len(symbols) == 0 {
				symbols = a.cfg.Symbols()
			}
			if len(symbols) == 0 {
				return fmt.Errorf("no symbols given and the watchlist is empty")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			an, err := a.analyzer()
			if err != nil {
				return err
			}
			results := an.AnalyzeAll(ctx, symbols)

			if record {
				rec := a.recorder()
				defer rec.Close()
				runID := recorder.NewRunID()
				for _, r := range results {
					if r.Signal == nil {
						continue
					}
					if err := rec.RecordSignal(runID, r.Signal); err != nil {
						a.logger.Error().Err(err).Str("symbol", r.Symbol).Msg("record signal")
					}
				}
			}

			out := cmd.OutOrStdout()
			if report {
				fmt.Fprint(out, notifier.FormatBatchReport(results, time.Now()))
			} else {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				for _, r := range results {
					if r.Signal == nil {
						continue
					}
					if err := enc.Encode(r.Signal); err != nil {
						return fmt.Errorf("encode %s: %w", r.Symbol, err)
					}
				}
			}

			var failed []string
			for _, r := range results {
				if r.Err != nil {
					a.logger.Error().Err(r.Err).Str("symbol", r.Symbol).Msg("analysis failed")
					failed = append(failed, r.Symbol)
				}
			}
			if len(failed) > 0 {
				return fmt.Errorf("analysis failed for %s", strings.Join(failed, ", "))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&report, "report", false, "print the text report instead of JSON")
	cmd.Flags().BoolVar(&record, "record", false, "store the signals in the SQLite history")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall time limit")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "sentinel", version)
		},
	}
}
