// Package scheduler runs the periodic watchlist analysis and answers chat commands.
package scheduler

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"SignalSentinel/internal/cache"
	"SignalSentinel/internal/logging"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/notifier"
	"SignalSentinel/internal/recorder"
	"SignalSentinel/internal/strategy"
)

// Sender delivers a report. *notifier.TelegramNotifier implements it.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

const historyLimit = 10

// Scheduler manages the cron task and chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Analyzer  *Analyzer
	Cache     *cache.SignalCache
	Notifier  Sender // nil logs reports instead
	Recorder  recorder.Recorder
	Watchlist []string
	Ctx       context.Context

	logger *logging.Logger
	now    func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, an *Analyzer, sc *cache.SignalCache, tn Sender, rec recorder.Recorder, watchlist []string, logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.NewSilent()
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if sc == nil {
		sc = cache.NewSignalCache(nil, 0, an, "")
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Analyzer:  an,
		Cache:     sc,
		Notifier:  tn,
		Recorder:  rec,
		Watchlist: watchlist,
		Ctx:       ctx,
		logger:    logger.Component("scheduler"),
		now:       time.Now,
	}
}

// Register registers the watchlist analysis task.
func (s *Scheduler) Register(analysisCron string) error {
	if _, err := s.Cron.AddFunc(analysisCron, func() { s.RunAnalysis("cron") }); err != nil {
		return fmt.Errorf("register analysis task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info().Int("symbols", len(s.Watchlist)).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}

// RunAnalysis analyzes the whole watchlist, caches and records each signal,
// and sends one report. trigger is stored with the run summary.
func (s *Scheduler) RunAnalysis(trigger string) []strategy.Result {
	run := &recorder.RunSummary{
		RunID:   recorder.NewRunID(),
		Trigger: trigger,
		Started: s.now(),
		Symbols: len(s.Watchlist),
	}
	log := s.logger.With().Str("run_id", run.RunID).Logger()
	log.Info().Str("trigger", trigger).Int("symbols", run.Symbols).Msg("running watchlist analysis")

	if len(s.Watchlist) == 0 {
		log.Warn().Msg("watchlist is empty, nothing to analyze")
		return nil
	}

	results := s.Analyzer.AnalyzeAll(s.Ctx, s.Watchlist)
	for _, r := range results {
		if r.Err != nil {
			run.Failures++
			log.Error().Err(r.Err).Str("symbol", r.Symbol).Msg("analysis failed")
			continue
		}
		log.Info().Str("symbol", r.Symbol).Str("action", string(r.Signal.Action)).
			Float64("confidence", r.Signal.Confidence).Msg("signal")
		s.store(run.RunID, r.Signal)
	}

	run.Finished = s.now()
	if err := s.Recorder.RecordRun(run); err != nil {
		log.Error().Err(err).Msg("record run")
	}

	s.trySend(notifier.FormatBatchReport(results, run.Started))
	return results
}

func (s *Scheduler) store(runID string, sig *model.Signal) {
	if err := s.Cache.Put(s.Ctx, sig); err != nil {
		s.logger.Warn().Err(err).Str("symbol", sig.Symbol).Msg("cache signal")
	}
	if err := s.Recorder.RecordSignal(runID, sig); err != nil {
		s.logger.Error().Err(err).Str("symbol", sig.Symbol).Msg("record signal")
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	// "/analyze@SentinelBot AAPL" in group chats
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")
	arg := ""
	if len(fields) > 1 {
		arg = strings.ToUpper(fields[1])
	}

	switch name {
	case "/analyze":
		if arg == "" {
			return "Usage: /analyze SYMBOL"
		}
		sig, err := s.Analyzer.Signal(s.Ctx, arg)
		if err != nil {
			return failure(arg, err)
		}
		s.store(recorder.NewRunID(), sig)
		return notifier.FormatSignalReport(sig)
	case "/signal":
		if arg == "" {
			return "Usage: /signal SYMBOL"
		}
		sig, err := s.Cache.Signal(s.Ctx, arg)
		if err != nil {
			return failure(arg, err)
		}
		return notifier.FormatSignalReport(sig)
	case "/history":
		if arg == "" {
			return "Usage: /history SYMBOL"
		}
		records, err := s.Recorder.RecentSignals(arg, historyLimit)
		if err != nil {
			return failure("history "+arg, err)
		}
		return notifier.FormatHistory(arg, records)
	case "/watchlist":
		return notifier.FormatWatchlist(s.Watchlist)
	case "/run":
		go s.RunAnalysis("command")
		return "Running watchlist analysis..."
	default:
		return notifier.FormatHelp()
	}
}

// failure renders an error reply. Replies are sent as HTML, so user input
// and error text are escaped.
func failure(subject string, err error) string {
	return "❌ " + html.EscapeString(subject) + ": " + html.EscapeString(err.Error())
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		s.logger.Info().Msg(text)
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.logger.Error().Err(err).Msg("send notification")
	}
}
