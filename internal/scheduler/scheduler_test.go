package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalSentinel/internal/cache"
	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/recorder"
	"SignalSentinel/internal/seriestest"
	"SignalSentinel/internal/strategy"
)

type stubFetcher struct {
	bars map[string][]model.PriceBar
}

func (f stubFetcher) Name() string { return "stub" }

func (f stubFetcher) FetchDailyBars(_ context.Context, symbol string, _ int) ([]model.PriceBar, error) {
	b, ok := f.bars[symbol]
	if !ok {
		return nil, fmt.Errorf("unknown symbol %s", symbol)
	}
	return b, nil
}

type fakeSender struct {
	mu   sync.Mutex
	msgs []string
}

func (f *fakeSender) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, text)
	return nil
}

func (f *fakeSender) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.msgs...)
}

func newTestAnalyzer() *Analyzer {
	fetcher := stubFetcher{bars: map[string][]model.PriceBar{
		"UP":   seriestest.Linear("UP", 60, 100, 1).Bars,
		"FLAT": seriestest.Flat("FLAT", 60, 100).Bars,
		"TINY": seriestest.Flat("TINY", 20, 100).Bars,
	}}
	col := collector.NewCollector(fetcher, 60, 50, nil)
	pe := 12.0
	return NewAnalyzer(col, strategy.NewEngine(strategy.DefaultConfig()), func(symbol string) *model.FundamentalInput {
		if symbol == "UP" {
			return &model.FundamentalInput{PE: &pe}
		}
		return nil
	})
}

func newTestScheduler(t *testing.T, watchlist []string) (*Scheduler, *fakeSender, *recorder.SQLiteRecorder) {
	t.Helper()
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { rec.Close() })

	sender := &fakeSender{}
	s := NewScheduler(context.Background(), newTestAnalyzer(), nil, sender, rec, watchlist, nil)
	s.now = func() time.Time { return time.Date(2024, 6, 3, 16, 30, 0, 0, time.UTC) }
	return s, sender, rec
}

func TestAnalyzer_Signal(t *testing.T) {
	sig, err := newTestAnalyzer().Signal(context.Background(), "up")
	require.NoError(t, err)
	assert.Equal(t, "UP", sig.Symbol)
	require.NotNil(t, sig.Fundamental)
	assert.Contains(t, sig.Fundamental.Factors, "P/E 12.0 suggests undervaluation")

	_, err = newTestAnalyzer().Signal(context.Background(), "TINY")
	assert.ErrorIs(t, err, model.ErrInsufficientData)
}

func TestAnalyzer_AnalyzeAll(t *testing.T) {
	results := newTestAnalyzer().AnalyzeAll(context.Background(), []string{"up", "MISSING", "FLAT", "TINY"})
	require.Len(t, results, 4)

	assert.Equal(t, "UP", results[0].Symbol)
	require.NoError(t, results[0].Err)
	assert.Equal(t, model.ActionBuy, results[0].Signal.Action)

	assert.Equal(t, "MISSING", results[1].Symbol)
	assert.ErrorContains(t, results[1].Err, "unknown symbol")

	assert.Equal(t, "FLAT", results[2].Symbol)
	require.NoError(t, results[2].Err)
	assert.Equal(t, model.ActionHold, results[2].Signal.Action)

	assert.ErrorIs(t, results[3].Err, model.ErrInsufficientData)
}

func TestRunAnalysis(t *testing.T) {
	s, sender, rec := newTestScheduler(t, []string{"UP", "MISSING", "FLAT"})

	results := s.RunAnalysis("cron")
	require.Len(t, results, 3)

	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "2024-06-03 16:30")
	assert.Contains(t, msgs[0], "<b>UP</b> 🟢 BUY")
	assert.Contains(t, msgs[0], "<b>FLAT</b> ⚪ HOLD")
	assert.Contains(t, msgs[0], "MISSING")

	up, err := rec.RecentSignals("UP", 5)
	require.NoError(t, err)
	require.Len(t, up, 1)
	assert.Equal(t, model.ActionBuy, up[0].Action)

	missing, err := rec.RecentSignals("MISSING", 5)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestRunAnalysis_EmptyWatchlist(t *testing.T) {
	s, sender, _ := newTestScheduler(t, nil)
	assert.Nil(t, s.RunAnalysis("cron"))
	assert.Empty(t, sender.messages())
}

func TestRegister(t *testing.T) {
	s, _, _ := newTestScheduler(t, nil)
	assert.NoError(t, s.Register("0 30 16 * * 1-5"))
	assert.Error(t, s.Register("not a cron"))
}

func TestHandleCommand(t *testing.T) {
	s, _, _ := newTestScheduler(t, []string{"UP", "FLAT"})

	tests := []struct {
		command string
		want    string
	}{
		{"", "Available commands"},
		{"/help", "Available commands"},
		{"/watchlist", "UP, FLAT"},
		{"/analyze", "Usage: /analyze SYMBOL"},
		{"/analyze up", "<b>UP</b>"},
		{"/analyze@SentinelBot flat", "⚪ HOLD"},
		{"/analyze MISSING", "❌ MISSING"},
		{"/signal", "Usage: /signal SYMBOL"},
		{"/signal FLAT", "<b>FLAT</b>"},
		{"/history", "Usage: /history SYMBOL"},
		{"/history TSLA", "No recorded signals for TSLA"},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			assert.Contains(t, s.HandleCommand(tt.command), tt.want)
		})
	}
}

func TestHandleCommand_EscapesErrorReplies(t *testing.T) {
	s, _, _ := newTestScheduler(t, nil)

	for _, cmd := range []string{"/analyze <b>x", "/signal a&b"} {
		t.Run(cmd, func(t *testing.T) {
			out := s.HandleCommand(cmd)
			assert.True(t, strings.HasPrefix(out, "❌ "))
			assert.NotContains(t, out, "<")
			assert.NotContains(t, out, "A&B")
		})
	}
	assert.Contains(t, s.HandleCommand("/analyze <b>x"), "❌ &lt;B&gt;X: ")
}

func TestHandleCommand_AnalyzeThenHistory(t *testing.T) {
	s, _, _ := newTestScheduler(t, nil)

	s.HandleCommand("/analyze UP")
	s.HandleCommand("/analyze UP")

	out := s.HandleCommand("/history up")
	assert.Contains(t, out, "<b>UP history</b>")
	assert.Equal(t, 2, strings.Count(out, "🟢 BUY"))
}

func TestHandleCommand_SignalServedFromCache(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cached := &model.Signal{Symbol: "CACHED", Action: model.ActionSell, Confidence: 81, Reasoning: "from cache"}
	b, err := json.Marshal(cached)
	require.NoError(t, err)
	mock.ExpectGet("signals:CACHED").SetVal(string(b))

	s, _, _ := newTestScheduler(t, nil)
	s.Cache = cache.NewSignalCache(db, 0, s.Analyzer, "")

	out := s.HandleCommand("/signal cached")
	assert.Contains(t, out, "🔴 SELL")
	assert.Contains(t, out, "from cache")
	assert.NoError(t, mock.ExpectationsWereMet())
}
