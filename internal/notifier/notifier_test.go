package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalSentinel/internal/model"
	"SignalSentinel/internal/recorder"
	"SignalSentinel/internal/strategy"
)

func newTestNotifier(srv *httptest.Server) *TelegramNotifier {
	tn := NewTelegramNotifier("TOKEN", "42", "", nil)
	tn.BaseURL = srv.URL
	tn.RetryBase = time.Millisecond
	return tn
}

func TestSend(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	require.NoError(t, newTestNotifier(srv).Send("hello"))
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "hello", got["text"])
	assert.Equal(t, "HTML", got["parse_mode"])
}

func TestSend_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok":false}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	err := newTestNotifier(srv).Send("hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestSendWithRetry(t *testing.T) {
	tests := []struct {
		name      string
		failFirst int32
		retries   int
		wantErr   bool
		wantCalls int32
	}{
		{"first try", 0, 3, false, 1},
		{"recovers", 2, 3, false, 3},
		{"exhausted", 10, 2, true, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if atomic.AddInt32(&calls, 1) <= tt.failFirst {
					w.WriteHeader(http.StatusBadGateway)
					return
				}
				w.Write([]byte(`{"ok":true}`))
			}))
			defer srv.Close()

			err := newTestNotifier(srv).SendWithRetry(context.Background(), "msg", tt.retries)
			if tt.wantErr {
				assert.ErrorContains(t, err, "retries exhausted")
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
		})
	}
}

func TestSendWithRetry_Canceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	tn := newTestNotifier(srv)
	tn.RetryBase = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := tn.SendWithRetry(ctx, "msg", 3)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitMessage("short", 10))

	parts := splitMessage("aaaa\nbbbb\ncccc", 10)
	assert.Equal(t, []string{"aaaa\nbbbb", "cccc"}, parts)

	parts = splitMessage(strings.Repeat("x", 25), 10)
	assert.Equal(t, []string{"xxxxxxxxxx", "xxxxxxxxxx", "xxxxx"}, parts)
}

func TestStartPolling(t *testing.T) {
	var (
		mu      sync.Mutex
		replies []string
	)
	sent := make(chan struct{}, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			if r.URL.Query().Get("offset") == "0" {
				w.Write([]byte(`{"ok":true,"result":[{"update_id":7,"message":{"text":" /watchlist "}}]}`))
				return
			}
			time.Sleep(10 * time.Millisecond)
			w.Write([]byte(`{"ok":true,"result":[]}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			mu.Lock()
			replies = append(replies, body["text"])
			mu.Unlock()
			w.Write([]byte(`{"ok":true}`))
			select {
			case sent <- struct{}{}:
			default:
			}
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	var commands []string
	go func() {
		newTestNotifier(srv).StartPolling(ctx, func(cmd string) string {
			commands = append(commands, cmd)
			return "reply to " + cmd
		})
		close(done)
	}()

	select {
	case <-sent:
	case <-time.After(5 * time.Second):
		t.Fatal("no reply sent")
	}
	cancel()
	<-done

	assert.Equal(t, []string{"/watchlist"}, commands)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"reply to /watchlist"}, replies)
}

func testSignal() *model.Signal {
	return &model.Signal{
		Symbol:      "AAPL",
		Action:      model.ActionBuy,
		Confidence:  74,
		Price:       159,
		TargetPrice: 165.5,
		StopLoss:    154.2,
		AIScore:     7,
		Reasoning:   "Technical indicators point to BUY (confidence 100%); sentiment data unavailable.",
		Breakdown:   model.Breakdown{Technical: 1, Combined: 0.4},
		Support:     []model.Level{{Price: 150, Touches: 2}},
		Warnings:    []string{"AAPL: sentiment input missing, contributing zero"},
		Timestamp:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestFormatSignalReport(t *testing.T) {
	out := FormatSignalReport(testSignal())

	assert.Contains(t, out, "<b>AAPL</b> | 2024-03-01")
	assert.Contains(t, out, "🟢 BUY  (confidence 74.0%, AI score 7.0/10)")
	assert.Contains(t, out, "Price: 159.00 | Target: 165.50 | Stop: 154.20")
	assert.Contains(t, out, "combined:    +0.400")
	assert.Contains(t, out, "Support: 150.00 | Resistance: -")
	assert.Contains(t, out, "sentiment data unavailable")
	assert.Contains(t, out, "⚠️ AAPL: sentiment input missing")
}

func TestFormatBatchReport(t *testing.T) {
	sell := testSignal()
	sell.Symbol = "MSFT"
	sell.Action = model.ActionSell

	out := FormatBatchReport([]strategy.Result{
		{Symbol: "AAPL", Signal: testSignal()},
		{Symbol: "BAD", Err: errors.New("BAD: insufficient data")},
		{Symbol: "MSFT", Signal: sell},
	}, time.Date(2024, 3, 1, 16, 30, 0, 0, time.UTC))

	assert.Contains(t, out, "2024-03-01 16:30")
	aapl := strings.Index(out, "<b>AAPL</b> 🟢 BUY")
	msft := strings.Index(out, "<b>MSFT</b> 🔴 SELL")
	failed := strings.Index(out, "Failed")
	assert.True(t, aapl >= 0 && msft > aapl && failed > msft)
	assert.Contains(t, out, "BAD: BAD: insufficient data")
}

func TestFormatHistory(t *testing.T) {
	assert.Equal(t, "No recorded signals for AAPL", FormatHistory("AAPL", nil))

	out := FormatHistory("AAPL", []recorder.SignalRecord{
		{Action: model.ActionHold, Confidence: 65, Price: 101, AIScore: 5.2, AsOf: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
		{Action: model.ActionBuy, Confidence: 72, Price: 99.5, AIScore: 7.1, AsOf: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	})
	assert.Contains(t, out, "2024-03-02  ⚪ HOLD 65.0% @ 101.00 (AI 5.2)")
	assert.Contains(t, out, "2024-03-01  🟢 BUY 72.0% @ 99.50 (AI 7.1)")
}

func TestFormatWatchlist(t *testing.T) {
	assert.Equal(t, "Watchlist is empty", FormatWatchlist(nil))
	assert.Contains(t, FormatWatchlist([]string{"AAPL", "MSFT"}), "AAPL, MSFT")
}
