package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalSentinel/internal/model"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATA_PROVIDER", "mock")
	t.Setenv("LOG_LEVEL", "error")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "absent.yaml")))
	err := root.Execute()
	return out.String(), err
}

func TestAnalyzeCmd_JSON(t *testing.T) {
	out, err := execute(t, "analyze", "aapl")
	require.NoError(t, err)

	var sig model.Signal
	require.NoError(t, json.Unmarshal([]byte(out), &sig))
	assert.Equal(t, "AAPL", sig.Symbol)
	assert.Contains(t, []model.Action{model.ActionBuy, model.ActionSell, model.ActionHold}, sig.Action)
	assert.NotEmpty(t, sig.Reasoning)
}

func TestAnalyzeCmd_Report(t *testing.T) {
	out, err := execute(t, "analyze", "AAPL", "MSFT", "--report")
	require.NoError(t, err)
	assert.Contains(t, out, "<b>AAPL</b>")
	assert.Contains(t, out, "<b>MSFT</b>")
}

func TestAnalyzeCmd_EmptyWatchlist(t *testing.T) {
	_, err := execute(t, "analyze")
	assert.ErrorContains(t, err, "watchlist is empty")
}

func TestAnalyzeCmd_WatchlistFromEnv(t *testing.T) {
	t.Setenv("WATCHLIST", "NVDA")
	out, err := execute(t, "analyze", "--report")
	require.NoError(t, err)
	assert.Contains(t, out, "<b>NVDA</b>")
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "sentinel dev\n", out)
}
