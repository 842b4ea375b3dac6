// Package recorder persists signal history for later review.
package recorder

import (
	"time"

	"github.com/google/uuid"

	"SignalSentinel/internal/model"
)

// SignalRecord is one stored signal row.
type SignalRecord struct {
	ID          string
	RunID       string
	Symbol      string
	Action      model.Action
	Confidence  float64
	Price       float64
	TargetPrice float64
	StopLoss    float64
	AIScore     float64
	Breakdown   model.Breakdown
	Reasoning   string
	AsOf        time.Time // signal timestamp
	RecordedAt  time.Time
}

// RunSummary records one scheduled or manual analysis pass.
type RunSummary struct {
	RunID    string
	Trigger  string // "cron", "command", "cli"
	Started  time.Time
	Finished time.Time
	Symbols  int
	Failures int
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordSignal(runID string, sig *model.Signal) error
	RecordRun(run *RunSummary) error
	RecentSignals(symbol string, limit int) ([]SignalRecord, error)
	Close() error
}

// NewRunID returns a fresh identifier grouping the signals of one pass.
func NewRunID() string {
	return uuid.NewString()
}
