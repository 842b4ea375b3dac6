package recorder

import "SignalSentinel/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSignal(_ string, _ *model.Signal) error { return nil }

func (n *NoopRecorder) RecordRun(_ *RunSummary) error { return nil }

func (n *NoopRecorder) RecentSignals(_ string, _ int) ([]SignalRecord, error) { return nil, nil }

func (n *NoopRecorder) Close() error { return nil }
