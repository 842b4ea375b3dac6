package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"SignalSentinel/internal/logging"
	"SignalSentinel/internal/model"
)

// SQLiteRecorder persists signal history to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *logging.Logger
	now    func() time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *logging.Logger) (*SQLiteRecorder, error) {
	if logger == nil {
		logger = logging.NewSilent()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the bot writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger, now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signals (
			id           TEXT PRIMARY KEY,
			run_id       TEXT NOT NULL,
			symbol       TEXT NOT NULL,
			recorded_at  INTEGER NOT NULL,
			as_of        INTEGER NOT NULL,
			action       TEXT NOT NULL,
			confidence   REAL,
			price        REAL,
			target_price REAL,
			stop_loss    REAL,
			ai_score     REAL,
			technical    REAL,
			sentiment    REAL,
			fundamental  REAL,
			volume       REAL,
			combined     REAL,
			reasoning    TEXT,
			payload      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_symbol_ts ON signals(symbol, recorded_at)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_run ON signals(run_id)`,

		`CREATE TABLE IF NOT EXISTS analysis_runs (
			run_id      TEXT PRIMARY KEY,
			trigger     TEXT,
			started_at  INTEGER NOT NULL,
			finished_at INTEGER,
			symbols     INTEGER,
			failures    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON analysis_runs(started_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordSignal stores sig, including its full JSON form, under runID.
func (r *SQLiteRecorder) RecordSignal(runID string, sig *model.Signal) error {
	payload, err := json.Marshal(sig)
	if err != nil {
		return fmt.Errorf("encode signal: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	b := sig.Breakdown
	_, err = r.db.Exec(`INSERT INTO signals
		(id, run_id, symbol, recorded_at, as_of, action, confidence, price,
		 target_price, stop_loss, ai_score,
		 technical, sentiment, fundamental, volume, combined,
		 reasoning, payload)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		uuid.NewString(), runID, strings.ToUpper(sig.Symbol), r.now().UnixNano(), sig.Timestamp.Unix(),
		string(sig.Action), sig.Confidence, sig.Price,
		sig.TargetPrice, sig.StopLoss, sig.AIScore,
		b.Technical, b.Sentiment, b.Fundamental, b.Volume, b.Combined,
		sig.Reasoning, string(payload),
	)
	return err
}

// RecordRun stores a pass summary, replacing an earlier row with the same id.
func (r *SQLiteRecorder) RecordRun(run *RunSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT OR REPLACE INTO analysis_runs
		(run_id, trigger, started_at, finished_at, symbols, failures)
		VALUES (?,?,?,?,?,?)`,
		run.RunID, run.Trigger, run.Started.Unix(), run.Finished.Unix(), run.Symbols, run.Failures,
	)
	return err
}

// RecentSignals returns up to limit signals for symbol, newest first.
func (r *SQLiteRecorder) RecentSignals(symbol string, limit int) ([]SignalRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(`SELECT id, run_id, symbol, recorded_at, as_of, action,
		confidence, price, target_price, stop_loss, ai_score,
		technical, sentiment, fundamental, volume, combined, reasoning
		FROM signals WHERE symbol = ? ORDER BY recorded_at DESC LIMIT ?`,
		strings.ToUpper(symbol), limit)
	if err != nil {
		return nil, fmt.Errorf("query signals: %w", err)
	}
	defer rows.Close()

	var out []SignalRecord
	for rows.Next() {
		var (
			rec            SignalRecord
			recorded, asOf int64
			action         string
		)
		b := &rec.Breakdown
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Symbol, &recorded, &asOf, &action,
			&rec.Confidence, &rec.Price, &rec.TargetPrice, &rec.StopLoss, &rec.AIScore,
			&b.Technical, &b.Sentiment, &b.Fundamental, &b.Volume, &b.Combined, &rec.Reasoning); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		rec.Action = model.Action(action)
		rec.RecordedAt = time.Unix(0, recorded).UTC()
		rec.AsOf = time.Unix(asOf, 0).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
