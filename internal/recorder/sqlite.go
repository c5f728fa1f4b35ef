package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"StockPulse/internal/model"
)

var numericColumns = map[string]bool{
	"current_price":            true,
	"price_change_value":       true,
	"volume":                   true,
	"volume_change_rate":       true,
	"recent_max_volume_change": true,
	"recent_max_volume_value":  true,
}

// columnDDL renders the report columns with the given real/text type names.
func columnDDL(real, text string) string {
	defs := make([]string, len(Columns))
	for i, c := range Columns {
		typ := text
		if numericColumns[c] {
			typ = real
		}
		defs[i] = c + " " + typ
	}
	return strings.Join(defs, ",\n\t\t\t")
}

// SQLiteRecorder keeps the history of every run in a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// StoredRecord is the ranked summary of one persisted row.
type StoredRecord struct {
	Rank         int
	Name         string
	Code         string
	Action       model.Action
	CurrentPrice float64
	Support1     sql.NullString
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode lets report readers query while a run is written.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	slog.Info("sqlite recorder opened", "path", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			run_id      TEXT PRIMARY KEY,
			started_at  INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			records     INTEGER NOT NULL,
			failures    INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_finished ON analysis_runs(finished_at)`,

		`CREATE TABLE IF NOT EXISTS stock_analysis (
			id      INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id  TEXT NOT NULL REFERENCES analysis_runs(run_id),
			rank_no INTEGER NOT NULL,
			as_of   TEXT,
			` + columnDDL("REAL", "TEXT") + `
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_run ON stock_analysis(run_id, rank_no)`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_code ON stock_analysis(stock_code)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) Name() string { return "sqlite" }

// RecordRun stores the run and its rows in one transaction.
func (r *SQLiteRecorder) RecordRun(ctx context.Context, res *model.RunResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO analysis_runs
		(run_id, started_at, finished_at, records, failures) VALUES (?,?,?,?,?)`,
		res.RunID, res.StartedAt.Unix(), res.FinishedAt.Unix(), len(res.Records), len(res.Failures),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO stock_analysis
		(run_id, rank_no, as_of, `+strings.Join(Columns, ", ")+`)
		VALUES (`+strings.TrimSuffix(strings.Repeat("?,", len(Columns)+3), ",")+`)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for i := range res.Records {
		rec := &res.Records[i]
		args := append([]any{res.RunID, i + 1, rec.AsOf.Format("2006-01-02")}, Values(rec)...)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert %s: %w", rec.Code, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LatestRunID returns the most recently finished run, or "" when none is stored.
func (r *SQLiteRecorder) LatestRunID(ctx context.Context) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`SELECT run_id FROM analysis_runs ORDER BY finished_at DESC, rowid DESC LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return id, err
}

// LoadRun returns the rows of one run in rank order.
func (r *SQLiteRecorder) LoadRun(ctx context.Context, runID string) ([]StoredRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT rank_no, stock_name, stock_code, action, current_price, support_1
		FROM stock_analysis WHERE run_id = ? ORDER BY rank_no`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoredRecord
	for rows.Next() {
		var s StoredRecord
		var action string
		if err := rows.Scan(&s.Rank, &s.Name, &s.Code, &action, &s.CurrentPrice, &s.Support1); err != nil {
			return nil, err
		}
		s.Action = model.Action(action)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	slog.Info("closing sqlite recorder")
	return r.db.Close()
}
