package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"StockPulse/internal/model"
)

const postgresTable = "stock_analysis"

// PostgresRecorder replaces the shared analysis table with each new run.
type PostgresRecorder struct {
	db  *sql.DB
	now func() time.Time
}

// NewPostgresRecorder connects with a lib/pq DSN and creates the table if needed.
func NewPostgresRecorder(ctx context.Context, dsn string) (*PostgresRecorder, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	_, err = db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+pq.QuoteIdentifier(postgresTable)+` (
			`+columnDDL("DOUBLE PRECISION", "TEXT")+`,
			upload_date TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}
	slog.Info("postgres recorder connected")
	return &PostgresRecorder{db: db, now: time.Now}, nil
}

func (p *PostgresRecorder) Name() string { return "postgres" }

// RecordRun deletes the previous upload and bulk-copies the ranked rows in one transaction.
func (p *PostgresRecorder) RecordRun(ctx context.Context, res *model.RunResult) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM `+pq.QuoteIdentifier(postgresTable)); err != nil {
		return fmt.Errorf("clear table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(postgresTable, append(Columns, "upload_date")...))
	if err != nil {
		return fmt.Errorf("prepare copy: %w", err)
	}
	uploaded := p.now()
	for i := range res.Records {
		if _, err := stmt.ExecContext(ctx, append(Values(&res.Records[i]), uploaded)...); err != nil {
			stmt.Close()
			return fmt.Errorf("copy %s: %w", res.Records[i].Code, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return fmt.Errorf("flush copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return fmt.Errorf("close copy: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	slog.Info("postgres upload complete", "run_id", res.RunID, "rows", len(res.Records))
	return nil
}

func (p *PostgresRecorder) Close() error { return p.db.Close() }
