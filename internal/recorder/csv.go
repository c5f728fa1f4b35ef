package recorder

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"StockPulse/internal/model"
)

// CSVRecorder rewrites one report file per run, ranked rows under a header.
type CSVRecorder struct {
	path string
}

func NewCSVRecorder(path string) *CSVRecorder { return &CSVRecorder{path: path} }

func (c *CSVRecorder) Name() string { return "csv" }

// RecordRun writes to a temporary file and renames it over the report.
func (c *CSVRecorder) RecordRun(ctx context.Context, res *model.RunResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	tmp := c.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}

	w := csv.NewWriter(f)
	_ = w.Write(Columns)
	for i := range res.Records {
		_ = w.Write(Strings(&res.Records[i]))
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write report: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close report: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replace report: %w", err)
	}
	slog.Info("report written", "path", c.path, "rows", len(res.Records))
	return nil
}

func (c *CSVRecorder) Close() error { return nil }
