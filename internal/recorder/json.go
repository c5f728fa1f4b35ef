package recorder

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"StockPulse/internal/model"
)

// JSONRecorder keeps the latest ranked run as a JSON snapshot file.
type JSONRecorder struct {
	path string
}

func NewJSONRecorder(path string) *JSONRecorder { return &JSONRecorder{path: path} }

func (j *JSONRecorder) Name() string { return "json" }

func (j *JSONRecorder) RecordRun(_ context.Context, res *model.RunResult) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
		return err
	}
	tmp := j.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, j.path)
}

func (j *JSONRecorder) Close() error { return nil }

// LoadJSONRun reads a snapshot written by JSONRecorder. Returns nil if the file doesn't exist.
func LoadJSONRun(path string) (*model.RunResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var res model.RunResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &res, nil
}
