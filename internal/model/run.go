package model

import (
	"encoding/json"
	"errors"
	"time"
)

// SymbolFailure records why a symbol produced no record.
type SymbolFailure struct {
	Name string `json:"name"`
	Code string `json:"code"`
	Err  error  `json:"-"`
}

type failureJSON struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MarshalJSON keeps the error as its message text.
func (f SymbolFailure) MarshalJSON() ([]byte, error) {
	v := failureJSON{Name: f.Name, Code: f.Code}
	if f.Err != nil {
		v.Message = f.Err.Error()
	}
	return json.Marshal(v)
}

func (f *SymbolFailure) UnmarshalJSON(data []byte) error {
	var v failureJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.Name, f.Code, f.Err = v.Name, v.Code, nil
	if v.Message != "" {
		f.Err = errors.New(v.Message)
	}
	return nil
}

func (f SymbolFailure) Error() string {
	if f.Err == nil {
		return f.Name
	}
	return f.Name + " (" + f.Code + "): " + f.Err.Error()
}

// RunResult is the complete output of one analysis run.
type RunResult struct {
	RunID      string           `json:"run_id"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Records    []AnalysisRecord `json:"records"`
	Failures   []SymbolFailure  `json:"failures"`
}
