// Package recorder persists ranked analysis runs to files, databases and caches.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"StockPulse/internal/model"
)

// Recorder persists one ranked run. Records arrive in rank order.
type Recorder interface {
	RecordRun(ctx context.Context, res *model.RunResult) error
	Name() string
	Close() error
}

// Columns is the report column set shared by the CSV and SQL writers.
var Columns = []string{
	"stock_name", "stock_code", "current_price", "price_change_value", "price_change_status",
	"volume", "volume_change_rate", "action", "candle_pattern", "macd_trend", "rsi_status",
	"volume_trend", "price_vs_bollinger", "slope_5", "slope_20", "slope_60", "slope_120",
	"recent_max_volume_date", "recent_max_volume_change", "recent_max_volume_trend",
	"recent_max_volume_value", "support_1", "support_2", "support_3",
	"resistance_1", "resistance_2", "resistance_3",
}

// Values returns the column values of r in Columns order. Undefined numbers and empty level
// slots are nil.
func Values(r *model.AnalysisRecord) []any {
	vals := []any{
		r.Name, r.Code, r.CurrentPrice, r.PriceChange, r.PriceChangeStatus,
		r.Volume, nullable(r.VolumeChangeRate), string(r.Action), string(r.CandlePattern),
		r.MACDTrend, r.RSIStatus, r.VolumeTrend, r.PriceVsBollinger,
		string(r.Slope5), string(r.Slope20), string(r.Slope60), string(r.Slope120),
		maxVolumeDate(r.MaxVolumeDay), r.MaxVolumeDay.PctChange, r.MaxVolumeDay.Trend, r.MaxVolumeDay.Volume,
	}
	for _, s := range r.Supports {
		vals = append(vals, levelValue(s))
	}
	for _, s := range r.Resistances {
		vals = append(vals, levelValue(s))
	}
	return vals
}

// Strings renders Values as report text: two decimals for prices and changes.
func Strings(r *model.AnalysisRecord) []string {
	vals := Values(r)
	out := make([]string, len(vals))
	for i, v := range vals {
		switch x := v.(type) {
		case nil:
			out[i] = ""
		case string:
			out[i] = x
		case float64:
			if Columns[i] == "volume" || Columns[i] == "recent_max_volume_value" {
				out[i] = strconv.FormatFloat(x, 'f', -1, 64)
			} else {
				out[i] = model.FormatFixed2(x)
			}
		default:
			out[i] = fmt.Sprint(x)
		}
	}
	return out
}

func nullable(f model.Float) any {
	if !f.Valid {
		return nil
	}
	return f.Value
}

func levelValue(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func maxVolumeDate(d model.MaxVolumeDay) any {
	if d.Date.IsZero() {
		return nil
	}
	return d.Date.Format("2006-01-02")
}

// Multi fans a run out to several recorders. Every recorder is attempted; failures are
// reported through OnError and joined.
type Multi struct {
	Recorders []Recorder
	OnError   func(name string, err error)
}

func NewMulti(recorders ...Recorder) *Multi { return &Multi{Recorders: recorders} }

func (m *Multi) Name() string { return "multi" }

func (m *Multi) RecordRun(ctx context.Context, res *model.RunResult) error {
	var errs []error
	for _, r := range m.Recorders {
		if err := r.RecordRun(ctx, res); err != nil {
			slog.Error("record run failed", "writer", r.Name(), "run_id", res.RunID, "err", err)
			if m.OnError != nil {
				m.OnError(r.Name(), err)
			}
			errs = append(errs, fmt.Errorf("%s: %w", r.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (m *Multi) Close() error {
	var errs []error
	for _, r := range m.Recorders {
		if err := r.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Name(), err))
		}
	}
	return errors.Join(errs...)
}
