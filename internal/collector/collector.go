// Package collector loads daily price histories for the analysis pipeline.
package collector

import (
	"context"
	"time"

	"StockPulse/internal/model"
)

// Source loads every symbol's history for one run. Symbols that cannot be read are
// returned as failures; the error is reserved for problems that stop the whole load.
type Source interface {
	Load(ctx context.Context) ([]model.SymbolSeries, []model.SymbolFailure, error)
	Name() string
}

// StaticSource returns fixed series for development and testing.
type StaticSource struct {
	Series []model.SymbolSeries
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) Load(ctx context.Context) ([]model.SymbolSeries, []model.SymbolFailure, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	out := make([]model.SymbolSeries, len(s.Series))
	for i, series := range s.Series {
		out[i] = series
		out[i].Points = append([]model.PricePoint(nil), series.Points...)
	}
	return out, nil, nil
}

// SyntheticSeries builds a gently trending series of count trading days ending at end.
func SyntheticSeries(name, code string, basePrice float64, count int, end time.Time) model.SymbolSeries {
	s := model.SymbolSeries{Name: name, Code: code, Points: make([]model.PricePoint, count)}
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		s.Points[i] = model.PricePoint{
			Date:   end.AddDate(0, 0, -(count - 1 - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return s
}
