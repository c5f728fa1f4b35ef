package analyzer

import (
	"errors"
	"fmt"
	"math"

	"StockPulse/internal/model"
)

var (
	ErrEmptySeries    = errors.New("series has no rows")
	ErrUnorderedDates = errors.New("dates are not strictly increasing")
	ErrInvalidPrice   = errors.New("price must be positive and finite")
	ErrInvalidVolume  = errors.New("volume must be finite and not negative")
)

// Validate checks the input contract of one series.
func Validate(s *model.SymbolSeries) error {
	if len(s.Points) == 0 {
		return ErrEmptySeries
	}
	for i, p := range s.Points {
		day := p.Date.Format("2006-01-02")
		if i > 0 && !p.Date.After(s.Points[i-1].Date) {
			return fmt.Errorf("%w: row %d (%s)", ErrUnorderedDates, i, day)
		}
		for _, v := range [...]float64{p.Open, p.High, p.Low, p.Close} {
			if !finite(v) || v <= 0 {
				return fmt.Errorf("%w: row %d (%s)", ErrInvalidPrice, i, day)
			}
		}
		if !finite(p.Volume) || p.Volume < 0 {
			return fmt.Errorf("%w: row %d (%s)", ErrInvalidVolume, i, day)
		}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
