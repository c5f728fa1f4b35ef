// Package levels derives support and resistance prices from local extrema of the close series.
package levels

import (
	"fmt"
	"sort"

	"StockPulse/internal/calculator"
	"StockPulse/internal/model"
)

// Params configures turning point detection and level selection.
type Params struct {
	Window           int     `yaml:"window"`
	MinGapPercentage float64 `yaml:"min_gap_percentage"`
	MaxLevels        int     `yaml:"max_levels"`
}

// DefaultParams returns window 20, a 3% gap and three levels per side.
func DefaultParams() Params {
	return Params{Window: 20, MinGapPercentage: 3.0, MaxLevels: model.MaxLevels}
}

func (p Params) Validate() error {
	if p.Window <= 0 {
		return fmt.Errorf("levels window must be positive, got %d", p.Window)
	}
	if p.MinGapPercentage < 0 {
		return fmt.Errorf("min_gap_percentage must not be negative, got %v", p.MinGapPercentage)
	}
	if p.MaxLevels <= 0 || p.MaxLevels > model.MaxLevels {
		return fmt.Errorf("max_levels must be in 1..%d, got %d", model.MaxLevels, p.MaxLevels)
	}
	return nil
}

// Detect finds local extrema over centered windows of 2*window+1 closes and reduces each kind
// to one point per price zone. Supports are scanned oldest first, resistances newest first.
func Detect(points []model.PricePoint, p Params) (supports, resistances []model.TurningPoint, err error) {
	if err := p.Validate(); err != nil {
		return nil, nil, err
	}
	closes := make([]float64, len(points))
	for i, pt := range points {
		closes[i] = pt.Close
	}
	lo, err := calculator.CenteredMin(closes, p.Window)
	if err != nil {
		return nil, nil, err
	}
	hi, err := calculator.CenteredMax(closes, p.Window)
	if err != nil {
		return nil, nil, err
	}

	for i := p.Window; i < len(points)-p.Window; i++ {
		c := closes[i]
		// A flat stretch can satisfy both.
		if lo[i].Valid && c == lo[i].Value {
			supports = append(supports, model.TurningPoint{Price: c, Date: points[i].Date, Kind: model.KindSupport})
		}
		if hi[i].Valid && c == hi[i].Value {
			resistances = append(resistances, model.TurningPoint{Price: c, Date: points[i].Date, Kind: model.KindResistance})
		}
	}

	sort.SliceStable(supports, func(a, b int) bool { return supports[a].Date.Before(supports[b].Date) })
	sort.SliceStable(resistances, func(a, b int) bool { return resistances[a].Date.After(resistances[b].Date) })

	return FilterByGap(supports, p.MinGapPercentage), FilterByGap(resistances, p.MinGapPercentage), nil
}

// FilterByGap walks points in the given order and keeps a point only when its price differs
// from every point kept so far by more than gapPct percent of that kept point's price.
// The result depends on input order.
func FilterByGap(points []model.TurningPoint, gapPct float64) []model.TurningPoint {
	var kept []model.TurningPoint
	for _, p := range points {
		if farFromAll(p.Price, kept, gapPct) {
			kept = append(kept, p)
		}
	}
	return kept
}

func farFromAll(price float64, kept []model.TurningPoint, gapPct float64) bool {
	for _, k := range kept {
		diff := price - k.Price
		if diff < 0 {
			diff = -diff
		}
		if diff <= k.Price*gapPct/100 {
			return false
		}
	}
	return true
}
