package levels

import (
	"sort"

	"StockPulse/internal/model"
)

// Select pools both kinds of turning points and picks the nearest levels on each side of the
// current price. Points at exactly the current price are dropped and repeated prices keep their
// first occurrence, so each side is strictly monotonic.
func Select(current float64, supports, resistances []model.TurningPoint, maxLevels int) model.SupportResistance {
	var below, above []model.Level
	for _, group := range [][]model.TurningPoint{supports, resistances} {
		for _, p := range group {
			lvl := model.Level{Price: p.Price, Date: p.Date}
			switch {
			case p.Price < current:
				below = append(below, lvl)
			case p.Price > current:
				above = append(above, lvl)
			}
		}
	}

	sort.SliceStable(below, func(i, j int) bool { return below[i].Price > below[j].Price })
	sort.SliceStable(above, func(i, j int) bool { return above[i].Price < above[j].Price })

	return model.SupportResistance{
		Supports:    nearest(below, maxLevels),
		Resistances: nearest(above, maxLevels),
	}
}

func nearest(sorted []model.Level, limit int) []model.Level {
	out := make([]model.Level, 0, limit)
	for _, lvl := range sorted {
		if len(out) == limit {
			break
		}
		if len(out) > 0 && out[len(out)-1].Price == lvl.Price {
			continue
		}
		out = append(out, lvl)
	}
	return out
}
