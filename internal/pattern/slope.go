package pattern

import "StockPulse/internal/model"

// DefaultSlopePeriods are the moving average lengths reported per record.
var DefaultSlopePeriods = []int{5, 20, 60, 120}

// Slopes compares each moving average value with the previous day's.
// A date is SlopeInsufficient when either value is undefined.
func Slopes(ma []model.Float) []model.Slope {
	out := make([]model.Slope, len(ma))
	for i := range ma {
		if i == 0 || !ma[i].Valid || !ma[i-1].Valid {
			out[i] = model.SlopeInsufficient
			continue
		}
		switch d := ma[i].Value - ma[i-1].Value; {
		case d > 0:
			out[i] = model.SlopeRising
		case d < 0:
			out[i] = model.SlopeFalling
		default:
			out[i] = model.SlopeFlat
		}
	}
	return out
}

// AttachSlopes fills the Slopes map of every snapshot from per-period moving averages.
func AttachSlopes(snaps []model.IndicatorSnapshot, mas map[int][]model.Float) {
	for period, ma := range mas {
		slopes := Slopes(ma)
		for i := range snaps {
			if snaps[i].Slopes == nil {
				snaps[i].Slopes = make(map[int]model.Slope, len(mas))
			}
			snaps[i].Slopes[period] = slopes[i]
		}
	}
}
