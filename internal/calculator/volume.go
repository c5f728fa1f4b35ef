package calculator

import "StockPulse/internal/model"

// VolumeChangeRate returns the percent change of volume versus the prior day.
// Undefined on the first day and whenever the prior volume is zero.
func VolumeChangeRate(volumes []float64) []model.Float {
	out := make([]model.Float, len(volumes))
	for i := 1; i < len(volumes); i++ {
		prev := volumes[i-1]
		if prev == 0 {
			continue
		}
		out[i] = model.Some((volumes[i] - prev) / prev * 100)
	}
	return out
}

// PercentChange returns the close-to-close percent change, 0 on the first day.
func PercentChange(closes []float64) []float64 {
	out := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		out[i] = (closes[i] - closes[i-1]) / closes[i-1] * 100
	}
	return out
}
