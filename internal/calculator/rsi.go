package calculator

import "StockPulse/internal/model"

// CalculateRSI computes RSI over simple trailing averages of gains and losses.
// Each date averages up to `period` close-to-close changes and needs at least one, so the
// first date is undefined. A zero average loss saturates RSI at 100, including a flat window.
func CalculateRSI(closes []float64, period int) ([]model.Float, error) {
	if period <= 0 {
		return nil, errPeriod
	}
	out := make([]model.Float, len(closes))
	for i := 1; i < len(closes); i++ {
		start := i - period + 1
		if start < 1 {
			start = 1
		}
		var gain, loss float64
		for j := start; j <= i; j++ {
			change := closes[j] - closes[j-1]
			if change > 0 {
				gain += change
			} else {
				loss -= change
			}
		}
		n := float64(i - start + 1)
		out[i] = model.Some(rsiFromAverages(gain/n, loss/n))
	}
	return out, nil
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
