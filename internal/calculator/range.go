package calculator

import (
	"math"

	"StockPulse/internal/model"
)

// CenteredMax returns the maximum over the 2*halfWidth+1 window centered on each index.
// Indices closer than halfWidth to either end are undefined.
func CenteredMax(values []float64, halfWidth int) ([]model.Float, error) {
	return centeredExtreme(values, halfWidth, math.Max)
}

// CenteredMin returns the minimum over the 2*halfWidth+1 window centered on each index.
func CenteredMin(values []float64, halfWidth int) ([]model.Float, error) {
	return centeredExtreme(values, halfWidth, math.Min)
}

func centeredExtreme(values []float64, halfWidth int, pick func(a, b float64) float64) ([]model.Float, error) {
	if halfWidth <= 0 {
		return nil, errPeriod
	}
	out := make([]model.Float, len(values))
	for i := halfWidth; i < len(values)-halfWidth; i++ {
		out[i] = model.Some(extreme(values[i-halfWidth:i+halfWidth+1], pick))
	}
	return out, nil
}

func extreme(window []float64, pick func(a, b float64) float64) float64 {
	v := window[0]
	for _, w := range window[1:] {
		v = pick(v, w)
	}
	return v
}
