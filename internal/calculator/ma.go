package calculator

import (
	"errors"

	"StockPulse/internal/model"
)

var (
	errPeriod       = errors.New("period must be positive")
	errSamplePeriod = errors.New("sample statistics need a period of at least 2")
)

// RollingMean computes the trailing simple moving average over the given period.
// Positions before period-1 are undefined.
func RollingMean(values []float64, period int) ([]model.Float, error) {
	if period <= 0 {
		return nil, errPeriod
	}
	out := make([]model.Float, len(values))
	for i := period - 1; i < len(values); i++ {
		out[i] = model.Some(mean(values[i-period+1 : i+1]))
	}
	return out, nil
}

// EMA computes an exponential moving average with alpha = 2/(span+1), seeded from the first
// observation without bias correction. Every position is defined.
func EMA(values []float64, span int) ([]float64, error) {
	if span <= 0 {
		return nil, errPeriod
	}
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out, nil
	}
	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out, nil
}

func mean(window []float64) float64 {
	sum := 0.0
	for _, v := range window {
		sum += v
	}
	return sum / float64(len(window))
}
