package calculator

import (
	"math"

	"StockPulse/internal/model"
)

// RollingStd computes the trailing sample standard deviation (n-1 denominator).
func RollingStd(values []float64, period int) ([]model.Float, error) {
	if period < 2 {
		return nil, errSamplePeriod
	}
	out := make([]model.Float, len(values))
	for i := period - 1; i < len(values); i++ {
		window := values[i-period+1 : i+1]
		m := mean(window)
		ss := 0.0
		for _, v := range window {
			ss += (v - m) * (v - m)
		}
		out[i] = model.Some(math.Sqrt(ss / float64(period-1)))
	}
	return out, nil
}

// Bands holds Bollinger band series aligned with the input.
type Bands struct {
	Upper  []model.Float
	Middle []model.Float
	Lower  []model.Float
}

// CalculateBollinger computes mean +/- k standard deviations over a trailing window.
func CalculateBollinger(closes []float64, period int, k float64) (*Bands, error) {
	middle, err := RollingMean(closes, period)
	if err != nil {
		return nil, err
	}
	std, err := RollingStd(closes, period)
	if err != nil {
		return nil, err
	}
	b := &Bands{
		Upper:  make([]model.Float, len(closes)),
		Middle: middle,
		Lower:  make([]model.Float, len(closes)),
	}
	for i := range closes {
		if !middle[i].Valid || !std[i].Valid {
			continue
		}
		b.Upper[i] = model.Some(middle[i].Value + k*std[i].Value)
		b.Lower[i] = model.Some(middle[i].Value - k*std[i].Value)
	}
	return b, nil
}
