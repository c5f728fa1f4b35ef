// Package pattern classifies candle shapes, moving average slopes and pullback structures.
package pattern

import (
	"math"

	"StockPulse/internal/model"
)

// ClassifyCandle labels one bar. Shape rules are checked in a fixed order; a bar with no
// distinctive shape falls back to the comparison with the prior close.
func ClassifyCandle(pt model.PricePoint, prevClose float64) model.CandlePattern {
	body := math.Abs(pt.Close - pt.Open)
	upper := pt.High - math.Max(pt.Close, pt.Open)
	lower := math.Min(pt.Close, pt.Open) - pt.Low
	wicks := upper + lower

	switch {
	case pt.Close > pt.Open && body > wicks*2:
		return model.CandleLargeBullish
	case lower > body*2 && lower > upper:
		return model.CandleBottomingWick
	case upper > body*2 && upper > lower && pt.Close < pt.Open:
		return model.CandleSellingPressure
	case body < wicks*0.3:
		return model.CandleIndecision
	case pt.Close > prevClose:
		return model.CandleBullish
	case pt.Close < prevClose:
		return model.CandleBearish
	default:
		return model.CandleNeutral
	}
}

// Candles labels every date. The first date has no prior close and is CandleNone.
func Candles(points []model.PricePoint) []model.CandlePattern {
	out := make([]model.CandlePattern, len(points))
	for i := range points {
		if i == 0 {
			out[i] = model.CandleNone
			continue
		}
		out[i] = ClassifyCandle(points[i], points[i-1].Close)
	}
	return out
}
