package strategy

import (
	"math"

	"StockPulse/internal/model"
)

const (
	highVolumeRatio = 1.5
	lowVolumeRatio  = 0.8

	// VolumeWindow is the number of trailing days, today included, behind the volume state.
	VolumeWindow = 5
)

// Signals is everything the rule table looks at for the latest date of one symbol.
type Signals struct {
	Price     float64
	RSI       model.Float
	MACD      model.Float
	Signal    model.Float
	Upper     model.Float
	Middle    model.Float
	Lower     model.Float
	Volume    model.VolumeState
	PctChange float64
	Candle    model.CandlePattern
	Slope5    model.Slope
	Slope20   model.Slope
	Pullback  model.PullbackResult
	MaxVolume model.MaxVolumeDay

	Zones Zones
}

// Zones places the price relative to the Bollinger bands using a dynamic margin.
type Zones struct {
	Margin     float64
	AboveUpper bool
	BelowLower bool
	AtUpper    bool
	AtMiddle   bool
	AtLower    bool
}

// ComputeZones uses a margin of max(1% of the middle band, 10% of the band width).
// Undefined bands place the price in no zone.
func ComputeZones(price float64, upper, middle, lower model.Float) Zones {
	if !upper.Valid || !middle.Valid || !lower.Valid {
		return Zones{}
	}
	m := math.Max(0.01*middle.Value, 0.1*(upper.Value-lower.Value))
	within := func(band float64) bool { return price >= band-m && price <= band+m }
	return Zones{
		Margin:     m,
		AboveUpper: price > upper.Value+m,
		BelowLower: price < lower.Value-m,
		AtUpper:    within(upper.Value),
		AtMiddle:   within(middle.Value),
		AtLower:    within(lower.Value),
	}
}

// ClassifyVolume compares today's volume, the last element of recent, with the mean of the
// trailing VolumeWindow values.
func ClassifyVolume(recent []float64) model.VolumeState {
	if len(recent) == 0 {
		return model.VolumeNormal
	}
	if len(recent) > VolumeWindow {
		recent = recent[len(recent)-VolumeWindow:]
	}
	sum := 0.0
	for _, v := range recent {
		sum += v
	}
	avg := sum / float64(len(recent))
	today := recent[len(recent)-1]
	switch {
	case today > avg*highVolumeRatio:
		return model.VolumeHigh
	case today < avg*lowVolumeRatio:
		return model.VolumeLow
	default:
		return model.VolumeNormal
	}
}

// Uptrend reports MACD above its signal line.
func (s *Signals) Uptrend() bool {
	return s.MACD.Valid && s.Signal.Valid && s.MACD.Value > s.Signal.Value
}

func (s *Signals) rsi(cond func(v float64) bool) bool {
	return s.RSI.Valid && cond(s.RSI.Value)
}

func (s *Signals) high() bool { return s.Volume == model.VolumeHigh }
func (s *Signals) low() bool  { return s.Volume == model.VolumeLow }

func (s *Signals) slopesAgree(dir model.Slope) bool {
	return s.Slope5 == dir && s.Slope20 == dir
}
