package model

import (
	"encoding/json"
	"time"
)

// Float is a derived value that is undefined while history is insufficient.
type Float struct {
	Value float64
	Valid bool
}

// Some wraps a defined value.
func Some(v float64) Float { return Float{Value: v, Valid: true} }

// None is the undefined value.
var None = Float{}

func (f Float) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

func (f *Float) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = None
		return nil
	}
	if err := json.Unmarshal(data, &f.Value); err != nil {
		return err
	}
	f.Valid = true
	return nil
}

// Slope is the day-over-day direction of a moving average.
type Slope string

const (
	SlopeRising       Slope = "rising"
	SlopeFalling      Slope = "falling"
	SlopeFlat         Slope = "flat"
	SlopeInsufficient Slope = "insufficient data"
)

// IndicatorSnapshot holds the derived values for one date of a series.
type IndicatorSnapshot struct {
	Date             time.Time     `json:"date"`
	RSI              Float         `json:"rsi"`
	MACD             Float         `json:"macd"`
	Signal           Float         `json:"signal"`
	UpperBand        Float         `json:"upper_band"`
	MiddleBand       Float         `json:"middle_band"`
	LowerBand        Float         `json:"lower_band"`
	VolumeChangeRate Float         `json:"volume_change_rate"`
	VolumeAvg        Float         `json:"volume_avg"`
	PctChange        float64       `json:"pct_change"`
	Slopes           map[int]Slope `json:"slopes"`
}

// SlopeFor returns the slope for the given MA period, or SlopeInsufficient if it was not computed.
func (s *IndicatorSnapshot) SlopeFor(period int) Slope {
	if v, ok := s.Slopes[period]; ok {
		return v
	}
	return SlopeInsufficient
}

// Uptrend reports whether MACD is above its signal line.
func (s *IndicatorSnapshot) Uptrend() bool {
	return s.MACD.Valid && s.Signal.Valid && s.MACD.Value > s.Signal.Value
}
