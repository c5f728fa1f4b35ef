package strategy

import (
	"fmt"

	"StockPulse/internal/model"
)

// Compose builds the rationale for a decision:
// "<max volume day trend>, <volume>, <macd trend>, <description>, price <direction> (<pct>%)".
// The description names the most specific structural signal present.
func Compose(s *Signals, r Rule) string {
	direction := "falling"
	if s.PctChange > 0 {
		direction = "rising"
	}
	return fmt.Sprintf("%s, %s, %s, %s, price %s (%+.2f%%)",
		maxVolumeTrend(s), volumeComment(s.Volume), macdTrend(s), describe(s, r), direction, s.PctChange)
}

func describe(s *Signals, r Rule) string {
	z := s.Zones
	switch {
	case s.Pullback.Detected():
		return "pullback pattern detected"
	case z.BelowLower:
		return fmt.Sprintf("outside lower band %.2f", s.Lower.Value)
	case z.AboveUpper:
		return fmt.Sprintf("outside upper band %.2f", s.Upper.Value)
	case z.AtLower:
		return fmt.Sprintf("near lower band %.2f", s.Lower.Value)
	case z.AtMiddle:
		return fmt.Sprintf("near middle band %.2f", s.Middle.Value)
	case z.AtUpper:
		return fmt.Sprintf("near upper band %.2f", s.Upper.Value)
	case s.Volume == model.VolumeHigh && s.PctChange > 0:
		return "volume surge may strengthen the trend"
	case s.Volume == model.VolumeHigh:
		return "volume surge, check for a reversal"
	case s.Volume == model.VolumeLow && s.PctChange < -3:
		return "volume declining after a large drop, rebound possible"
	case s.Volume == model.VolumeLow:
		return "trend may be weakening"
	default:
		return r.Rationale
	}
}

func volumeComment(v model.VolumeState) string {
	switch v {
	case model.VolumeHigh:
		return "volume surge"
	case model.VolumeLow:
		return "volume declining"
	default:
		return "volume steady"
	}
}

func macdTrend(s *Signals) string {
	if s.Uptrend() {
		return "uptrend"
	}
	return "downtrend"
}

func maxVolumeTrend(s *Signals) string {
	if s.MaxVolume.Trend == "" {
		return "no volume leader"
	}
	return "max volume day " + s.MaxVolume.Trend
}
