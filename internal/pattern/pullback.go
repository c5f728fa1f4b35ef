package pattern

import (
	"fmt"
	"math"
	"slices"

	"StockPulse/internal/model"
)

// PullbackParams configures the pullback detector.
type PullbackParams struct {
	RecentDays         int     `yaml:"recent_days"`
	VolumeThreshold    float64 `yaml:"volume_threshold"`
	AvgVolumeThreshold float64 `yaml:"avg_volume_threshold"`
	Tolerance          float64 `yaml:"tolerance"`
	MaxDeviation       float64 `yaml:"max_deviation"`
}

// DefaultPullbackParams returns a 10-day window, 1.5x/2x volume surge and 5%/10% proximity.
func DefaultPullbackParams() PullbackParams {
	return PullbackParams{
		RecentDays:         10,
		VolumeThreshold:    1.5,
		AvgVolumeThreshold: 2,
		Tolerance:          0.05,
		MaxDeviation:       0.1,
	}
}

func (p PullbackParams) Validate() error {
	if p.RecentDays < 3 {
		return fmt.Errorf("pullback recent_days must be at least 3, got %d", p.RecentDays)
	}
	if p.VolumeThreshold <= 0 || p.AvgVolumeThreshold <= 0 {
		return fmt.Errorf("pullback volume thresholds must be positive")
	}
	if p.Tolerance < 0 || p.MaxDeviation < 0 {
		return fmt.Errorf("pullback tolerance and max_deviation must not be negative")
	}
	return nil
}

const (
	minPullbackRows = 3
	minWindowDays   = 5
	lowerBandSlack  = 0.05
)

// DetectPullback looks for a retracement after a recent peak that is turning up again on
// volume. last is the indicator snapshot of the final date in points.
func DetectPullback(points []model.PricePoint, last model.IndicatorSnapshot, p PullbackParams) model.PullbackResult {
	if len(points) > p.RecentDays {
		points = points[len(points)-p.RecentDays:]
	}
	if len(points) < minPullbackRows {
		return model.PullbackResult{
			Kind:    model.PullbackInsufficient,
			Message: fmt.Sprintf("insufficient data: %d rows, need %d", len(points), minPullbackRows),
		}
	}

	n := len(points)
	closes := make([]float64, n)
	volumes := make([]float64, n)
	for i, pt := range points {
		closes[i] = pt.Close
		volumes[i] = pt.Volume
	}
	today, yesterday := closes[n-1], closes[n-2]

	declined := consecutiveDropsAfterPeak(closes) >= 2

	recentMin := slices.Min(closes[max(0, n-minWindowDays):])
	nearMin := yesterday <= recentMin*(1+p.Tolerance) &&
		math.Abs(today-recentMin)/recentMin <= p.MaxDeviation

	rising := today > yesterday

	avgVolume := 0.0
	for _, v := range volumes[:n-1] {
		avgVolume += v
	}
	avgVolume /= float64(n - 1)
	surge := volumes[n-1] > volumes[n-2]*p.VolumeThreshold ||
		volumes[n-1] > avgVolume*p.AvgVolumeThreshold

	band := bandGate(today, last)

	switch {
	case declined && band && nearMin && rising && surge:
		return model.PullbackResult{Kind: model.PullbackStrict, Message: "pullback detected: trend and band conditions met"}
	case declined && band && rising && surge:
		return model.PullbackResult{Kind: model.PullbackRelaxed, Message: "pullback detected without the low proximity check"}
	default:
		return model.PullbackResult{Kind: model.PullbackNone, Message: "no pullback: conditions not met"}
	}
}

// consecutiveDropsAfterPeak counts the daily declines that immediately follow the window
// maximum. With a repeated maximum the last occurrence is the peak.
func consecutiveDropsAfterPeak(closes []float64) int {
	peak := 0
	for i, c := range closes {
		if c >= closes[peak] {
			peak = i
		}
	}
	drops := 0
	for i := peak + 1; i < len(closes) && closes[i] < closes[i-1]; i++ {
		drops++
	}
	return drops
}

// bandGate requires close at or above the middle band in an uptrend and within the lower
// band's slack otherwise. An undefined band never passes.
func bandGate(price float64, s model.IndicatorSnapshot) bool {
	if s.Uptrend() {
		return s.MiddleBand.Valid && price >= s.MiddleBand.Value
	}
	if !s.LowerBand.Valid {
		return false
	}
	lo := s.LowerBand.Value
	return price >= lo*(1-lowerBandSlack) && price <= lo*(1+lowerBandSlack)
}
