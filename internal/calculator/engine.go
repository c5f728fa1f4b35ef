package calculator

import (
	"fmt"

	"StockPulse/internal/model"
)

// Params configures the indicator windows.
type Params struct {
	RSIPeriod    int     `yaml:"rsi_period"`
	MACDShort    int     `yaml:"macd_short"`
	MACDLong     int     `yaml:"macd_long"`
	MACDSignal   int     `yaml:"macd_signal"`
	BandPeriod   int     `yaml:"band_period"`
	BandK        float64 `yaml:"band_k"`
	VolumeWindow int     `yaml:"volume_window"`
}

// DefaultParams returns RSI(14), MACD(12,26,9), Bollinger(20,2) and a 5-day volume mean.
func DefaultParams() Params {
	return Params{
		RSIPeriod:    14,
		MACDShort:    12,
		MACDLong:     26,
		MACDSignal:   9,
		BandPeriod:   20,
		BandK:        2,
		VolumeWindow: 5,
	}
}

// Validate checks that every window is usable.
func (p Params) Validate() error {
	if p.RSIPeriod <= 0 {
		return fmt.Errorf("rsi_period must be positive, got %d", p.RSIPeriod)
	}
	if p.MACDShort <= 0 || p.MACDSignal <= 0 || p.MACDShort >= p.MACDLong {
		return fmt.Errorf("invalid macd spans %d/%d/%d", p.MACDShort, p.MACDLong, p.MACDSignal)
	}
	if p.BandPeriod < 2 {
		return fmt.Errorf("band_period must be at least 2, got %d", p.BandPeriod)
	}
	if p.BandK <= 0 {
		return fmt.Errorf("band_k must be positive, got %v", p.BandK)
	}
	if p.VolumeWindow <= 0 {
		return fmt.Errorf("volume_window must be positive, got %d", p.VolumeWindow)
	}
	return nil
}

// Compute derives one snapshot per date of the series. Slopes are left empty for the
// pattern stage to fill.
func Compute(series *model.SymbolSeries, p Params) ([]model.IndicatorSnapshot, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	closes := series.Closes()
	volumes := series.Volumes()

	rsi, err := CalculateRSI(closes, p.RSIPeriod)
	if err != nil {
		return nil, fmt.Errorf("rsi: %w", err)
	}
	macd, signal, err := CalculateMACD(closes, p.MACDShort, p.MACDLong, p.MACDSignal)
	if err != nil {
		return nil, fmt.Errorf("macd: %w", err)
	}
	bands, err := CalculateBollinger(closes, p.BandPeriod, p.BandK)
	if err != nil {
		return nil, fmt.Errorf("bollinger: %w", err)
	}
	volAvg, err := RollingMean(volumes, p.VolumeWindow)
	if err != nil {
		return nil, fmt.Errorf("volume average: %w", err)
	}
	volRate := VolumeChangeRate(volumes)
	pct := PercentChange(closes)

	out := make([]model.IndicatorSnapshot, len(closes))
	for i, pt := range series.Points {
		out[i] = model.IndicatorSnapshot{
			Date:             pt.Date,
			RSI:              rsi[i],
			MACD:             macd[i],
			Signal:           signal[i],
			UpperBand:        bands.Upper[i],
			MiddleBand:       bands.Middle[i],
			LowerBand:        bands.Lower[i],
			VolumeChangeRate: volRate[i],
			VolumeAvg:        volAvg[i],
			PctChange:        pct[i],
		}
	}
	return out, nil
}

// MovingAverages computes a trailing mean series per period.
func MovingAverages(closes []float64, periods []int) (map[int][]model.Float, error) {
	out := make(map[int][]model.Float, len(periods))
	for _, period := range periods {
		ma, err := RollingMean(closes, period)
		if err != nil {
			return nil, fmt.Errorf("ma%d: %w", period, err)
		}
		out[period] = ma
	}
	return out, nil
}
