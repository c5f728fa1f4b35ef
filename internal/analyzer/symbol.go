package analyzer

import (
	"fmt"
	"math"

	"StockPulse/internal/calculator"
	"StockPulse/internal/levels"
	"StockPulse/internal/model"
	"StockPulse/internal/pattern"
	"StockPulse/internal/strategy"
)

const (
	maxVolumeLookback = 5
	insufficientData  = "insufficient data"
)

// AnalyzeSymbol runs the full pipeline for one series and returns its record.
func (a *Analyzer) AnalyzeSymbol(s *model.SymbolSeries) (model.AnalysisRecord, error) {
	if err := Validate(s); err != nil {
		return model.AnalysisRecord{}, err
	}

	snaps, err := calculator.Compute(s, a.opts.Indicators)
	if err != nil {
		return model.AnalysisRecord{}, fmt.Errorf("indicators: %w", err)
	}
	mas, err := calculator.MovingAverages(s.Closes(), a.opts.SlopePeriods)
	if err != nil {
		return model.AnalysisRecord{}, fmt.Errorf("moving averages: %w", err)
	}
	pattern.AttachSlopes(snaps, mas)

	supports, resistances, err := levels.Detect(s.Points, a.opts.Levels)
	if err != nil {
		return model.AnalysisRecord{}, fmt.Errorf("turning points: %w", err)
	}
	last := s.Last()
	lastSnap := snaps[len(snaps)-1]
	sr := levels.Select(last.Close, supports, resistances, a.opts.Levels.MaxLevels)

	candles := pattern.Candles(s.Points)
	pullback := pattern.DetectPullback(s.Points, lastSnap, a.opts.Pullback)
	maxVol := weightedMaxVolumeDay(s.Points, snaps)

	decision := a.engine.Decide(strategy.Signals{
		Price:     last.Close,
		RSI:       lastSnap.RSI,
		MACD:      lastSnap.MACD,
		Signal:    lastSnap.Signal,
		Upper:     lastSnap.UpperBand,
		Middle:    lastSnap.MiddleBand,
		Lower:     lastSnap.LowerBand,
		Volume:    strategy.ClassifyVolume(s.Volumes()),
		PctChange: lastSnap.PctChange,
		Candle:    candles[len(candles)-1],
		Slope5:    lastSnap.SlopeFor(5),
		Slope20:   lastSnap.SlopeFor(20),
		Pullback:  pullback,
		MaxVolume: maxVol,
	})

	rec := model.AnalysisRecord{
		Name:              s.Name,
		Code:              s.Code,
		AsOf:              last.Date,
		CurrentPrice:      last.Close,
		PriceChange:       lastSnap.PctChange,
		PriceChangeStatus: direction(lastSnap.PctChange),
		Volume:            last.Volume,
		VolumeChangeRate:  lastSnap.VolumeChangeRate,
		Action:            decision.Action,
		Rationale:         decision.Rationale,
		CandlePattern:     candles[len(candles)-1],
		Pullback:          pullback.Kind,
		MACDTrend:         macdTrend(lastSnap),
		RSIStatus:         rsiStatus(lastSnap.RSI),
		VolumeTrend:       volumeTrend(last.Volume, lastSnap.VolumeAvg),
		PriceVsBollinger:  bandPosition(last.Close, lastSnap),
		Slope5:            lastSnap.SlopeFor(5),
		Slope20:           lastSnap.SlopeFor(20),
		Slope60:           lastSnap.SlopeFor(60),
		Slope120:          lastSnap.SlopeFor(120),
		MaxVolumeDay:      maxVol,
	}
	fillLevels(&rec.Supports, sr.Supports)
	fillLevels(&rec.Resistances, sr.Resistances)
	return rec, nil
}

// weightedMaxVolumeDay picks the day among the last five with the largest
// volume*(1+|pct change|). The earliest day wins ties.
func weightedMaxVolumeDay(points []model.PricePoint, snaps []model.IndicatorSnapshot) model.MaxVolumeDay {
	start := max(0, len(points)-maxVolumeLookback)
	best, bestWeight := start, -1.0
	for i := start; i < len(points); i++ {
		w := points[i].Volume * (1 + math.Abs(snaps[i].PctChange))
		if w > bestWeight {
			best, bestWeight = i, w
		}
	}
	return model.MaxVolumeDay{
		Date:      points[best].Date,
		Trend:     direction(snaps[best].PctChange),
		Volume:    points[best].Volume,
		PctChange: snaps[best].PctChange,
	}
}

// FormatLevel renders a level as "<price> (<YYYY-MM-DD>)" with two decimals.
func FormatLevel(l model.Level) string {
	return model.FormatFixed2(l.Price) + " (" + l.Date.Format("2006-01-02") + ")"
}

func fillLevels(slots *[model.MaxLevels]*string, lv []model.Level) {
	for i := 0; i < len(lv) && i < model.MaxLevels; i++ {
		text := FormatLevel(lv[i])
		slots[i] = &text
	}
}

func direction(pct float64) string {
	if pct > 0 {
		return "rising"
	}
	return "falling"
}

func macdTrend(s model.IndicatorSnapshot) string {
	if s.Uptrend() {
		return "rising"
	}
	return "falling"
}

func rsiStatus(rsi model.Float) string {
	switch {
	case !rsi.Valid:
		return insufficientData
	case rsi.Value < 30:
		return "oversold"
	case rsi.Value > 70:
		return "overbought"
	default:
		return "neutral"
	}
}

func volumeTrend(volume float64, avg model.Float) string {
	if avg.Valid && volume > avg.Value {
		return "increasing"
	}
	return "decreasing"
}

func bandPosition(price float64, s model.IndicatorSnapshot) string {
	switch {
	case !s.UpperBand.Valid || !s.LowerBand.Valid:
		return insufficientData
	case price > s.UpperBand.Value:
		return "upper"
	case price < s.LowerBand.Value:
		return "lower"
	default:
		return "middle"
	}
}
