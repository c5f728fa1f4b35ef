package pattern

import (
	"testing"
	"time"

	"StockPulse/internal/model"
)

var day0 = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func TestClassifyCandle(t *testing.T) {
	tests := []struct {
		name      string
		bar       model.PricePoint
		prevClose float64
		want      model.CandlePattern
	}{
		{"large bullish", model.PricePoint{Open: 100, Close: 110, High: 110, Low: 100}, 100, model.CandleLargeBullish},
		{"bottoming wick", model.PricePoint{Open: 100, Close: 101, High: 101.5, Low: 95}, 100, model.CandleBottomingWick},
		{"selling pressure", model.PricePoint{Open: 101, Close: 100, High: 106, Low: 99.5}, 100, model.CandleSellingPressure},
		{"indecision", model.PricePoint{Open: 100, Close: 100.2, High: 101.2, Low: 99}, 100, model.CandleIndecision},
		{"bullish", model.PricePoint{Open: 100, Close: 103, High: 104, Low: 99}, 100, model.CandleBullish},
		{"bearish", model.PricePoint{Open: 103, Close: 100, High: 104, Low: 99}, 102, model.CandleBearish},
		{"neutral", model.PricePoint{Open: 100, Close: 100, High: 100, Low: 100}, 100, model.CandleNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyCandle(tt.bar, tt.prevClose); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCandles_FirstDateHasNoPattern(t *testing.T) {
	pts := []model.PricePoint{
		{Open: 100, Close: 110, High: 110, Low: 100},
		{Open: 100, Close: 110, High: 110, Low: 100},
	}
	got := Candles(pts)
	if got[0] != model.CandleNone || got[1] != model.CandleLargeBullish {
		t.Errorf("got %v", got)
	}
}

func TestSlopes(t *testing.T) {
	got := Slopes([]model.Float{model.None, model.Some(1), model.Some(2), model.Some(2), model.Some(1)})
	want := []model.Slope{
		model.SlopeInsufficient, model.SlopeInsufficient,
		model.SlopeRising, model.SlopeFlat, model.SlopeFalling,
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAttachSlopes(t *testing.T) {
	snaps := make([]model.IndicatorSnapshot, 3)
	AttachSlopes(snaps, map[int][]model.Float{
		5: {model.None, model.Some(1), model.Some(3)},
	})
	if snaps[2].SlopeFor(5) != model.SlopeRising {
		t.Errorf("slope 5 = %q", snaps[2].SlopeFor(5))
	}
	if snaps[2].SlopeFor(20) != model.SlopeInsufficient {
		t.Error("missing period should read as insufficient data")
	}
}

func pullbackSeries(closes, volumes []float64) []model.PricePoint {
	out := make([]model.PricePoint, len(closes))
	for i := range closes {
		out[i] = model.PricePoint{Date: day0.AddDate(0, 0, i), Open: closes[i], High: closes[i], Low: closes[i], Close: closes[i], Volume: volumes[i]}
	}
	return out
}

func flatVolumes(n int, last float64) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1000
	}
	v[n-1] = last
	return v
}

func TestDetectPullback(t *testing.T) {
	strictCloses := []float64{100, 102, 104, 106, 110, 105, 100, 96, 95, 98}
	relaxedCloses := []float64{100, 102, 104, 106, 110, 105, 100, 90, 95, 98}
	downtrend := model.IndicatorSnapshot{
		MACD: model.Some(0), Signal: model.Some(1),
		MiddleBand: model.Some(104), LowerBand: model.Some(97),
	}
	uptrend := model.IndicatorSnapshot{
		MACD: model.Some(2), Signal: model.Some(1),
		MiddleBand: model.Some(96), LowerBand: model.Some(80),
	}
	noBands := model.IndicatorSnapshot{MACD: model.Some(0), Signal: model.Some(1)}

	tests := []struct {
		name    string
		closes  []float64
		volumes []float64
		snap    model.IndicatorSnapshot
		want    model.PullbackKind
	}{
		{"strict near lower band", strictCloses, flatVolumes(10, 3000), downtrend, model.PullbackStrict},
		{"strict above middle in uptrend", strictCloses, flatVolumes(10, 3000), uptrend, model.PullbackStrict},
		{"relaxed without low proximity", relaxedCloses, flatVolumes(10, 3000), downtrend, model.PullbackRelaxed},
		{"no volume surge", strictCloses, flatVolumes(10, 1100), downtrend, model.PullbackNone},
		{"undefined bands fail the gate", strictCloses, flatVolumes(10, 3000), noBands, model.PullbackNone},
		{"two rows", []float64{100, 101}, []float64{1000, 3000}, downtrend, model.PullbackInsufficient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectPullback(pullbackSeries(tt.closes, tt.volumes), tt.snap, DefaultPullbackParams())
			if got.Kind != tt.want {
				t.Errorf("got %q (%s), want %q", got.Kind, got.Message, tt.want)
			}
			if got.Message == "" {
				t.Error("message must not be empty")
			}
		})
	}
}

func TestDetectPullback_ShortSeriesNeverMatches(t *testing.T) {
	for n := 0; n < 3; n++ {
		closes := make([]float64, n)
		volumes := make([]float64, n)
		for i := range closes {
			closes[i] = 100 - float64(i)
			volumes[i] = 1000 * float64(i+1)
		}
		got := DetectPullback(pullbackSeries(closes, volumes), model.IndicatorSnapshot{}, DefaultPullbackParams())
		if !got.Insufficient() || got.Detected() {
			t.Errorf("n=%d: got %+v", n, got)
		}
	}
}

func TestConsecutiveDropsAfterPeak(t *testing.T) {
	tests := []struct {
		closes []float64
		want   int
	}{
		{[]float64{1, 3, 2, 3, 2}, 1},
		{[]float64{1, 5, 4, 3, 4, 2}, 2},
		{[]float64{5, 5, 4, 3}, 2},
		{[]float64{1, 2, 3}, 0},
		{[]float64{9, 8, 7, 8, 7, 6, 5}, 2},
		{[]float64{9, 9, 8, 9, 8, 7}, 2},
		{[]float64{9, 8}, 1},
	}
	for _, tt := range tests {
		if got := consecutiveDropsAfterPeak(tt.closes); got != tt.want {
			t.Errorf("%v: got %d, want %d", tt.closes, got, tt.want)
		}
	}
}
