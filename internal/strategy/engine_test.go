package strategy

import (
	"strings"
	"testing"

	"StockPulse/internal/model"
)

// base sits in no band zone: bands 90/100/110, margin 2, price 105.
func base() Signals {
	return Signals{
		Price:     105,
		RSI:       model.Some(55),
		MACD:      model.Some(0),
		Signal:    model.Some(1),
		Upper:     model.Some(110),
		Middle:    model.Some(100),
		Lower:     model.Some(90),
		Volume:    model.VolumeNormal,
		Candle:    model.CandleNeutral,
		Slope5:    model.SlopeFlat,
		Slope20:   model.SlopeFlat,
		Pullback:  model.PullbackResult{Kind: model.PullbackNone},
		MaxVolume: model.MaxVolumeDay{Trend: "rising"},
	}
}

func noBands(s Signals) Signals {
	s.Upper, s.Middle, s.Lower = model.None, model.None, model.None
	return s
}

func TestDecide_RuleTable(t *testing.T) {
	tests := []struct {
		name   string
		modify func(s *Signals)
		want   model.Action
	}{
		{"large bullish candle in uptrend", func(s *Signals) {
			s.Candle, s.MACD, s.Volume = model.CandleLargeBullish, model.Some(2), model.VolumeHigh
		}, model.ActionBullishCandleUptrend},
		{"bottoming wick at lower band", func(s *Signals) {
			s.Candle, s.Price, s.RSI = model.CandleBottomingWick, 90, model.Some(30)
		}, model.ActionBottomingWick},
		{"selling wick overbought", func(s *Signals) {
			s.Candle, s.RSI = model.CandleSellingPressure, model.Some(75)
		}, model.ActionSellPressureWick},
		{"above upper overbought heavy", func(s *Signals) {
			s.Price, s.RSI, s.Volume = 120, model.Some(75), model.VolumeHigh
		}, model.ActionSellOverboughtSurge},
		{"above upper overbought light", func(s *Signals) {
			s.Price, s.RSI, s.Volume = 120, model.Some(75), model.VolumeLow
		}, model.ActionWatchOverboughtLowVol},
		{"above upper upper-neutral", func(s *Signals) {
			s.Price, s.RSI = 120, model.Some(65)
		}, model.ActionWatchUpperBandNeutral},
		{"above upper no signal", func(s *Signals) {
			s.Price, s.RSI = 120, model.Some(50)
		}, model.ActionWatchUpperBandNoSignal},
		{"pinned to lower band oversold light", func(s *Signals) {
			s.Price, s.RSI, s.Volume, s.Candle = 90, model.Some(25), model.VolumeLow, model.CandleBearish
		}, model.ActionWaitOversoldLowVolume},
		{"below lower oversold heavy", func(s *Signals) {
			s.Price, s.RSI, s.Volume = 80, model.Some(20), model.VolumeHigh
		}, model.ActionReboundVolumeSurge},
		{"near lower band soft rsi", func(s *Signals) {
			s.Price, s.RSI = 91, model.Some(45)
		}, model.ActionNearLowerBand},
		{"below lower no signal", func(s *Signals) {
			s.Price, s.RSI = 80, model.Some(40)
		}, model.ActionWatchLowerBandNoSignal},
		{"middle band rising averages", func(s *Signals) {
			s.Price, s.Slope5, s.Slope20 = 100, model.SlopeRising, model.SlopeRising
		}, model.ActionMovingAveragesRising},
		{"middle band overheating", func(s *Signals) {
			s.Price, s.RSI, s.Volume = 100, model.Some(65), model.VolumeHigh
		}, model.ActionWatchRSIOverheating},
		{"middle band no signal", func(s *Signals) {
			s.Price, s.RSI = 100, model.Some(65)
		}, model.ActionWatchMiddleBand},
		{"slopes agree in uptrend", func(s *Signals) {
			s.Slope5, s.Slope20, s.MACD = model.SlopeRising, model.SlopeRising, model.Some(2)
		}, model.ActionSlopeAgreement},
		{"slopes falling at lower band", func(s *Signals) {
			s.Price, s.Slope5, s.Slope20 = 91, model.SlopeFalling, model.SlopeFalling
		}, model.ActionWatchShortTermDecline},
		{"heavy volume strong rise", func(s *Signals) {
			s.Volume, s.PctChange = model.VolumeHigh, 3
		}, model.ActionVolumeSurgeRise},
		{"light volume large drop", func(s *Signals) {
			s.Volume, s.PctChange = model.VolumeLow, -4
		}, model.ActionWaitOversizedDecline},
		{"heavy volume during drop", func(s *Signals) {
			s.Volume, s.PctChange = model.VolumeHigh, -3
		}, model.ActionWatchSurgeDuringDecline},
		{"rsi overbought", func(s *Signals) {
			*s = noBands(*s)
			s.RSI = model.Some(75)
		}, model.ActionSellOverbought},
		{"rsi oversold", func(s *Signals) {
			*s = noBands(*s)
			s.RSI = model.Some(20)
		}, model.ActionOversoldRebound},
		{"rsi rising in uptrend", func(s *Signals) {
			s.RSI, s.MACD = model.Some(65), model.Some(2)
		}, model.ActionWaitRSIRising},
		{"weak downtrend", func(s *Signals) {
			s.RSI = model.Some(40)
		}, model.ActionWatchWeakDowntrend},
		{"nothing matches", func(s *Signals) {}, model.ActionWatchAwaitingSignal},
		{"undefined rsi and bands", func(s *Signals) {
			*s = noBands(*s)
			s.RSI = model.None
		}, model.ActionWatchAwaitingSignal},
	}

	engine := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.modify(&s)
			got := engine.Decide(s)
			if got.Action != tt.want {
				t.Errorf("action = %q (rule %s), want %q", got.Action, got.Rule, tt.want)
			}
		})
	}
}

func TestDecide_EveryRuleReachable(t *testing.T) {
	engine := Default()
	fired := map[string]bool{}
	for _, r := range engine.Rules() {
		fired[r.Name] = false
	}
	// Walk a grid of inputs and collect the rules that win at least once.
	prices := []float64{80, 90, 91, 100, 105, 120}
	rsis := []model.Float{model.None, model.Some(20), model.Some(30), model.Some(40), model.Some(55), model.Some(65), model.Some(75)}
	volumes := []model.VolumeState{model.VolumeHigh, model.VolumeLow, model.VolumeNormal}
	candles := []model.CandlePattern{model.CandleNeutral, model.CandleLargeBullish, model.CandleBottomingWick, model.CandleSellingPressure}
	slopes := []model.Slope{model.SlopeRising, model.SlopeFalling, model.SlopeFlat}
	for _, p := range prices {
		for _, r := range rsis {
			for _, v := range volumes {
				for _, c := range candles {
					for _, sl := range slopes {
						for _, macd := range []float64{0, 2} {
							for _, pct := range []float64{-4, -2.5, 0, 3} {
								s := base()
								s.Price, s.RSI, s.Volume, s.Candle = p, r, v, c
								s.Slope5, s.Slope20, s.MACD, s.PctChange = sl, sl, model.Some(macd), pct
								fired[engine.Decide(s).Rule] = true
							}
						}
					}
				}
			}
		}
	}
	for name, ok := range fired {
		if !ok {
			t.Errorf("rule %s never fired", name)
		}
	}
}

func TestDecide_RationaleFormat(t *testing.T) {
	s := base()
	s.Price, s.RSI, s.Volume, s.PctChange = 90, model.Some(25), model.VolumeLow, -1.5
	s.MaxVolume.Trend = "falling"

	got := Default().Decide(s)
	want := "max volume day falling, volume declining, downtrend, near lower band 90.00, price falling (-1.50%)"
	if got.Rationale != want {
		t.Errorf("rationale = %q\nwant        %q", got.Rationale, want)
	}
}

func TestDecide_PullbackOverridesDescriptionOnly(t *testing.T) {
	s := base()
	s.Price, s.RSI, s.Volume = 90, model.Some(25), model.VolumeLow
	s.Pullback = model.PullbackResult{Kind: model.PullbackRelaxed}

	got := Default().Decide(s)
	if got.Action != model.ActionWaitOversoldLowVolume {
		t.Errorf("pullback must not change the action, got %q", got.Action)
	}
	if !strings.Contains(got.Rationale, "pullback pattern detected") {
		t.Errorf("rationale %q should mention the pullback", got.Rationale)
	}
}

func TestDecide_VolumeDescriptionOutsideZones(t *testing.T) {
	s := noBands(base())
	s.Volume, s.PctChange = model.VolumeHigh, 3
	got := Default().Decide(s)
	if !strings.Contains(got.Rationale, "volume surge may strengthen the trend") {
		t.Errorf("rationale = %q", got.Rationale)
	}
	if !strings.HasSuffix(got.Rationale, "price rising (+3.00%)") {
		t.Errorf("rationale = %q", got.Rationale)
	}
}

func TestComputeZones(t *testing.T) {
	z := ComputeZones(101.5, model.Some(110), model.Some(100), model.Some(90))
	if z.Margin != 2 || !z.AtMiddle || z.AtLower || z.AtUpper || z.AboveUpper || z.BelowLower {
		t.Errorf("unexpected zones %+v", z)
	}
	// Narrow bands fall back to 1% of the middle band.
	z = ComputeZones(100, model.Some(100.5), model.Some(100), model.Some(99.5))
	if z.Margin != 1 {
		t.Errorf("margin = %v, want 1", z.Margin)
	}
	if (ComputeZones(100, model.None, model.Some(100), model.Some(90)) != Zones{}) {
		t.Error("undefined bands must yield no zone")
	}
}

func TestClassifyVolume(t *testing.T) {
	tests := []struct {
		name   string
		recent []float64
		want   model.VolumeState
	}{
		{"spike", []float64{1000, 1000, 1000, 1000, 3000}, model.VolumeHigh},
		{"thin", []float64{1000, 1000, 1000, 1000, 500}, model.VolumeLow},
		{"steady", []float64{1000, 1000, 1000, 1000, 1000}, model.VolumeNormal},
		{"uses only the last five", []float64{100000, 1000, 1000, 1000, 1000, 1000}, model.VolumeNormal},
		{"empty", nil, model.VolumeNormal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyVolume(tt.recent); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewEngine_RequiresDefaultRule(t *testing.T) {
	rules := DefaultRules()
	if _, err := NewEngine(rules[:len(rules)-1]); err == nil {
		t.Error("expected error without a default rule")
	}
	if _, err := NewEngine(nil); err == nil {
		t.Error("expected error for an empty table")
	}
}

func TestEngine_ActionsAreUnique(t *testing.T) {
	actions := Default().Actions()
	seen := map[model.Action]bool{}
	for _, a := range actions {
		if seen[a] {
			t.Errorf("duplicate action %q", a)
		}
		seen[a] = true
	}
	if len(actions) != len(DefaultRules()) {
		t.Errorf("got %d actions for %d rules", len(actions), len(DefaultRules()))
	}
}
