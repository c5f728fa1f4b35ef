package strategy

import "StockPulse/internal/model"

// Family groups rules; families are evaluated in ascending order.
type Family int

const (
	FamilyCandle Family = iota + 1
	FamilyBandZone
	FamilyMiddleBand
	FamilySlope
	FamilyVolume
	FamilyRSI
	FamilyDefault
)

func (f Family) String() string {
	switch f {
	case FamilyCandle:
		return "candle"
	case FamilyBandZone:
		return "band-zone"
	case FamilyMiddleBand:
		return "middle-band"
	case FamilySlope:
		return "slope"
	case FamilyVolume:
		return "volume"
	case FamilyRSI:
		return "rsi"
	case FamilyDefault:
		return "default"
	}
	return "unknown"
}

// Rule is one row of the decision table.
type Rule struct {
	Name      string
	Family    Family
	When      func(s *Signals) bool
	Action    model.Action
	Rationale string
}

func rule(name string, f Family, when func(*Signals) bool, a model.Action, rationale string) Rule {
	return Rule{Name: name, Family: f, When: when, Action: a, Rationale: rationale}
}

// DefaultRules returns the decision table in evaluation order. The last rule always matches.
func DefaultRules() []Rule {
	return []Rule{
		rule("large-bullish-uptrend", FamilyCandle, largeBullishUptrend, model.ActionBullishCandleUptrend, "large bullish candle in a strong uptrend"),
		rule("bottoming-wick", FamilyCandle, bottomingWickAtLower, model.ActionBottomingWick, "long lower wick at the lower band"),
		rule("selling-pressure-wick", FamilyCandle, sellingWickOverbought, model.ActionSellPressureWick, "long upper wick on a bearish close while overbought"),

		rule("above-upper-overbought-surge", FamilyBandZone, aboveUpperOverboughtHeavy, model.ActionSellOverboughtSurge, "overbought above the upper band on heavy volume"),
		rule("above-upper-overbought-thin", FamilyBandZone, aboveUpperOverboughtLight, model.ActionWatchOverboughtLowVol, "overbought above the upper band on light volume"),
		rule("above-upper-neutral", FamilyBandZone, aboveUpperNeutral, model.ActionWatchUpperBandNeutral, "above the upper band with RSI upper-neutral"),
		rule("above-upper", FamilyBandZone, aboveUpper, model.ActionWatchUpperBandNoSignal, "above the upper band without confirmation"),
		rule("lower-oversold-surge", FamilyBandZone, lowerOversoldHeavy, model.ActionReboundVolumeSurge, "oversold at the lower band on heavy volume"),
		rule("lower-oversold-thin", FamilyBandZone, lowerOversoldLight, model.ActionWaitOversoldLowVolume, "oversold at the lower band on light volume"),
		rule("near-lower", FamilyBandZone, nearLowerSoftRSI, model.ActionNearLowerBand, "near the lower band with RSI neutral or below"),
		rule("below-lower", FamilyBandZone, belowLower, model.ActionWatchLowerBandNoSignal, "below the lower band without confirmation"),

		rule("middle-slopes-rising", FamilyMiddleBand, middleSlopesRising, model.ActionMovingAveragesRising, "short and medium averages rising at the middle band"),
		rule("middle-overheating", FamilyMiddleBand, middleOverheating, model.ActionWatchRSIOverheating, "RSI elevated on heavy volume at the middle band"),
		rule("middle", FamilyMiddleBand, atMiddle, model.ActionWatchMiddleBand, "at the middle band without confirmation"),

		rule("slopes-rising-uptrend", FamilySlope, slopesRisingUptrend, model.ActionSlopeAgreement, "5 and 20 day averages rising with MACD above signal"),
		rule("slopes-falling-lower", FamilySlope, slopesFallingAtLower, model.ActionWatchShortTermDecline, "5 and 20 day averages falling near the lower band"),

		rule("surge-strong-rise", FamilyVolume, surgeStrongRise, model.ActionVolumeSurgeRise, "heavy volume on a strong rise"),
		rule("thin-large-drop", FamilyVolume, thinLargeDrop, model.ActionWaitOversizedDecline, "large drop on light volume"),
		rule("surge-during-drop", FamilyVolume, surgeDuringDrop, model.ActionWatchSurgeDuringDecline, "heavy volume during a decline"),

		rule("rsi-overbought", FamilyRSI, overbought, model.ActionSellOverbought, "RSI overbought"),
		rule("rsi-oversold", FamilyRSI, oversold, model.ActionOversoldRebound, "RSI oversold"),
		rule("rsi-rising-uptrend", FamilyRSI, rsiUpperNeutralUptrend, model.ActionWaitRSIRising, "RSI upper-neutral in an uptrend"),
		rule("rsi-weak-downtrend", FamilyRSI, rsiLowerNeutralDowntrend, model.ActionWatchWeakDowntrend, "RSI lower-neutral in a downtrend"),

		rule("default", FamilyDefault, always, model.ActionWatchAwaitingSignal, "awaiting further signals"),
	}
}

func always(*Signals) bool { return true }

func largeBullishUptrend(s *Signals) bool {
	return s.Candle == model.CandleLargeBullish && s.Uptrend() && s.high()
}

func bottomingWickAtLower(s *Signals) bool {
	return s.Candle == model.CandleBottomingWick && s.rsi(below(35)) && s.Zones.AtLower
}

func sellingWickOverbought(s *Signals) bool {
	return s.Candle == model.CandleSellingPressure && s.rsi(above(70))
}

func aboveUpper(s *Signals) bool { return s.Zones.AboveUpper }

func aboveUpperOverboughtHeavy(s *Signals) bool {
	return s.Zones.AboveUpper && s.rsi(above(70)) && s.high()
}

func aboveUpperOverboughtLight(s *Signals) bool {
	return s.Zones.AboveUpper && s.rsi(above(70)) && s.low()
}

func aboveUpperNeutral(s *Signals) bool {
	return s.Zones.AboveUpper && s.rsi(within(60, 70)) && !s.high()
}

// atOrBelowLower also covers prices pinned to the band inside the margin.
func atOrBelowLower(s *Signals) bool { return s.Zones.BelowLower || s.Zones.AtLower }

func lowerOversoldHeavy(s *Signals) bool {
	return atOrBelowLower(s) && s.rsi(below(30)) && s.high()
}

func lowerOversoldLight(s *Signals) bool {
	return atOrBelowLower(s) && s.rsi(below(30)) && s.low()
}

func nearLowerSoftRSI(s *Signals) bool { return s.Zones.AtLower && s.rsi(below(50)) }

func belowLower(s *Signals) bool { return s.Zones.BelowLower }

func atMiddle(s *Signals) bool { return s.Zones.AtMiddle }

func middleSlopesRising(s *Signals) bool {
	return s.Zones.AtMiddle && s.slopesAgree(model.SlopeRising) && s.rsi(below(60))
}

func middleOverheating(s *Signals) bool {
	return s.Zones.AtMiddle && s.rsi(above(60)) && s.high()
}

func slopesRisingUptrend(s *Signals) bool {
	return s.slopesAgree(model.SlopeRising) && s.Uptrend()
}

func slopesFallingAtLower(s *Signals) bool {
	return s.slopesAgree(model.SlopeFalling) && s.Zones.AtLower
}

func surgeStrongRise(s *Signals) bool { return s.high() && s.PctChange > 2 }

func thinLargeDrop(s *Signals) bool { return s.low() && s.PctChange < -3 }

func surgeDuringDrop(s *Signals) bool { return s.high() && s.PctChange < -2 }

func overbought(s *Signals) bool { return s.rsi(above(70)) }

func oversold(s *Signals) bool { return s.rsi(below(30)) }

func rsiUpperNeutralUptrend(s *Signals) bool {
	return s.rsi(func(v float64) bool { return v >= 60 && v < 70 }) && s.Uptrend()
}

func rsiLowerNeutralDowntrend(s *Signals) bool {
	return s.rsi(func(v float64) bool { return v >= 30 && v < 50 }) && !s.Uptrend()
}

func above(x float64) func(float64) bool { return func(v float64) bool { return v > x } }

func below(x float64) func(float64) bool { return func(v float64) bool { return v < x } }

// within is inclusive on both ends.
func within(lo, hi float64) func(float64) bool {
	return func(v float64) bool { return v >= lo && v <= hi }
}
