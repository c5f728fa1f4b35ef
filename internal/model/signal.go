package model

import "time"

// Action is a trade-action recommendation label.
type Action string

const (
	ActionBullishCandleUptrend    Action = "buy-consider: large bullish candle + strong uptrend"
	ActionBottomingWick           Action = "buy-consider: bottoming wick near lower band"
	ActionVolumeSurgeRise         Action = "buy-consider: volume surge + strong rise"
	ActionReboundVolumeSurge      Action = "buy-consider: rebound likely, volume surge"
	ActionReboundLikely           Action = "buy-consider: rebound likely"
	ActionNearLowerBand           Action = "buy-consider: near lower band, RSI neutral-or-below"
	ActionMovingAveragesRising    Action = "buy-consider: moving averages rising, trend strengthening"
	ActionSlopeAgreement          Action = "buy-consider: slope agreement, uptrend confirmed"
	ActionOversoldRebound         Action = "buy-consider: oversold, rebound potential"
	ActionWaitOversoldLowVolume   Action = "buy-wait: oversold, volume insufficient"
	ActionWaitOversizedDecline    Action = "buy-wait: oversized decline, volume insufficient"
	ActionWaitBreakout            Action = "buy-wait: breakout potential"
	ActionWaitRSIRising           Action = "buy-wait: RSI rising, confirm trend"
	ActionWatchUpperBandNeutral   Action = "watch: above upper band, RSI upper-neutral"
	ActionWatchOverboughtLowVol   Action = "watch: overbought, volume declining"
	ActionWatchConfirmTrend       Action = "watch: confirm trend"
	ActionWatchTrendMayStrengthen Action = "watch: trend may strengthen"
	ActionWatchRSIOverheating     Action = "watch: RSI overheating risk"
	ActionWatchSurgeDuringDecline Action = "watch: volume surge during decline, confirm trend"
	ActionWatchShortTermDecline   Action = "watch: short-term decline, confirm trend"
	ActionWatchMiddleBand         Action = "watch: middle band, insufficient signal"
	ActionWatchUpperBandNoSignal  Action = "watch: above upper band, insufficient signal"
	ActionWatchLowerBandNoSignal  Action = "watch: below lower band, insufficient signal"
	ActionWatchVolumeDeclining    Action = "watch: volume declining"
	ActionWatchTrendWeakening     Action = "watch: trend weakening"
	ActionWatchWeakDowntrend      Action = "watch: weak downtrend, insufficient signal"
	ActionWatchCorrectionRisk     Action = "watch: correction risk"
	ActionWatchAwaitingSignal     Action = "watch: awaiting signal"
	ActionWatchFurtherDecline     Action = "watch: further decline risk"
	ActionSellOverboughtSurge     Action = "sell-consider: overbought, volume surge"
	ActionSellOverbought          Action = "sell-consider: overbought"
	ActionSellPressureWick        Action = "sell-consider: selling-pressure wick, overbought"
	ActionSellRallyExhaustion     Action = "sell-consider: rally exhaustion"
)

// MaxVolumeDay summarises the day with the highest change-weighted volume in a recent window.
type MaxVolumeDay struct {
	Date      time.Time `json:"date"`
	Trend     string    `json:"trend"`
	Volume    float64   `json:"volume"`
	PctChange float64   `json:"pct_change"`
}

// MaxLevels is the number of support and resistance slots in a record.
const MaxLevels = 3

// AnalysisRecord is the final per-symbol output row.
type AnalysisRecord struct {
	Name              string        `json:"name"`
	Code              string        `json:"code"`
	AsOf              time.Time     `json:"as_of"`
	CurrentPrice      float64       `json:"current_price"`
	PriceChange       float64       `json:"price_change"`
	PriceChangeStatus string        `json:"price_change_status"`
	Volume            float64       `json:"volume"`
	VolumeChangeRate  Float         `json:"volume_change_rate"`
	Action            Action        `json:"action"`
	Rationale         string        `json:"rationale"`
	CandlePattern     CandlePattern `json:"candle_pattern"`
	Pullback          PullbackKind  `json:"pullback"`
	MACDTrend         string        `json:"macd_trend"`
	RSIStatus         string        `json:"rsi_status"`
	VolumeTrend       string        `json:"volume_trend"`
	PriceVsBollinger  string        `json:"price_vs_bollinger"`
	Slope5            Slope         `json:"slope_5"`
	Slope20           Slope         `json:"slope_20"`
	Slope60           Slope         `json:"slope_60"`
	Slope120          Slope         `json:"slope_120"`
	MaxVolumeDay      MaxVolumeDay  `json:"max_volume_day"`

	// Formatted "price (date)"; nil slots marshal as null.
	Supports    [MaxLevels]*string `json:"supports"`
	Resistances [MaxLevels]*string `json:"resistances"`
}
