package model

// CandlePattern is the single-day shape classification of a price bar.
type CandlePattern string

const (
	CandleLargeBullish    CandlePattern = "large bullish"
	CandleBottomingWick   CandlePattern = "bottoming wick"
	CandleSellingPressure CandlePattern = "selling-pressure wick"
	CandleIndecision      CandlePattern = "indecision"
	CandleBullish         CandlePattern = "bullish"
	CandleBearish         CandlePattern = "bearish"
	CandleNeutral         CandlePattern = "neutral"
	CandleNone            CandlePattern = "none"
)

// PullbackKind is the outcome of the pullback detector.
type PullbackKind string

const (
	PullbackStrict       PullbackKind = "pullback, strict"
	PullbackRelaxed      PullbackKind = "pullback, relaxed"
	PullbackNone         PullbackKind = "no pullback"
	PullbackInsufficient PullbackKind = "insufficient data"
)

// PullbackResult carries the detector outcome and a human readable explanation.
type PullbackResult struct {
	Kind    PullbackKind `json:"kind"`
	Message string       `json:"message"`
}

// Detected reports a strict or relaxed match.
func (p PullbackResult) Detected() bool {
	return p.Kind == PullbackStrict || p.Kind == PullbackRelaxed
}

// Insufficient reports that the window was too short to evaluate.
func (p PullbackResult) Insufficient() bool { return p.Kind == PullbackInsufficient }

// VolumeState compares today's volume to the trailing average.
type VolumeState string

const (
	VolumeHigh   VolumeState = "high"
	VolumeLow    VolumeState = "low"
	VolumeNormal VolumeState = "normal"
)
