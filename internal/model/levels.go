package model

import "time"

// PointKind classifies a turning point.
type PointKind string

const (
	KindSupport    PointKind = "support"
	KindResistance PointKind = "resistance"
)

// TurningPoint is a local extremum of the close series.
type TurningPoint struct {
	Price float64   `json:"price"`
	Date  time.Time `json:"date"`
	Kind  PointKind `json:"kind"`
}

// Level is a support or resistance price with the date it was observed.
type Level struct {
	Price float64   `json:"price"`
	Date  time.Time `json:"date"`
}

// SupportResistance holds the selected levels around the current price, nearest first.
type SupportResistance struct {
	Supports    []Level `json:"supports"`
	Resistances []Level `json:"resistances"`
}
