package model

import "time"

// PricePoint is one trading day of a single symbol.
type PricePoint struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// SymbolSeries holds the raw daily history of one symbol, ordered by date ascending.
type SymbolSeries struct {
	Name   string       `json:"name"`
	Code   string       `json:"code"`
	Points []PricePoint `json:"points"`
}

// Len returns the number of trading days in the series.
func (s *SymbolSeries) Len() int { return len(s.Points) }

// Last returns the most recent price point. The series must not be empty.
func (s *SymbolSeries) Last() PricePoint { return s.Points[len(s.Points)-1] }

// Closes extracts close prices in date order.
func (s *SymbolSeries) Closes() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Close
	}
	return out
}

// Volumes extracts volumes in date order.
func (s *SymbolSeries) Volumes() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Volume
	}
	return out
}

// Key identifies the symbol in logs and failure reports.
func (s *SymbolSeries) Key() string {
	if s.Code == "" {
		return s.Name
	}
	return s.Name + " (" + s.Code + ")"
}
