package model

import (
	"math"

	"github.com/shopspring/decimal"
)

// FormatFixed2 renders v with two decimals the way "%.2f" does: the exact binary value is
// rounded, and exact ties go to the even digit.
func FormatFixed2(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return decimal.NewFromFloatWithExponent(v, math.MinInt32).RoundBank(2).StringFixed(2)
}
