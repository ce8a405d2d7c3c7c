package calculator

import (
	"math"

	"github.com/shopspring/decimal"
)

var half = decimal.NewFromFloat(0.5)

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// RoundTo rounds x to the given number of decimal places. NaN and Inf pass
// through unchanged.
func RoundTo(x float64, places int32) float64 {
	if !finite(x) {
		return x
	}
	return decimal.NewFromFloat(x).Round(places).InexactFloat64()
}

// RoundCents rounds a price to two decimal places.
func RoundCents(x float64) float64 {
	return RoundTo(x, 2)
}

// RoundHalfUp rounds to the nearest integer, ties toward +Inf.
func RoundHalfUp(x float64) float64 {
	if !finite(x) {
		return x
	}
	return decimal.NewFromFloat(x).Add(half).Floor().InexactFloat64()
}

// RoundToNearest rounds x to the nearest multiple of step, ties toward +Inf.
func RoundToNearest(x, step float64) float64 {
	if step == 0 || !finite(x) {
		return x
	}
	q := decimal.NewFromFloat(x).Div(decimal.NewFromFloat(step))
	return q.Add(half).Floor().Mul(decimal.NewFromFloat(step)).InexactFloat64()
}
