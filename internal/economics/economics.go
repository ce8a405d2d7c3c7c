// Package economics derives a challenge's starting cash and target from its
// playback series and the par strategy's result on it.
package economics

import (
	"Tradle/internal/calculator"
	"Tradle/internal/model"
	"Tradle/internal/strategy"
)

const (
	TargetInitialShares = 20
	TargetOverPar       = 1.2
	RoundTo             = 100.0
	MinReturnPercentage = 5.0
)

// Defaults are used when there is no series to price from.
var Defaults = model.GameParameters{
	StartingCash:           5000,
	StartingShares:         0,
	TargetValue:            6000,
	InitialStockPrice:      100,
	TargetReturnPercentage: 20,
}

// Provisional sizes starting cash to buy about 20 shares at the first price,
// rounded to the nearest 100. The target is left at zero.
func Provisional(series []model.CondensedPoint) model.GameParameters {
	if len(series) == 0 {
		return Defaults
	}
	initial := series[0].Price
	return model.GameParameters{
		StartingCash:      calculator.RoundToNearest(initial*TargetInitialShares, RoundTo),
		InitialStockPrice: initial,
	}
}

// Finalize sets the target to 20% above parFinalValue, rounded to the nearest
// 100, and the target return relative to starting cash.
func Finalize(provisional model.GameParameters, parFinalValue float64) model.GameParameters {
	p := provisional
	p.TargetValue = calculator.RoundToNearest(parFinalValue*TargetOverPar, RoundTo)
	if p.StartingCash > 0 {
		p.TargetReturnPercentage = calculator.RoundHalfUp((p.TargetValue - p.StartingCash) / p.StartingCash * 100)
	} else {
		p.TargetReturnPercentage = 0
	}
	return p
}

// Calculate runs the full pipeline: provisional cash, a par run against it,
// then the target.
func Calculate(series []model.CondensedPoint) model.GameParameters {
	if len(series) == 0 {
		return Defaults
	}
	provisional := Provisional(series)
	par := strategy.SimulatePar(series, provisional)
	return Finalize(provisional, par.FinalValue)
}

// Viable reports whether params make a playable challenge.
func Viable(p model.GameParameters) bool {
	return p.TargetValue > p.StartingCash && p.TargetReturnPercentage >= MinReturnPercentage
}
