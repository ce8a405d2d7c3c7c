// Package strategy simulates the trading heuristics challenges are measured
// against: the momentum "par" trader and the leaderboard bots.
package strategy

import (
	"math"

	"Tradle/internal/model"
)

const (
	parWarmup        = 3
	parSignalLength  = 2
	parBuyFraction   = 0.3
	parSellFraction  = 0.4
	parMaxPosition   = 0.7
	efficiencyOffset = 0.5
)

// SimulatePar replays series through the momentum reference strategy.
//
// Starting at tick 3 and stopping before the last tick, two or more
// consecutive rising moves buy 30% of cash in whole shares (while the open
// position is worth less than 70% of starting cash); otherwise two or more
// falling moves sell 40% of held shares. Everything left is sold at the final
// price. It is a pure function of its inputs.
func SimulatePar(series []model.CondensedPoint, params model.GameParameters) model.ParPerformance {
	if len(series) == 0 {
		return model.ParPerformance{
			AverageBuyPrice: params.InitialStockPrice,
			FinalValue:      params.StartingCash,
			CashRemaining:   params.StartingCash,
			ProfitPerTrade:  math.NaN(),
		}
	}

	prices := model.Prices(series)
	initial := prices[0]
	final := prices[len(prices)-1]

	p := newPortfolio(params.StartingCash)
	var mom momentum
	maxPosition := params.StartingCash * parMaxPosition

	for i := parWarmup; i < len(prices)-1; i++ {
		mom.update(prices, i)
		price := prices[i]
		perTrade := p.cash * parBuyFraction

		if mom.rising >= parSignalLength && p.cash > perTrade && float64(p.shares)*price < maxPosition {
			p.buy(perTrade, price)
		} else if p.shares > 0 && mom.falling >= parSignalLength {
			p.sell(parSellFraction, price)
		}
	}
	p.liquidate(final)

	perf := model.ParPerformance{
		AverageBuyPrice:   p.averageBuy(initial),
		TotalSharesBought: p.bought,
		FinalValue:        p.cash,
		CashRemaining:     p.cash,
		ProfitPerTrade:    math.NaN(),
		Efficiency:        Efficiency(p.cash, params.StartingCash, initial, final),
	}
	if p.bought > 0 {
		perf.ProfitPerTrade = (p.cash - params.StartingCash) / float64(p.bought)
	}
	return perf
}

// Efficiency scores finalValue against buying as many shares as possible at
// initial and holding to final: 0.5 means par with buy-and-hold, clamped to
// [0,1].
func Efficiency(finalValue, startingCash, initial, final float64) float64 {
	if startingCash <= 0 || initial <= 0 {
		return 0
	}
	holdShares := math.Floor(startingCash / initial)
	holdValue := holdShares*final + (startingCash - holdShares*initial)
	e := (finalValue-holdValue)/startingCash + efficiencyOffset
	if math.IsNaN(e) {
		return 0
	}
	return math.Max(0, math.Min(1, e))
}
