package strategy

import (
	"fmt"
	"math"

	"Tradle/internal/calculator"
	"Tradle/internal/random"
)

// Result is the outcome of one bot session.
type Result struct {
	FinalValue        float64
	AvgBuyPrice       float64
	TotalSharesBought int
	NumTrades         int
}

// Strategy is a leaderboard bot's trading style. Implementations draw any
// randomness from rng so a day's leaderboard is reproducible.
type Strategy interface {
	Name() string
	Simulate(prices []float64, startingCash float64, rng *random.Seeded) Result
}

func idle(prices []float64, startingCash float64) Result {
	avg := 0.0
	if len(prices) > 0 {
		avg = prices[0]
	}
	return Result{FinalValue: startingCash, AvgBuyPrice: avg}
}

func result(p *portfolio, prices []float64) Result {
	return Result{
		FinalValue:        p.cash,
		AvgBuyPrice:       p.averageBuy(prices[0]),
		TotalSharesBought: p.bought,
		NumTrades:         p.trades,
	}
}

// BuyAndHold invests 90-100% of cash at the first price and sells at the last.
type BuyAndHold struct{}

func (BuyAndHold) Name() string { return "Buy and Hold" }

func (BuyAndHold) Simulate(prices []float64, startingCash float64, rng *random.Seeded) Result {
	if len(prices) == 0 {
		return idle(prices, startingCash)
	}
	ratio := 0.9 + rng.Next()*0.1

	p := newPortfolio(startingCash)
	p.buy(startingCash*ratio, prices[0])
	p.liquidate(prices[len(prices)-1])

	r := result(p, prices)
	r.AvgBuyPrice = prices[0]
	r.NumTrades = 1
	return r
}

// Momentum trades consecutive moves. Higher Aggressiveness (0..1) reacts to
// shorter runs and commits more per trade.
type Momentum struct {
	Aggressiveness float64
}

func (m Momentum) Name() string { return fmt.Sprintf("Momentum (%.1fx)", m.Aggressiveness) }

func (m Momentum) Simulate(prices []float64, startingCash float64, _ *random.Seeded) Result {
	if len(prices) == 0 {
		return idle(prices, startingCash)
	}
	threshold := int(math.Max(1, math.Floor(3-m.Aggressiveness)))
	perTrade := 0.2 + m.Aggressiveness*0.15
	sellFraction := 0.3 + m.Aggressiveness*0.2

	p := newPortfolio(startingCash)
	var mom momentum
	for i := 3; i < len(prices)-1; i++ {
		mom.update(prices, i)
		price := prices[i]

		if mom.rising >= threshold && p.cash > startingCash*perTrade {
			p.buy(p.cash*perTrade, price)
		} else if p.shares > 0 && mom.falling >= threshold {
			p.sell(sellFraction, price)
		}
	}
	p.liquidate(prices[len(prices)-1])
	return result(p, prices)
}

// DCA buys a fixed amount every 20-40 points and holds to the end.
type DCA struct{}

func (DCA) Name() string { return "DCA" }

func (DCA) Simulate(prices []float64, startingCash float64, rng *random.Seeded) Result {
	if len(prices) == 0 {
		return idle(prices, startingCash)
	}
	interval := rng.NextInt(20, 40)
	numBuys := len(prices) / interval
	perBuy := startingCash / float64(numBuys+1)

	p := newPortfolio(startingCash)
	for i := interval; i < len(prices); i += interval {
		if p.cash >= perBuy {
			p.buy(perBuy, prices[i])
		}
	}
	p.liquidate(prices[len(prices)-1])

	r := result(p, prices)
	r.NumTrades = numBuys
	return r
}

const (
	reversionWindow    = 20
	reversionThreshold = 0.03
)

// MeanReversion buys 3% below and sells 3% above the trailing 20-point mean.
type MeanReversion struct{}

func (MeanReversion) Name() string { return "Mean Reversion" }

func (MeanReversion) Simulate(prices []float64, startingCash float64, _ *random.Seeded) Result {
	if len(prices) == 0 {
		return idle(prices, startingCash)
	}
	p := newPortfolio(startingCash)
	for i := reversionWindow; i < len(prices)-1; i++ {
		price := prices[i]
		mean, err := calculator.CalculateSMA(prices[:i], reversionWindow)
		if err != nil || mean == 0 {
			continue
		}
		deviation := (price - mean) / mean

		if deviation < -reversionThreshold && p.cash > startingCash*0.3 {
			p.buy(p.cash*0.3, price)
		} else if p.shares > 0 && deviation > reversionThreshold {
			p.sell(0.4, price)
		}
	}
	p.liquidate(prices[len(prices)-1])
	return result(p, prices)
}

// RandomTrader makes 3-8 trades at random points.
type RandomTrader struct{}

func (RandomTrader) Name() string { return "Random" }

func (RandomTrader) Simulate(prices []float64, startingCash float64, rng *random.Seeded) Result {
	if len(prices) == 0 {
		return idle(prices, startingCash)
	}
	lo, hi := 10, len(prices)-10
	if hi < lo {
		lo, hi = 0, len(prices)-1
	}

	p := newPortfolio(startingCash)
	trades := rng.NextInt(3, 8)
	for t := 0; t < trades; t++ {
		price := prices[rng.NextInt(lo, hi)]

		if rng.Next() > 0.5 && p.cash > startingCash*0.2 {
			p.buy(p.cash*(0.2+rng.Next()*0.3), price)
		} else if p.shares > 0 {
			p.sell(0.3+rng.Next()*0.4, price)
		}
	}
	p.liquidate(prices[len(prices)-1])
	return result(p, prices)
}

// Pick chooses a strategy with the leaderboard's weighting: 15% buy and hold,
// 35% momentum, 15% DCA, 15% mean reversion, 20% random.
func Pick(rng *random.Seeded) Strategy {
	roll := rng.Next()
	switch {
	case roll < 0.15:
		return BuyAndHold{}
	case roll < 0.5:
		aggr := rng.NextGaussian(0.5, 0.3)
		return Momentum{Aggressiveness: math.Max(0, math.Min(1, aggr))}
	case roll < 0.65:
		return DCA{}
	case roll < 0.8:
		return MeanReversion{}
	default:
		return RandomTrader{}
	}
}
