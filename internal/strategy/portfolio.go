package strategy

import "math"

// portfolio tracks cash and whole shares through a simulated session.
type portfolio struct {
	cash      float64
	shares    int
	bought    int
	costBasis float64
	trades    int
}

func newPortfolio(cash float64) *portfolio {
	return &portfolio{cash: cash}
}

// buy spends up to amount on whole shares at price and reports whether a
// trade happened.
func (p *portfolio) buy(amount, price float64) bool {
	if price <= 0 {
		return false
	}
	n := int(math.Floor(amount / price))
	if n <= 0 {
		return false
	}
	cost := float64(n) * price
	if cost > p.cash {
		return false
	}
	p.cash -= cost
	p.shares += n
	p.bought += n
	p.costBasis += cost
	p.trades++
	return true
}

// sell sells floor(fraction * shares) at price.
func (p *portfolio) sell(fraction, price float64) bool {
	n := int(math.Floor(float64(p.shares) * fraction))
	if n <= 0 {
		return false
	}
	p.cash += float64(n) * price
	p.shares -= n
	p.trades++
	return true
}

func (p *portfolio) liquidate(price float64) {
	if p.shares > 0 {
		p.cash += float64(p.shares) * price
		p.shares = 0
	}
}

func (p *portfolio) averageBuy(fallback float64) float64 {
	if p.bought == 0 {
		return fallback
	}
	return p.costBasis / float64(p.bought)
}

// momentum counts consecutive two-step moves over the last three prices.
type momentum struct {
	rising  int
	falling int
}

func (m *momentum) update(prices []float64, i int) {
	cur, prev, prevPrev := prices[i], prices[i-1], prices[i-2]
	switch {
	case cur > prev && prev > prevPrev:
		m.rising++
		m.falling = 0
	case cur < prev && prev < prevPrev:
		m.falling++
		m.rising = 0
	default:
		m.rising = 0
		m.falling = 0
	}
}
