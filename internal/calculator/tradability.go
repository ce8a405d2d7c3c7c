package calculator

import "math"

const (
	minTradabilityPoints = 20
	trendEdge            = 10
	trendWindow          = 6
	trendThreshold       = 0.02
	trendChangesForMax   = 10
)

type trend int

const (
	trendNeutral trend = iota
	trendUp
	trendDown
)

// Tradability scores 0..1 how much trading opportunity a playback series offers.
// Volatility relative to the opening price weighs 70%, direction changes 30%.
func Tradability(prices []float64) float64 {
	if len(prices) < minTradabilityPoints || prices[0] == 0 {
		return 0
	}

	high, low, _ := PriceRange(prices)
	volatility := (high - low) / prices[0]

	changes := 0
	current := trendNeutral
	for i := trendEdge; i < len(prices)-trendEdge; i++ {
		recent := Mean(prices[i-trendWindow+1 : i+1])
		future := Mean(prices[i : i+trendWindow])
		if recent == 0 {
			continue
		}
		pct := (future - recent) / recent

		next := trendNeutral
		switch {
		case pct > trendThreshold:
			next = trendUp
		case pct < -trendThreshold:
			next = trendDown
		}
		if next != trendNeutral && next != current {
			changes++
			current = next
		}
	}

	trendScore := math.Min(1, float64(changes)/trendChangesForMax)
	return math.Min(1, volatility*0.7+trendScore*0.3)
}
