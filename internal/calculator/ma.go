package calculator

import "errors"

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// Mean is the arithmetic mean of prices, 0 for an empty slice.
func Mean(prices []float64) float64 {
	if len(prices) == 0 {
		return 0
	}
	avg, _ := CalculateSMA(prices, len(prices))
	return avg
}
