package model

import "time"

// RawPricePoint is a single daily OHLCV bar.
type RawPricePoint struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// CondensedPoint is one playback tick of a challenge.
type CondensedPoint struct {
	Timestamp int     `json:"timestamp"`
	Price     float64 `json:"price"`
	Volume    int64   `json:"volume,omitempty"`
}

// Prices extracts playback prices in order.
func Prices(points []CondensedPoint) []float64 {
	prices := make([]float64, len(points))
	for i, p := range points {
		prices[i] = p.Price
	}
	return prices
}
