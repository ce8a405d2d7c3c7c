package collector

import (
	"math"
	"time"

	"Tradle/internal/calculator"
	"Tradle/internal/model"
	"Tradle/internal/random"
)

const (
	syntheticVolatility    = 0.02
	syntheticReversion     = 0.001
	syntheticFloor         = 10.0
	syntheticBodySpread    = 0.01
	syntheticWickSpread    = 0.02
	syntheticMinVolume     = 1_000_000
	syntheticVolumeSpread  = 10_000_000
	syntheticBaseOffset    = 50
	syntheticBasePriceSpan = 400
)

// BasePrice is the price a synthetic series for symbol centres on.
func BasePrice(symbol string) float64 {
	sum := 0
	for i := 0; i < len(symbol); i++ {
		sum += int(symbol[i])
	}
	return float64(syntheticBaseOffset + sum%syntheticBasePriceSpan)
}

// SyntheticSeed derives a reproducible generator seed for a symbol and window.
func SyntheticSeed(symbol string, start, end time.Time) int64 {
	seed := int64(BasePrice(symbol)) * 7919
	seed += random.DailySeed(start.Year(), int(start.Month()), start.Day())
	seed += random.DailySeed(end.Year(), int(end.Month()), end.Day())
	return seed
}

// Synthetic generates a mean-reverting random walk with one bar per weekday
// between start and end inclusive.
func Synthetic(symbol string, start, end time.Time, rng *random.Seeded) []model.RawPricePoint {
	base := BasePrice(symbol)
	price := base

	var bars []model.RawPricePoint
	for day := dateOnly(start); !day.After(dateOnly(end)); day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}

		change := (rng.Next() - 0.5) * 2 * syntheticVolatility
		reversion := (base - price) * syntheticReversion
		price = math.Max(syntheticFloor, price*(1+change+reversion))

		open := price * (1 + (rng.Next()-0.5)*syntheticBodySpread)
		cls := price * (1 + (rng.Next()-0.5)*syntheticBodySpread)
		high := math.Max(open, cls) * (1 + rng.Next()*syntheticWickSpread)
		low := math.Min(open, cls) * (1 - rng.Next()*syntheticWickSpread)
		volume := math.Floor(syntheticMinVolume + rng.Next()*syntheticVolumeSpread)

		bars = append(bars, model.RawPricePoint{
			Date:   day,
			Open:   calculator.RoundCents(open),
			High:   calculator.RoundCents(high),
			Low:    calculator.RoundCents(low),
			Close:  calculator.RoundCents(cls),
			Volume: volume,
		})
		price = cls
	}
	return bars
}
