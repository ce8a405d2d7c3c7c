// Package condenser resamples a daily price history into the fixed-length
// series a challenge plays back.
package condenser

import (
	"math"

	"Tradle/internal/calculator"
	"Tradle/internal/model"
	"Tradle/internal/random"
)

const (
	jitterSpan = 4

	walkStart       = 100.0
	walkFloor       = 50.0
	rampFloor       = 10.0
	rampNoise       = 0.02
	fallbackVolume  = 1_000_000
	fallbackVolSpan = 5_000_000
)

// Condense turns raw into exactly model.TotalDataPoints playback points.
// Series no longer than the target are linearly interpolated; longer ones are
// sampled with a small jitter drawn from rng, keeping both endpoints. Empty
// input, or any failure while resampling, yields a synthetic series instead.
func Condense(raw []model.RawPricePoint, rng *random.Seeded) (out []model.CondensedPoint) {
	if rng == nil {
		rng = random.New(SeriesSeed(raw))
	}
	if len(raw) == 0 {
		return Fallback(raw, rng)
	}

	defer func() {
		if r := recover(); r != nil {
			out = Fallback(raw, rng)
		}
	}()

	var condensed []model.CondensedPoint
	if len(raw) <= model.TotalDataPoints {
		condensed = interpolate(raw, model.TotalDataPoints)
	} else {
		condensed = sample(raw, model.TotalDataPoints, rng)
	}

	for len(condensed) < model.TotalDataPoints {
		last := condensed[len(condensed)-1]
		condensed = append(condensed, model.CondensedPoint{
			Timestamp: len(condensed),
			Price:     last.Price,
			Volume:    last.Volume,
		})
	}
	return condensed[:model.TotalDataPoints]
}

func interpolate(raw []model.RawPricePoint, target int) []model.CondensedPoint {
	condensed := make([]model.CondensedPoint, 0, target)
	span := float64(len(raw) - 1)

	for i := 0; i < target; i++ {
		pos := float64(i) * span / float64(target-1)
		lower := int(math.Floor(pos))
		upper := int(math.Ceil(pos))

		if lower == upper {
			p := raw[lower]
			condensed = append(condensed, model.CondensedPoint{
				Timestamp: i,
				Price:     p.Close,
				Volume:    int64(p.Volume),
			})
			continue
		}

		lo, hi := raw[lower], raw[upper]
		frac := pos - float64(lower)
		condensed = append(condensed, model.CondensedPoint{
			Timestamp: i,
			Price:     calculator.RoundCents(lo.Close + (hi.Close-lo.Close)*frac),
			Volume:    int64(calculator.RoundHalfUp(lo.Volume + (hi.Volume-lo.Volume)*frac)),
		})
	}
	return condensed
}

// sample picks target points from a longer series. Jittered indices are
// clamped so playback stays in chronological order.
func sample(raw []model.RawPricePoint, target int, rng *random.Seeded) []model.CondensedPoint {
	n := len(raw)
	condensed := make([]model.CondensedPoint, 0, target)
	condensed = append(condensed, point(0, raw[0]))

	prev := 0
	for i := 1; i < target-1; i++ {
		base := int(math.Floor(float64(i)/float64(target-1)*float64(n-1) + 0.5))
		jitter := int(math.Floor((rng.Next() - 0.5) * jitterSpan))

		idx := base + jitter
		ceiling := n - 1 - (target - 1 - i)
		if idx > ceiling {
			idx = ceiling
		}
		if idx <= prev {
			idx = prev + 1
		}
		prev = idx
		condensed = append(condensed, point(i, raw[idx]))
	}

	condensed = append(condensed, point(target-1, raw[n-1]))
	return condensed
}

func point(ts int, p model.RawPricePoint) model.CondensedPoint {
	return model.CondensedPoint{Timestamp: ts, Price: p.Close, Volume: int64(p.Volume)}
}

// Fallback builds a synthetic playback series. With no raw data it is a
// random walk from 100 that never drops below 50; otherwise a noisy straight
// line from the first to the last close, floored at 10.
func Fallback(raw []model.RawPricePoint, rng *random.Seeded) []model.CondensedPoint {
	n := model.TotalDataPoints
	condensed := make([]model.CondensedPoint, 0, n)

	if len(raw) == 0 {
		price := walkStart
		for i := 0; i < n; i++ {
			price = math.Max(walkFloor, price+(rng.Next()-0.5)*2)
			condensed = append(condensed, model.CondensedPoint{
				Timestamp: i,
				Price:     calculator.RoundCents(price),
				Volume:    int64(math.Floor(fallbackVolume + rng.Next()*fallbackVolSpan)),
			})
		}
		return condensed
	}

	first := raw[0].Close
	last := raw[len(raw)-1].Close
	for i := 0; i < n; i++ {
		progress := float64(i) / float64(n-1)
		base := first + (last-first)*progress
		noise := (rng.Next() - 0.5) * (first * rampNoise)
		condensed = append(condensed, model.CondensedPoint{
			Timestamp: i,
			Price:     calculator.RoundCents(math.Max(rampFloor, base+noise)),
			Volume:    int64(math.Floor(fallbackVolume + rng.Next()*fallbackVolSpan)),
		})
	}
	return condensed
}

// SeriesSeed derives a jitter seed from the series itself so that the same
// raw history always condenses the same way.
func SeriesSeed(raw []model.RawPricePoint) int64 {
	seed := int64(len(raw))
	if len(raw) == 0 {
		return seed
	}
	first, last := raw[0].Date, raw[len(raw)-1].Date
	seed += random.DailySeed(first.Year(), int(first.Month()), first.Day())
	seed += random.DailySeed(last.Year(), int(last.Month()), last.Day())
	return seed
}
