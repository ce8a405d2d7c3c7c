// Package random provides the reproducible generators every daily draw goes through.
package random

import "math"

const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

// Seeded is a linear-congruential generator. Two instances with the same seed
// produce the same sequence when called in the same order.
type Seeded struct {
	seed int64
}

// New creates a generator from seed.
func New(seed int64) *Seeded {
	return &Seeded{seed: seed}
}

// Next returns a float in [0,1).
func (r *Seeded) Next() float64 {
	r.seed = (r.seed*lcgMultiplier + lcgIncrement) % lcgModulus
	if r.seed < 0 {
		r.seed += lcgModulus
	}
	return float64(r.seed) / lcgModulus
}

// NextInt returns an integer in [min, max], both inclusive.
func (r *Seeded) NextInt(min, max int) int {
	return int(math.Floor(r.Next()*float64(max-min+1))) + min
}

// NextGaussian draws from N(mean, stdDev) via Box-Muller over two draws.
func (r *Seeded) NextGaussian(mean, stdDev float64) float64 {
	u1 := r.Next()
	u2 := r.Next()
	if u1 == 0 {
		// log(0) is -Inf; the LCG can emit exactly 0.
		u1 = 1.0 / lcgModulus
	}
	z0 := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return z0*stdDev + mean
}

// SinFraction is a stateless single draw in [0,1) derived from seed.
func SinFraction(seed int64) float64 {
	x := math.Sin(float64(seed)) * 10000
	return x - math.Floor(x)
}

// DailySeed encodes a calendar date as YYYYMMDD.
func DailySeed(year, month, day int) int64 {
	return int64(year*10000 + month*100 + day)
}
