package random

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeeded_FirstDraw(t *testing.T) {
	r := New(1)
	// (1*9301 + 49297) % 233280 = 58598
	assert.InDelta(t, 58598.0/233280.0, r.Next(), 1e-12)
}

func TestSeeded_SameSeedSameSequence(t *testing.T) {
	for _, seed := range []int64{0, 1, 42, 20240115, 999999} {
		a, b := New(seed), New(seed)
		for i := 0; i < 500; i++ {
			require.Equal(t, a.Next(), b.Next(), "seed %d draw %d", seed, i)
		}
	}
}

func TestSeeded_NextInRange(t *testing.T) {
	r := New(20250101)
	for i := 0; i < 10000; i++ {
		v := r.Next()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestSeeded_NextIntInclusiveBounds(t *testing.T) {
	r := New(7)
	seen := map[int]bool{}
	for i := 0; i < 5000; i++ {
		v := r.NextInt(3, 8)
		require.GreaterOrEqual(t, v, 3)
		require.LessOrEqual(t, v, 8)
		seen[v] = true
	}
	assert.Len(t, seen, 6)
}

func TestSeeded_NextGaussianFinite(t *testing.T) {
	r := New(12345)
	for i := 0; i < 4000; i++ {
		v := r.NextGaussian(0.85, 0.25)
		require.False(t, math.IsNaN(v), "NaN draw")
		require.False(t, math.IsInf(v, 0), "Inf draw")
	}
}

func TestSeeded_NegativeSeedStaysInRange(t *testing.T) {
	r := New(-500000)
	for i := 0; i < 100; i++ {
		v := r.Next()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestSinFraction(t *testing.T) {
	for _, seed := range []int64{1, 2, 20240101, 20251231} {
		v := SinFraction(seed)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
		assert.Equal(t, v, SinFraction(seed))
	}
}

func TestDailySeed(t *testing.T) {
	assert.Equal(t, int64(20240315), DailySeed(2024, 3, 15))
}
