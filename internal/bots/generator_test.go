package bots

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Tradle/internal/model"
	"Tradle/internal/random"
)

func challenge(day int, target float64) *model.Challenge {
	pts := make([]model.CondensedPoint, model.TotalDataPoints)
	for i := range pts {
		pts[i] = model.CondensedPoint{Timestamp: i, Price: 50 + 8*math.Sin(float64(i)/12) + float64(i)*0.02}
	}
	return &model.Challenge{
		Day:       day,
		PriceData: pts,
		Params: model.GameParameters{
			StartingCash:      1000,
			TargetValue:       target,
			InitialStockPrice: pts[0].Price,
		},
	}
}

func TestGenerate_Reproducible(t *testing.T) {
	a, sa := Generate(challenge(7, 1300), 100)
	b, sb := Generate(challenge(7, 1300), 100)

	assert.Equal(t, a, b)
	assert.Equal(t, sa, sb)

	c, _ := Generate(challenge(8, 1300), 100)
	assert.NotEqual(t, a[0].Name+a[1].Name+a[2].Name, c[0].Name+c[1].Name+c[2].Name)
}

func TestGenerate_Shape(t *testing.T) {
	entries, stats := Generate(challenge(3, 1300), 100)

	require.Len(t, entries, 100)
	assert.Equal(t, 100, stats.Count)
	ids := map[string]bool{}
	for i, e := range entries {
		assert.Equal(t, 3, e.Day)
		assert.NotEmpty(t, e.Name)
		assert.NotEmpty(t, e.Strategy)
		assert.GreaterOrEqual(t, e.FinalValue, 500.0, "bot %d", i)
		assert.GreaterOrEqual(t, e.NumTries, 1)
		assert.LessOrEqual(t, e.NumTries, 4)
		assert.Equal(t, BotID(3, i), e.ID)
		ids[e.ID.String()] = true
	}
	assert.Len(t, ids, 100)
}

func TestGenerate_MinimumWinners(t *testing.T) {
	// A target nobody reaches on their own forces the boost.
	target := 100000.0
	entries, stats := Generate(challenge(11, target), 100)

	assert.GreaterOrEqual(t, stats.MinWinners, 3)
	assert.LessOrEqual(t, stats.MinWinners, 10)
	assert.Equal(t, stats.MinWinners, stats.Winners)

	boosted := 0
	for _, e := range entries {
		if e.FinalValue >= target {
			boosted++
			assert.LessOrEqual(t, e.FinalValue, target*1.1+0.01)
			assert.InDelta(t, (e.FinalValue-1000)/1000*100, e.PercentageChange, 0.01)
		}
	}
	assert.Equal(t, stats.MinWinners, boosted)
}

func TestGenerate_DefaultCount(t *testing.T) {
	entries, _ := Generate(challenge(1, 1300), 0)
	assert.Len(t, entries, DefaultCount)
}

func TestGenerate_Stats(t *testing.T) {
	entries, stats := Generate(challenge(5, 1200), 50)

	max, min := entries[0].FinalValue, entries[0].FinalValue
	for _, e := range entries {
		max = math.Max(max, e.FinalValue)
		min = math.Min(min, e.FinalValue)
	}
	assert.Equal(t, max, stats.MaxFinal)
	assert.Equal(t, min, stats.MinFinal)
	assert.GreaterOrEqual(t, stats.Winners, stats.MinWinners)
}

func TestNumTries(t *testing.T) {
	assert.Equal(t, 1, numTries(0))
	assert.Equal(t, 2, numTries(0.6))
	assert.Equal(t, 3, numTries(0.9))
	assert.Equal(t, 4, numTries(0.99))
}

func TestSeed(t *testing.T) {
	assert.Equal(t, int64(12345), Seed(1))
	assert.Equal(t, int64(0), Seed(0))
}

func TestDisplayName(t *testing.T) {
	rng := random.New(99)
	seen := map[string]bool{}
	for i := 0; i < 300; i++ {
		name := DisplayName(rng)
		assert.NotEmpty(t, name)
		seen[name] = true
	}
	assert.Greater(t, len(seen), 150)

	assert.Equal(t, DisplayName(random.New(5)), DisplayName(random.New(5)))
}
