// Package bots fills a day's leaderboard with reproducible synthetic players.
package bots

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"Tradle/internal/calculator"
	"Tradle/internal/model"
	"Tradle/internal/random"
	"Tradle/internal/strategy"
)

const (
	DefaultCount      = 100
	daySeedMultiplier = 12345

	performanceMean = 0.85
	performanceStd  = 0.25
	performanceMin  = 0.3
	performanceMax  = 1.5
	lossFloor       = 0.5
	minWinnersLow   = 3
	minWinnersHigh  = 10
	boostSpread     = 0.10
)

var botNamespace = uuid.MustParse("6f1c3c1e-2b7a-4a53-9a39-0d6e3b1f7c21")

// Stats summarises a generated leaderboard.
type Stats struct {
	Count      int
	Winners    int
	MinWinners int
	AvgFinal   float64
	MaxFinal   float64
	MinFinal   float64
}

// Seed is the generator seed for a challenge day.
func Seed(day int) int64 {
	return int64(day) * daySeedMultiplier
}

// Generate builds count bot entries for ch. The same challenge always yields
// the same entries, IDs included. At least 3-10 bots (drawn per day) finish at
// or above the target: the best of the rest are lifted to 100-110% of it.
func Generate(ch *model.Challenge, count int) ([]model.BotEntry, Stats) {
	if count <= 0 {
		count = DefaultCount
	}
	rng := random.New(Seed(ch.Day))
	prices := model.Prices(ch.PriceData)
	cash := ch.Params.StartingCash

	entries := make([]model.BotEntry, 0, count)
	shares := make([]int, 0, count)
	for i := 0; i < count; i++ {
		e, bought := entry(ch.Day, i, prices, cash, rng)
		entries = append(entries, e)
		shares = append(shares, bought)
	}

	minWinners := rng.NextInt(minWinnersLow, minWinnersHigh)
	boost(entries, shares, cash, ch.Params.TargetValue, minWinners, rng)

	return entries, summarise(entries, ch.Params.TargetValue, minWinners)
}

func entry(day, index int, prices []float64, cash float64, rng *random.Seeded) (model.BotEntry, int) {
	s := strategy.Pick(rng)
	r := s.Simulate(prices, cash, rng)

	mult := math.Max(performanceMin, math.Min(performanceMax, rng.NextGaussian(performanceMean, performanceStd)))
	final := math.Max(cash*lossFloor, cash+(r.FinalValue-cash)*mult)

	ppt := 0.0
	if r.TotalSharesBought > 0 {
		ppt = (final - cash) / float64(r.TotalSharesBought)
	}

	name := DisplayName(rng)
	tries := numTries(rng.Next())

	return model.BotEntry{
		ID:               BotID(day, index),
		Day:              day,
		Name:             name,
		Strategy:         s.Name(),
		FinalValue:       calculator.RoundCents(final),
		PercentageChange: calculator.RoundCents(percentChange(final, cash)),
		AverageBuy:       calculator.RoundCents(r.AvgBuyPrice),
		ProfitPerTrade:   calculator.RoundCents(ppt),
		NumTries:         tries,
	}, r.TotalSharesBought
}

// numTries maps a draw to 1-4 attempts, weighted towards one or two.
func numTries(roll float64) int {
	switch {
	case roll < 0.6:
		return 1
	case roll < 0.85:
		return 2
	case roll < 0.95:
		return 3
	default:
		return 4
	}
}

func boost(entries []model.BotEntry, shares []int, cash, target float64, minWinners int, rng *random.Seeded) {
	var losers []int
	winners := 0
	for i, e := range entries {
		if e.FinalValue >= target {
			winners++
		} else {
			losers = append(losers, i)
		}
	}
	if winners >= minWinners {
		return
	}
	sort.SliceStable(losers, func(a, b int) bool {
		return entries[losers[a]].FinalValue > entries[losers[b]].FinalValue
	})

	need := minWinners - winners
	for k := 0; k < need && k < len(losers); k++ {
		i := losers[k]
		final := target * (1 + rng.Next()*boostSpread)
		entries[i].FinalValue = calculator.RoundCents(final)
		entries[i].PercentageChange = calculator.RoundCents(percentChange(final, cash))
		if shares[i] > 0 {
			entries[i].ProfitPerTrade = calculator.RoundCents((final - cash) / float64(shares[i]))
		}
	}
}

func summarise(entries []model.BotEntry, target float64, minWinners int) Stats {
	st := Stats{Count: len(entries), MinWinners: minWinners}
	if len(entries) == 0 {
		return st
	}
	finals := make([]float64, len(entries))
	for i, e := range entries {
		finals[i] = e.FinalValue
		if e.FinalValue >= target {
			st.Winners++
		}
	}
	st.MaxFinal, st.MinFinal, _ = calculator.PriceRange(finals)
	st.AvgFinal = calculator.RoundCents(calculator.Mean(finals))
	return st
}

func percentChange(final, cash float64) float64 {
	if cash == 0 {
		return 0
	}
	return (final - cash) / cash * 100
}

// BotID is the stable identifier of the index-th bot on day.
func BotID(day, index int) uuid.UUID {
	return uuid.NewSHA1(botNamespace, []byte(fmt.Sprintf("%d/%d", day, index)))
}
