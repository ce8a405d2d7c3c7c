// Package daterange draws the historical window a challenge is cut from.
package daterange

import (
	"math"
	"time"

	"Tradle/internal/model"
	"Tradle/internal/random"
)

const (
	EarliestStartYear = 2012
	startYearSpan     = 9 // 2012..2020, leaves room for a 5-year window
	MaxDurationYears  = 5
	MinTradingDays    = 250
	tradingDaysPerYr  = 252.0
	calendarDaysPerYr = 365.0
)

// LatestEndDate is the last date any window may reach.
var LatestEndDate = time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)

// Generate draws a candidate window from seed. It does not retry; callers
// check Valid and move to the next seed.
func Generate(seed int64) model.DateRange {
	r := random.New(seed)

	startYear := EarliestStartYear + int(math.Floor(r.Next()*startYearSpan))
	startMonth := int(math.Floor(r.Next()*12)) + 1
	startDay := int(math.Floor(r.Next()*28)) + 1
	duration := 1 + int(math.Floor(r.Next()*MaxDurationYears))

	start := time.Date(startYear, time.Month(startMonth), startDay, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(duration, 0, 0)
	if end.After(LatestEndDate) {
		end = LatestEndDate
	}

	return model.DateRange{
		StartDate:   start,
		EndDate:     end,
		TradingDays: EstimateTradingDays(start, end),
	}
}

// EstimateTradingDays approximates trading days as ceil(calendarDays * 252/365).
func EstimateTradingDays(start, end time.Time) int {
	days := math.Ceil(end.Sub(start).Hours() / 24)
	if days <= 0 {
		return 0
	}
	return int(math.Ceil(days * tradingDaysPerYr / calendarDaysPerYr))
}

// Valid reports whether the window holds enough history for a full game.
func Valid(r model.DateRange) bool {
	return r.TradingDays >= MinTradingDays
}

// Fallback is the safe two-year window used when no drawn window is valid.
func Fallback() model.DateRange {
	return model.DateRange{
		StartDate:   time.Date(2021, time.December, 31, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC),
		TradingDays: 504,
	}
}
