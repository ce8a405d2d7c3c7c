package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	GameDurationSeconds = 60
	UpdatesPerSecond    = 5
	// TotalDataPoints is the fixed playback length of every challenge.
	TotalDataPoints = GameDurationSeconds * UpdatesPerSecond
)

// DateRange is a historical window a challenge is cut from.
type DateRange struct {
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	TradingDays int       `json:"trading_days"`
}

// GameParameters are the economics a player starts with.
type GameParameters struct {
	StartingCash           float64 `json:"starting_cash"`
	StartingShares         int     `json:"starting_shares"`
	TargetValue            float64 `json:"target_value"`
	InitialStockPrice      float64 `json:"initial_stock_price"`
	TargetReturnPercentage float64 `json:"target_return_percentage"`
}

// ParPerformance is the outcome of the reference strategy on a series.
// ProfitPerTrade is NaN when the strategy never bought.
type ParPerformance struct {
	AverageBuyPrice   float64 `json:"par_average_buy_price"`
	TotalSharesBought int     `json:"par_total_shares_bought"`
	FinalValue        float64 `json:"par_final_value"`
	CashRemaining     float64 `json:"par_cash_remaining"`
	ProfitPerTrade    float64 `json:"par_profit_per_trade"`
	Efficiency        float64 `json:"par_efficiency"`
}

// Challenge is the immutable daily record.
type Challenge struct {
	ID            uuid.UUID        `json:"id"`
	Day           int              `json:"day"`
	ChallengeDate time.Time        `json:"challenge_date"`
	Symbol        string           `json:"ticker_symbol"`
	CompanyName   string           `json:"company_name"`
	Sector        string           `json:"sector,omitempty"`
	WikiLink      string           `json:"wiki_link,omitempty"`
	InfoLink      string           `json:"stock_link,omitempty"`
	DateRange     DateRange        `json:"date_range"`
	TradingDays   int              `json:"trading_days"`
	Params        GameParameters   `json:"game_parameters"`
	Par           ParPerformance   `json:"par_performance"`
	PriceData     []CondensedPoint `json:"price_data"`
	Tradability   float64          `json:"tradability"`
	Simulated     bool             `json:"simulated"`
	CreatedAt     time.Time        `json:"created_at"`
}

// DateKey formats a calendar date the way challenges are keyed.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
