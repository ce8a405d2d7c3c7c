package model

import "github.com/google/uuid"

// BotEntry is a synthetic leaderboard row for a challenge day.
type BotEntry struct {
	ID               uuid.UUID `json:"id"`
	Day              int       `json:"day"`
	Name             string    `json:"name"`
	Strategy         string    `json:"strategy"`
	FinalValue       float64   `json:"final_value"`
	PercentageChange float64   `json:"percentage_change_of_value"`
	AverageBuy       float64   `json:"avg_buy"`
	ProfitPerTrade   float64   `json:"ppt"`
	NumTries         int       `json:"num_tries"`
}
