package model

// PlayerStats is what the game loop reports at the end of a session.
type PlayerStats struct {
	FinalValue        float64
	AverageBuyPrice   float64
	TotalSharesBought int
}

// Grade is the player-vs-par comparison.
type Grade struct {
	Traded               bool
	BuyPriceBetter       bool
	ProfitPerTradeBetter bool
	TargetMet            bool
	PlayerProfitPerTrade float64
	ReturnPercentage     float64
}
