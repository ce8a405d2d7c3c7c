// Package scoring grades a finished game against the challenge's par.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"Tradle/internal/model"
)

const (
	markNoTrade = "⬛"
	markBetter  = "🟩"
	markWorse   = "🟥"
	markHit     = "✅"
	markMiss    = "❌"
)

// ProfitPerTrade is (final - cash) / shares bought, 0 when nothing was bought.
func ProfitPerTrade(stats model.PlayerStats, params model.GameParameters) float64 {
	if stats.TotalSharesBought <= 0 {
		return 0
	}
	return (stats.FinalValue - params.StartingCash) / float64(stats.TotalSharesBought)
}

// Compare grades a player on three axes: average buy price at or below par,
// profit per trade at or above par (always better when par never traded), and
// final value at or above target.
func Compare(stats model.PlayerStats, params model.GameParameters, par model.ParPerformance) model.Grade {
	ppt := ProfitPerTrade(stats, params)
	g := model.Grade{
		Traded:               stats.TotalSharesBought > 0,
		TargetMet:            stats.FinalValue >= params.TargetValue,
		PlayerProfitPerTrade: ppt,
	}
	if params.StartingCash > 0 {
		g.ReturnPercentage = (stats.FinalValue - params.StartingCash) / params.StartingCash * 100
	}
	if g.Traded {
		g.BuyPriceBetter = stats.AverageBuyPrice <= par.AverageBuyPrice
		g.ProfitPerTradeBetter = math.IsNaN(par.ProfitPerTrade) || ppt >= par.ProfitPerTrade
	}
	return g
}

// ShareLine renders a grade as three marks.
func ShareLine(g model.Grade) string {
	var b strings.Builder
	switch {
	case !g.Traded:
		b.WriteString(markNoTrade)
	case g.BuyPriceBetter:
		b.WriteString(markBetter)
	default:
		b.WriteString(markWorse)
	}
	switch {
	case !g.Traded:
		b.WriteString(markNoTrade)
	case g.ProfitPerTradeBetter:
		b.WriteString(markBetter)
	default:
		b.WriteString(markWorse)
	}
	if g.TargetMet {
		b.WriteString(markHit)
	} else {
		b.WriteString(markMiss)
	}
	return b.String()
}

// ShareText is the multi-line result players paste into chats.
func ShareText(day int, stats model.PlayerStats, g model.Grade) string {
	sign := ""
	if g.ReturnPercentage >= 0 {
		sign = "+"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Tradle #%d %s\n", day, ShareLine(g))
	fmt.Fprintf(&b, "Final Value: %s (%s%s%%)", FormatCurrency(stats.FinalValue), sign,
		decimal.NewFromFloat(g.ReturnPercentage).StringFixed(1))
	if g.Traded {
		fmt.Fprintf(&b, "\nPPT: %s", FormatCurrency(g.PlayerProfitPerTrade))
	}
	b.WriteString("\n\nPlay at tradle.game")
	return b.String()
}

// FormatCurrency renders v as US dollars with thousands separators.
func FormatCurrency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "N/A"
	}
	s := decimal.NewFromFloat(v).Abs().StringFixed(2)
	whole, frac := s[:len(s)-3], s[len(s)-3:]

	var b strings.Builder
	if v < 0 && s != "0.00" {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)
	return b.String()
}
