package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"Tradle/internal/calculator"
	"Tradle/internal/model"
	"Tradle/internal/scoring"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	warning   = lipgloss.AdaptiveColor{Light: "#C2410C", Dark: "#FB923C"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(highlight).
			Padding(0, 2).
			Bold(true)

	labelStyle = lipgloss.NewStyle().Foreground(subtle).Width(16)
	valueStyle = lipgloss.NewStyle().Bold(true)
	goodStyle  = lipgloss.NewStyle().Foreground(special).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(highlight).
			Padding(0, 1)
)

const sparkWidth = 60

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
}

// sparkline compresses prices into width block characters. A flat series
// sits mid-height.
func sparkline(prices []float64, width int) string {
	if len(prices) == 0 {
		return ""
	}
	high, low, err := calculator.PriceRange(prices)
	if err != nil {
		return ""
	}
	if width > len(prices) {
		width = len(prices)
	}
	var b strings.Builder
	for i := 0; i < width; i++ {
		p := prices[i*(len(prices)-1)/max(width-1, 1)]
		pos, err := calculator.RangePosition(p, high, low)
		if err != nil {
			return ""
		}
		b.WriteRune(sparkRunes[int(pos*float64(len(sparkRunes)-1))])
	}
	return b.String()
}

func renderChallenge(ch *model.Challenge) string {
	title := headerStyle.Render(fmt.Sprintf("TRADLE #%d  %s", ch.Day, model.DateKey(ch.ChallengeDate)))

	rows := []string{
		row("Stock", fmt.Sprintf("%s (%s)", ch.CompanyName, ch.Symbol)),
		row("Window", fmt.Sprintf("%s → %s, %d trading days",
			model.DateKey(ch.DateRange.StartDate), model.DateKey(ch.DateRange.EndDate), ch.TradingDays)),
		row("Starting cash", scoring.FormatCurrency(ch.Params.StartingCash)),
		row("Target", fmt.Sprintf("%s (+%.0f%%)", scoring.FormatCurrency(ch.Params.TargetValue), ch.Params.TargetReturnPercentage)),
		row("First price", scoring.FormatCurrency(ch.Params.InitialStockPrice)),
		"",
		row("Par final", scoring.FormatCurrency(ch.Par.FinalValue)),
		row("Par avg buy", scoring.FormatCurrency(ch.Par.AverageBuyPrice)),
		row("Par shares", fmt.Sprintf("%d", ch.Par.TotalSharesBought)),
		row("Par PPT", scoring.FormatCurrency(ch.Par.ProfitPerTrade)),
		row("Par efficiency", fmt.Sprintf("%.1f%%", ch.Par.Efficiency*100)),
		row("Tradability", fmt.Sprintf("%.2f", ch.Tradability)),
	}
	if ch.Simulated {
		rows = append(rows, "", warnStyle.Render("simulated price data"))
	}
	rows = append(rows, "", goodStyle.Render(sparkline(model.Prices(ch.PriceData), sparkWidth)))

	return lipgloss.JoinVertical(lipgloss.Left, title, boxStyle.Render(strings.Join(rows, "\n")))
}

func renderLeaderboard(day int, target float64, entries []model.BotEntry) string {
	title := headerStyle.Render(fmt.Sprintf("TRADLE #%d LEADERBOARD", day))
	if len(entries) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, "no entries")
	}

	nameStyle := lipgloss.NewStyle().Width(22)
	stratStyle := lipgloss.NewStyle().Width(16).Foreground(subtle)
	moneyStyle := lipgloss.NewStyle().Width(14).Align(lipgloss.Right)

	lines := make([]string, 0, len(entries))
	for i, e := range entries {
		final := moneyStyle.Render(scoring.FormatCurrency(e.FinalValue))
		if e.FinalValue >= target {
			final = goodStyle.Inherit(moneyStyle).Render(scoring.FormatCurrency(e.FinalValue))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			fmt.Sprintf("%3d. ", i+1),
			nameStyle.Render(e.Name),
			stratStyle.Render(e.Strategy),
			final,
			fmt.Sprintf("  %+7.2f%%  x%d", e.PercentageChange, e.NumTries),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, boxStyle.Render(strings.Join(lines, "\n")))
}
