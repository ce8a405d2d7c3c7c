package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"Tradle/internal/model"
	"Tradle/internal/scoring"
)

// FormatAnnouncement is the daily message for a new challenge. The stock stays
// hidden: players only see the economics.
func FormatAnnouncement(ch *model.Challenge) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📈 <b>Tradle #%d</b> | %s\n\n", ch.Day, model.DateKey(ch.ChallengeDate))
	fmt.Fprintf(&b, "Starting cash: %s\n", scoring.FormatCurrency(ch.Params.StartingCash))
	fmt.Fprintf(&b, "Target: %s (+%.0f%%)\n", scoring.FormatCurrency(ch.Params.TargetValue), ch.Params.TargetReturnPercentage)
	fmt.Fprintf(&b, "History: %d trading days\n", ch.TradingDays)
	b.WriteString("\n60 seconds on the clock. Beat par, hit the target.\n")
	b.WriteString("Play at tradle.game")
	return b.String()
}

// FormatChallenge shows a stored challenge in full, answer included.
func FormatChallenge(ch *model.Challenge) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🗂 <b>Tradle #%d</b> | %s\n\n", ch.Day, model.DateKey(ch.ChallengeDate))
	fmt.Fprintf(&b, "Stock: <b>%s</b> (%s)\n", html.EscapeString(ch.CompanyName), html.EscapeString(ch.Symbol))
	if ch.Sector != "" {
		fmt.Fprintf(&b, "Sector: %s\n", html.EscapeString(ch.Sector))
	}
	fmt.Fprintf(&b, "Window: %s → %s (%d trading days)\n",
		model.DateKey(ch.DateRange.StartDate), model.DateKey(ch.DateRange.EndDate), ch.TradingDays)
	if ch.Simulated {
		b.WriteString("⚠️ simulated price data\n")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Starting cash: %s\n", scoring.FormatCurrency(ch.Params.StartingCash))
	fmt.Fprintf(&b, "Target: %s (+%.0f%%)\n", scoring.FormatCurrency(ch.Params.TargetValue), ch.Params.TargetReturnPercentage)
	fmt.Fprintf(&b, "Par final: %s | avg buy %s | PPT %s\n",
		scoring.FormatCurrency(ch.Par.FinalValue),
		scoring.FormatCurrency(ch.Par.AverageBuyPrice),
		scoring.FormatCurrency(ch.Par.ProfitPerTrade))
	fmt.Fprintf(&b, "Par efficiency: %.1f%% | tradability %.2f\n", ch.Par.Efficiency*100, ch.Tradability)
	return b.String()
}

// FormatLeaderboard lists the top entries of a day.
func FormatLeaderboard(day int, entries []model.BotEntry, limit int) string {
	if len(entries) == 0 {
		return fmt.Sprintf("No leaderboard for day %d yet.", day)
	}
	if limit <= 0 || limit > len(entries) {
		limit = len(entries)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🏆 <b>Tradle #%d leaderboard</b>\n\n", day)
	for i, e := range entries[:limit] {
		fmt.Fprintf(&b, "%2d. %s  %s (%+.2f%%) · %s\n",
			i+1, html.EscapeString(e.Name), scoring.FormatCurrency(e.FinalValue), e.PercentageChange, e.Strategy)
	}
	if limit < len(entries) {
		fmt.Fprintf(&b, "… and %d more\n", len(entries)-limit)
	}
	return b.String()
}

// FormatFailure reports a day with no challenge.
func FormatFailure(date time.Time, err error) string {
	return fmt.Sprintf("❌ <b>No challenge available</b> for %s\n\n%s",
		model.DateKey(date), html.EscapeString(err.Error()))
}

// HelpText lists the chat commands.
func HelpText() string {
	return "Commands:\n" +
		"• /today - today's challenge\n" +
		"• /day N - challenge N with its answer\n" +
		"• /bots [N] - leaderboard for today or day N"
}
