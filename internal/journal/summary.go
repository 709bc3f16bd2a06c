package journal

import (
	"math"
	"sort"

	"github.com/DevelDoe/moms-journal-api/internal/models"
)

// dayFormat buckets trades by UTC calendar day, so summaries don't shift with
// the deployment host's timezone.
const dayFormat = "2006-01-02"

// CalculateSummaries rolls realized trades up into one summary per UTC
// calendar day. The trades are expected to belong to a single user/account
// scope (the engine runs per scope); attribution is carried from the trades
// themselves. Pure function: the same trade set always yields the same
// summaries, in ascending date order.
//
// Zero-P&L trades count as neither win nor loss. ProfitToLossRatio is +Inf
// when the day has no losing trades; it is only meaningful when the day also
// has at least one win.
func CalculateSummaries(trades []models.Trade) []models.TradeSummary {
	byDay := make(map[string][]models.Trade)
	for _, t := range trades {
		day := t.Date.UTC().Format(dayFormat)
		byDay[day] = append(byDay[day], t)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	summaries := make([]models.TradeSummary, 0, len(days))
	for _, day := range days {
		group := byDay[day]

		var wins, losses int
		var totalProfitLoss, totalProfit, totalLoss float64
		for _, t := range group {
			totalProfitLoss += t.ProfitLoss
			switch {
			case t.ProfitLoss > 0:
				wins++
				totalProfit += t.ProfitLoss
			case t.ProfitLoss < 0:
				losses++
				totalLoss += math.Abs(t.ProfitLoss)
			}
		}

		accuracy := 0.0
		if len(group) > 0 {
			accuracy = round2(float64(wins) / float64(len(group)) * 100)
		}
		ratio := math.Inf(1)
		if totalLoss > 0 {
			ratio = totalProfit / totalLoss
		}

		summaries = append(summaries, models.TradeSummary{
			UserID:            group[0].UserID,
			AccountNr:         group[0].AccountNr,
			Date:              day,
			TotalProfitLoss:   totalProfitLoss,
			Accuracy:          accuracy,
			ProfitToLossRatio: ratio,
			TotalTrades:       len(group),
			Wins:              wins,
			Losses:            losses,
		})
	}

	return summaries
}
