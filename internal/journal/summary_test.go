package journal

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/DevelDoe/moms-journal-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trade(pl float64, date time.Time) models.Trade {
	return models.Trade{
		Symbol:     "AAPL",
		Side:       models.TradeSideLongSell,
		Quantity:   100,
		ProfitLoss: pl,
		Date:       date,
		AccountNr:  "U1234567",
	}
}

func TestCalculateSummaries_Empty(t *testing.T) {
	assert.Empty(t, CalculateSummaries(nil))
	assert.Empty(t, CalculateSummaries([]models.Trade{}))
}

func TestCalculateSummaries_SingleDay(t *testing.T) {
	day := time.Date(2024, 5, 8, 15, 0, 0, 0, time.UTC)
	summaries := CalculateSummaries([]models.Trade{
		trade(100, day),
		trade(-50, day.Add(time.Hour)),
		trade(30, day.Add(2*time.Hour)),
	})
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.Equal(t, "2024-05-08", s.Date)
	assert.Equal(t, 3, s.TotalTrades)
	assert.Equal(t, 2, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.Equal(t, 80.0, s.TotalProfitLoss)
	assert.Equal(t, 66.67, s.Accuracy)
	assert.Equal(t, 2.6, s.ProfitToLossRatio) // 130 / 50
	assert.Equal(t, "U1234567", s.AccountNr)
}

func TestCalculateSummaries_ZeroPLTradeIsNeitherWinNorLoss(t *testing.T) {
	day := time.Date(2024, 5, 8, 15, 0, 0, 0, time.UTC)
	summaries := CalculateSummaries([]models.Trade{
		trade(0, day),
		trade(10, day),
	})
	require.Len(t, summaries, 1)
	assert.Equal(t, 2, summaries[0].TotalTrades)
	assert.Equal(t, 1, summaries[0].Wins)
	assert.Equal(t, 0, summaries[0].Losses)
	assert.Equal(t, 50.0, summaries[0].Accuracy)
}

func TestCalculateSummaries_UnboundedRatio(t *testing.T) {
	day := time.Date(2024, 5, 8, 15, 0, 0, 0, time.UTC)
	summaries := CalculateSummaries([]models.Trade{
		trade(100, day),
		trade(25, day),
	})
	require.Len(t, summaries, 1)
	assert.True(t, math.IsInf(summaries[0].ProfitToLossRatio, 1))

	// encoding/json can't carry IEEE infinity; the wire shows "Infinity".
	raw, err := json.Marshal(summaries[0])
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "Infinity", decoded["profitToLossRatio"])
}

func TestCalculateSummaries_BucketsByUTCDay(t *testing.T) {
	// 23:59 UTC and 00:01 UTC the next day land in different buckets no
	// matter what the host timezone says.
	summaries := CalculateSummaries([]models.Trade{
		trade(10, time.Date(2024, 5, 8, 23, 59, 0, 0, time.UTC)),
		trade(-5, time.Date(2024, 5, 9, 0, 1, 0, 0, time.UTC)),
		trade(20, time.Date(2024, 5, 9, 10, 0, 0, 0, time.UTC)),
	})
	require.Len(t, summaries, 2)
	assert.Equal(t, "2024-05-08", summaries[0].Date)
	assert.Equal(t, 1, summaries[0].TotalTrades)
	assert.Equal(t, "2024-05-09", summaries[1].Date)
	assert.Equal(t, 2, summaries[1].TotalTrades)
	assert.Equal(t, 15.0, summaries[1].TotalProfitLoss)
}

func TestCalculateSummaries_NonUTCTimestampsNormalized(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)
	// 22:00 EST on May 8 is 03:00 UTC on May 9.
	summaries := CalculateSummaries([]models.Trade{
		trade(10, time.Date(2024, 5, 8, 22, 0, 0, 0, est)),
	})
	require.Len(t, summaries, 1)
	assert.Equal(t, "2024-05-09", summaries[0].Date)
}

func TestCalculateSummaries_Idempotent(t *testing.T) {
	trades := []models.Trade{
		trade(100, time.Date(2024, 5, 8, 15, 0, 0, 0, time.UTC)),
		trade(-20, time.Date(2024, 5, 9, 15, 0, 0, 0, time.UTC)),
		trade(40, time.Date(2024, 5, 7, 15, 0, 0, 0, time.UTC)),
	}
	first := CalculateSummaries(trades)
	second := CalculateSummaries(trades)
	assert.Equal(t, first, second)

	// Output is in ascending date order regardless of trade order.
	require.Len(t, first, 3)
	assert.Equal(t, "2024-05-07", first[0].Date)
	assert.Equal(t, "2024-05-08", first[1].Date)
	assert.Equal(t, "2024-05-09", first[2].Date)
}

func TestEngineToSummaryPipeline(t *testing.T) {
	// End to end: raw orders through the engine into daily summaries.
	orders := []models.Order{
		order("AAPL", "buy", 100, 10, 0),
		order("AAPL", "sell", 100, 12, 30),   // +200
		order("TSLA", "SLD", 50, 200, 60),    // open short
		order("TSLA", "BOT", 50, 205, 90),    // -250
	}
	summaries := CalculateSummaries(CalculateTrades(orders))
	require.Len(t, summaries, 1)
	assert.Equal(t, 2, summaries[0].TotalTrades)
	assert.Equal(t, 1, summaries[0].Wins)
	assert.Equal(t, 1, summaries[0].Losses)
	assert.Equal(t, -50.0, summaries[0].TotalProfitLoss)
	assert.Equal(t, 0.8, summaries[0].ProfitToLossRatio)
}
