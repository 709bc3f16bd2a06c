package journal

import (
	"math/rand"
	"testing"
	"time"

	"github.com/DevelDoe/moms-journal-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 5, 8, 14, 30, 0, 0, time.UTC)

// order builds a test order n minutes after baseTime.
func order(symbol, side string, qty, price float64, minutes int) models.Order {
	return models.Order{
		Symbol:   symbol,
		Side:     side,
		Quantity: qty,
		Price:    price,
		Account:  "U1234567",
		Date:     baseTime.Add(time.Duration(minutes) * time.Minute),
	}
}

func TestNormalizeSide(t *testing.T) {
	tests := []struct {
		raw  string
		want Side
	}{
		{"buy", SideBuy},
		{"BUY", SideBuy},
		{"Buy", SideBuy},
		{"BOT", SideBuy},
		{"sell", SideSell},
		{"SELL", SideSell},
		{"Sell", SideSell},
		{"SLD", SideSell},
		{"bot", SideUnknown}, // exchange codes are case-sensitive
		{"sld", SideUnknown},
		{"short", SideUnknown},
		{"", SideUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSide(tt.raw))
		})
	}
}

func TestValidateOrders(t *testing.T) {
	valid := order("AAPL", "buy", 100, 10, 0)

	tests := []struct {
		name    string
		mutate  func(*models.Order)
		wantErr bool
	}{
		{"valid", func(o *models.Order) {}, false},
		{"missing symbol", func(o *models.Order) { o.Symbol = " " }, true},
		{"zero quantity", func(o *models.Order) { o.Quantity = 0 }, true},
		{"negative quantity", func(o *models.Order) { o.Quantity = -5 }, true},
		{"zero price", func(o *models.Order) { o.Price = 0 }, true},
		{"negative price", func(o *models.Order) { o.Price = -1 }, true},
		{"missing date", func(o *models.Order) { o.Date = time.Time{} }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := valid
			tt.mutate(&bad)
			// One bad order rejects the whole batch.
			err := ValidateOrders([]models.Order{valid, bad})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.NoError(t, ValidateOrders(nil))
}

func TestCalculateTrades_EmptyInput(t *testing.T) {
	assert.Empty(t, CalculateTrades(nil))
	assert.Empty(t, CalculateTrades([]models.Order{}))
}

func TestCalculateTrades_OpeningEmitsNothing(t *testing.T) {
	trades := CalculateTrades([]models.Order{
		order("AAPL", "buy", 100, 10, 0),
		order("AAPL", "buy", 100, 20, 1),
		order("TSLA", "sell", 50, 200, 2), // opens a short, also no trade
	})
	assert.Empty(t, trades)
}

func TestCalculateTrades_AverageCostAccumulation(t *testing.T) {
	// Two buys average to 200 @ 15; the full close realizes against that.
	trades := CalculateTrades([]models.Order{
		order("AAPL", "buy", 100, 10, 0),
		order("AAPL", "buy", 100, 20, 1),
		order("AAPL", "sell", 200, 15, 2),
	})
	require.Len(t, trades, 1)
	assert.Equal(t, models.TradeSideLongSell, trades[0].Side)
	assert.Equal(t, 200.0, trades[0].Quantity)
	assert.Equal(t, 15.0, trades[0].BuyPrice)
	assert.Equal(t, 15.0, trades[0].SellPrice)
	assert.Equal(t, 0.0, trades[0].ProfitLoss)
}

func TestCalculateTrades_PartialClose(t *testing.T) {
	trades := CalculateTrades([]models.Order{
		order("AAPL", "buy", 100, 10, 0),
		order("AAPL", "sell", 40, 12, 1),
		order("AAPL", "sell", 60, 11, 2),
	})
	require.Len(t, trades, 2)

	assert.Equal(t, 40.0, trades[0].Quantity)
	assert.Equal(t, 10.0, trades[0].BuyPrice)
	assert.Equal(t, 80.0, trades[0].ProfitLoss)

	// Remaining 60 shares still carry the original average.
	assert.Equal(t, 60.0, trades[1].Quantity)
	assert.Equal(t, 10.0, trades[1].BuyPrice)
	assert.Equal(t, 60.0, trades[1].ProfitLoss)
}

func TestCalculateTrades_FlipLongToShort(t *testing.T) {
	// Over-sell closes the long and opens a short for the remainder with no
	// second trade; the short leg is realized only when covered later.
	trades := CalculateTrades([]models.Order{
		order("AAPL", "buy", 100, 10, 0),
		order("AAPL", "sell", 150, 12, 1),
	})
	require.Len(t, trades, 1)
	assert.Equal(t, models.TradeSideLongSell, trades[0].Side)
	assert.Equal(t, 100.0, trades[0].Quantity)
	assert.Equal(t, 10.0, trades[0].BuyPrice)
	assert.Equal(t, 12.0, trades[0].SellPrice)
	assert.Equal(t, 200.0, trades[0].ProfitLoss)

	// Cover the flipped -50 @ 12 to observe the new leg's basis.
	trades = CalculateTrades([]models.Order{
		order("AAPL", "buy", 100, 10, 0),
		order("AAPL", "sell", 150, 12, 1),
		order("AAPL", "buy", 50, 11, 2),
	})
	require.Len(t, trades, 2)
	assert.Equal(t, models.TradeSideShortCover, trades[1].Side)
	assert.Equal(t, 50.0, trades[1].Quantity)
	assert.Equal(t, 12.0, trades[1].ShortPrice)
	assert.Equal(t, 11.0, trades[1].CoverPrice)
	assert.Equal(t, 50.0, trades[1].ProfitLoss)
}

func TestCalculateTrades_ShortCoverWithRemainder(t *testing.T) {
	trades := CalculateTrades([]models.Order{
		order("AAPL", "sell", 100, 20, 0),
		order("AAPL", "buy", 150, 15, 1),
	})
	require.Len(t, trades, 1)
	assert.Equal(t, models.TradeSideShortCover, trades[0].Side)
	assert.Equal(t, 100.0, trades[0].Quantity)
	assert.Equal(t, 20.0, trades[0].ShortPrice)
	assert.Equal(t, 15.0, trades[0].CoverPrice)
	assert.Equal(t, 500.0, trades[0].ProfitLoss)

	// Selling the flipped 50 @ 15 long confirms its basis.
	trades = CalculateTrades([]models.Order{
		order("AAPL", "sell", 100, 20, 0),
		order("AAPL", "buy", 150, 15, 1),
		order("AAPL", "sell", 50, 16, 2),
	})
	require.Len(t, trades, 2)
	assert.Equal(t, models.TradeSideLongSell, trades[1].Side)
	assert.Equal(t, 15.0, trades[1].BuyPrice)
	assert.Equal(t, 50.0, trades[1].ProfitLoss)
}

func TestCalculateTrades_ExactFlattenOpensNoLeg(t *testing.T) {
	// Selling exactly the open quantity flattens without opening a short:
	// a later sell then starts a brand-new short at its own price.
	trades := CalculateTrades([]models.Order{
		order("AAPL", "buy", 100, 10, 0),
		order("AAPL", "sell", 100, 12, 1),
		order("AAPL", "sell", 30, 9, 2),
		order("AAPL", "buy", 30, 8, 3),
	})
	require.Len(t, trades, 2)
	assert.Equal(t, 9.0, trades[1].ShortPrice) // not contaminated by the stale 10 average
	assert.Equal(t, 30.0, trades[1].ProfitLoss)
}

func TestCalculateTrades_ShortAverageCost(t *testing.T) {
	trades := CalculateTrades([]models.Order{
		order("AAPL", "sell", 100, 20, 0),
		order("AAPL", "sell", 100, 10, 1),
		order("AAPL", "buy", 200, 12, 2),
	})
	require.Len(t, trades, 1)
	assert.Equal(t, 15.0, trades[0].ShortPrice)
	assert.Equal(t, 200.0, trades[0].Quantity)
	assert.Equal(t, 600.0, trades[0].ProfitLoss)
}

func TestCalculateTrades_RoundingConsistentAcrossSides(t *testing.T) {
	longSide := CalculateTrades([]models.Order{
		order("AAPL", "buy", 3, 10, 0),
		order("AAPL", "sell", 3, 10.333333, 1),
	})
	shortSide := CalculateTrades([]models.Order{
		order("AAPL", "sell", 3, 10.333333, 0),
		order("AAPL", "buy", 3, 10, 1),
	})
	require.Len(t, longSide, 1)
	require.Len(t, shortSide, 1)
	assert.Equal(t, 1.0, longSide[0].ProfitLoss)
	assert.Equal(t, longSide[0].ProfitLoss, shortSide[0].ProfitLoss)
}

func TestCalculateTrades_UnknownSideSkipped(t *testing.T) {
	trades := CalculateTrades([]models.Order{
		order("AAPL", "buy", 100, 10, 0),
		order("AAPL", "exercise", 100, 1, 1), // skipped entirely
		order("AAPL", "sell", 100, 12, 2),
	})
	require.Len(t, trades, 1)
	assert.Equal(t, 100.0, trades[0].Quantity)
	assert.Equal(t, 200.0, trades[0].ProfitLoss)
}

func TestCalculateTrades_SymbolsAreIndependent(t *testing.T) {
	trades := CalculateTrades([]models.Order{
		order("AAPL", "buy", 100, 10, 0),
		order("TSLA", "sell", 50, 200, 1),
		order("AAPL", "sell", 100, 11, 2),
		order("TSLA", "buy", 50, 190, 3),
	})
	require.Len(t, trades, 2)
	assert.Equal(t, "AAPL", trades[0].Symbol)
	assert.Equal(t, 100.0, trades[0].ProfitLoss)
	assert.Equal(t, "TSLA", trades[1].Symbol)
	assert.Equal(t, 500.0, trades[1].ProfitLoss)
}

func TestCalculateTrades_ChronologicalInvariance(t *testing.T) {
	orders := []models.Order{
		order("AAPL", "buy", 100, 10, 0),
		order("AAPL", "buy", 50, 12, 5),
		order("AAPL", "sell", 120, 13, 10),
		order("AAPL", "sell", 80, 11, 15),
		order("AAPL", "BOT", 50, 10.5, 20),
		order("TSLA", "SLD", 30, 250, 7),
		order("TSLA", "buy", 30, 240, 12),
	}
	want := CalculateTrades(orders)
	require.NotEmpty(t, want)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]models.Order, len(orders))
		copy(shuffled, orders)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, want, CalculateTrades(shuffled))
	}
}

func TestCalculateTrades_QuantityBounds(t *testing.T) {
	orders := []models.Order{
		order("AAPL", "buy", 100, 10, 0),
		order("AAPL", "sell", 150, 12, 1),
		order("AAPL", "buy", 80, 11, 2),
		order("TSLA", "sell", 40, 300, 3),
		order("TSLA", "buy", 100, 290, 4),
	}
	maxQty := 0.0
	for _, o := range orders {
		if o.Quantity > maxQty {
			maxQty = o.Quantity
		}
	}
	for _, tr := range CalculateTrades(orders) {
		assert.Greater(t, tr.Quantity, 0.0)
		assert.LessOrEqual(t, tr.Quantity, maxQty)
	}
}

func TestCalculateTrades_Conservation(t *testing.T) {
	// After an order that flattens everything, the final close's quantity
	// must equal the net open quantity accumulated beforehand: nothing is
	// created or destroyed by partial closes and flips along the way.
	orders := []models.Order{
		order("AAPL", "buy", 100, 10, 0),
		order("AAPL", "sell", 30, 11, 1),
		order("AAPL", "buy", 20, 10.5, 2),
		order("AAPL", "hold", 999, 1, 3), // ignored, must not affect the net
	}
	net := 100.0 - 30.0 + 20.0
	closing := order("AAPL", "sell", net, 12, 4)
	trades := CalculateTrades(append(orders, closing))

	last := trades[len(trades)-1]
	assert.Equal(t, net, last.Quantity)
}

func TestCalculateTrades_HoldTime(t *testing.T) {
	trades := CalculateTrades([]models.Order{
		order("AAPL", "buy", 100, 10, 0),
		order("AAPL", "sell", 100, 12, 90),
	})
	require.Len(t, trades, 1)
	require.NotNil(t, trades[0].HoldTime)
	assert.Equal(t, 90.0, *trades[0].HoldTime)

	// The hold clock restarts when a flip opens a new leg.
	trades = CalculateTrades([]models.Order{
		order("AAPL", "buy", 100, 10, 0),
		order("AAPL", "sell", 150, 12, 60),
		order("AAPL", "buy", 50, 11, 75),
	})
	require.Len(t, trades, 2)
	require.NotNil(t, trades[1].HoldTime)
	assert.Equal(t, 15.0, *trades[1].HoldTime)
}

func TestCalculateTrades_CarriesAttribution(t *testing.T) {
	trades := CalculateTrades([]models.Order{
		order("AAPL", "buy", 100, 10, 0),
		order("AAPL", "sell", 100, 12, 1),
	})
	require.Len(t, trades, 1)
	assert.Equal(t, "U1234567", trades[0].AccountNr)
	assert.Equal(t, baseTime.Add(time.Minute), trades[0].Date)
}
