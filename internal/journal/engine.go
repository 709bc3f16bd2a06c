// Package journal holds the trade-reconstruction core: replaying a user's raw
// order history into realized trades with average-cost accounting, and rolling
// those trades up into daily performance summaries. Both computations are
// pure, deterministic and own all their state per invocation, so concurrent
// runs for different users are safe without locking.
package journal

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/DevelDoe/moms-journal-api/internal/models"
)

// position is the running exposure for one symbol during a replay.
// avgPrice is only meaningful while qty != 0; once a position fully flattens
// it is stale until the next opening order overwrites it. startDate is the
// open time of the current leg, zero while flat.
type position struct {
	avgPrice  float64
	qty       float64 // signed: >0 long, <0 short
	startDate time.Time
}

// ValidateOrders is the fail-closed precondition check for a batch: any
// malformed order rejects the whole batch, matching the all-or-nothing
// persistence model. Side tokens are deliberately not validated here —
// unrecognized sides are a documented skip in the replay, not an error.
func ValidateOrders(orders []models.Order) error {
	for i, o := range orders {
		switch {
		case strings.TrimSpace(o.Symbol) == "":
			return fmt.Errorf("order %d: missing symbol", i)
		case math.IsNaN(o.Quantity) || o.Quantity <= 0:
			return fmt.Errorf("order %d (%s): quantity must be positive, got %v", i, o.Symbol, o.Quantity)
		case math.IsNaN(o.Price) || o.Price <= 0:
			return fmt.Errorf("order %d (%s): price must be positive, got %v", i, o.Symbol, o.Price)
		case o.Date.IsZero():
			return fmt.Errorf("order %d (%s): missing date", i, o.Symbol)
		}
	}
	return nil
}

// CalculateTrades replays a complete order history and emits one realized
// trade per (partial) close. Input order does not matter: orders are
// stable-sorted by date first, and average-cost accounting depends on true
// chronological replay. The input slice is not modified.
//
// A sell against a long emits a long_sell; a buy against a short emits a
// short_cover. An order whose quantity exceeds the open opposite-side
// position closes it and opens the remainder as a fresh leg in the same step
// — the new leg emits no trade until it is itself closed later.
func CalculateTrades(orders []models.Order) []models.Trade {
	sorted := make([]models.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	trades := []models.Trade{}
	positions := make(map[string]*position)

	for _, order := range sorted {
		pos := positions[order.Symbol]
		if pos == nil {
			pos = &position{}
			positions[order.Symbol] = pos
		}

		switch NormalizeSide(order.Side) {
		case SideBuy:
			if pos.qty < 0 {
				// Covering an open short.
				coverQty := math.Min(-pos.qty, order.Quantity)
				remaining := order.Quantity - coverQty

				trades = append(trades, models.Trade{
					UserID:     order.UserID,
					Symbol:     order.Symbol,
					Side:       models.TradeSideShortCover,
					Quantity:   coverQty,
					ShortPrice: pos.avgPrice,
					CoverPrice: order.Price,
					ProfitLoss: round2((pos.avgPrice - order.Price) * coverQty),
					Date:       order.Date,
					AccountNr:  order.Account,
					HoldTime:   holdMinutes(pos.startDate, order.Date),
				})

				pos.qty += coverQty
				if remaining > 0 {
					// Over-cover flips to a fresh long leg; no trade for it.
					pos.avgPrice = order.Price
					pos.qty += remaining
					pos.startDate = order.Date
				} else {
					pos.startDate = time.Time{}
				}
			} else {
				// Opening or adding to a long: recompute the weighted average.
				total := pos.qty + order.Quantity
				pos.avgPrice = (pos.avgPrice*pos.qty + order.Price*order.Quantity) / total
				pos.qty = total
				if pos.startDate.IsZero() {
					pos.startDate = order.Date
				}
			}

		case SideSell:
			if pos.qty > 0 {
				// Selling out of an open long.
				sellQty := math.Min(pos.qty, order.Quantity)
				remaining := order.Quantity - sellQty

				trades = append(trades, models.Trade{
					UserID:     order.UserID,
					Symbol:     order.Symbol,
					Side:       models.TradeSideLongSell,
					Quantity:   sellQty,
					BuyPrice:   pos.avgPrice,
					SellPrice:  order.Price,
					ProfitLoss: round2((order.Price - pos.avgPrice) * sellQty),
					Date:       order.Date,
					AccountNr:  order.Account,
					HoldTime:   holdMinutes(pos.startDate, order.Date),
				})

				pos.qty -= sellQty
				if remaining > 0 {
					// Over-sell flips to a fresh short leg; no trade for it.
					pos.avgPrice = order.Price
					pos.qty -= remaining
					pos.startDate = order.Date
				} else {
					pos.startDate = time.Time{}
				}
			} else {
				// Opening or adding to a short. The magnitudes carry the
				// weighted average; qty stays signed.
				total := pos.qty - order.Quantity
				pos.avgPrice = (math.Abs(pos.avgPrice*pos.qty) + order.Price*order.Quantity) / math.Abs(total)
				pos.qty = total
				if pos.startDate.IsZero() {
					pos.startDate = order.Date
				}
			}

		default:
			// Unrecognized side tokens neither open nor close anything.
		}
	}

	return trades
}

// round2 rounds realized money amounts to cents. Both closing paths use it so
// a long round-trip and its mirrored short report identical magnitudes.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// holdMinutes is the elapsed minutes a closed leg was held, nil when the leg's
// open time was never observed.
func holdMinutes(start, end time.Time) *float64 {
	if start.IsZero() {
		return nil
	}
	m := round2(end.Sub(start).Minutes())
	return &m
}
