package models

import (
	"encoding/json"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order is a single raw fill as imported from a broker export. Orders are
// immutable once accepted; the journal engine replays them to reconstruct
// position history.
type Order struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   primitive.ObjectID `bson:"user" json:"userId"`
	Symbol   string             `bson:"symbol" json:"symbol"`
	Side     string             `bson:"side" json:"side"` // raw token: buy/sell/BOT/SLD
	Quantity float64            `bson:"quantity" json:"quantity"`
	Price    float64            `bson:"price" json:"price"`
	Account  string             `bson:"account" json:"account"`
	Date     time.Time          `bson:"date" json:"date"`
}

// Realized trade kinds emitted by the journal engine.
const (
	TradeSideLongSell   = "long_sell"
	TradeSideShortCover = "short_cover"
)

// Trade is one realized close. Only the closed portion of an order becomes a
// trade; opening or adding to a position never does. Never mutated after
// creation.
type Trade struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user" json:"userId"`
	Symbol     string             `bson:"symbol" json:"symbol"`
	Side       string             `bson:"side" json:"side"`
	Quantity   float64            `bson:"quantity" json:"quantity"`
	BuyPrice   float64            `bson:"buy_price,omitempty" json:"buyPrice,omitempty"`
	SellPrice  float64            `bson:"sell_price,omitempty" json:"sellPrice,omitempty"`
	ShortPrice float64            `bson:"short_price,omitempty" json:"shortPrice,omitempty"`
	CoverPrice float64            `bson:"cover_price,omitempty" json:"coverPrice,omitempty"`
	ProfitLoss float64            `bson:"profit_loss" json:"profitLoss"`
	Date       time.Time          `bson:"date" json:"date"`
	AccountNr  string             `bson:"account_nr" json:"accountNr"`
	HoldTime   *float64           `bson:"hold_time,omitempty" json:"holdTime,omitempty"` // minutes
}

// TradeSummary aggregates one UTC calendar day of realized trades for one
// user/account scope. Date is stored as "YYYY-MM-DD" for range filtering.
type TradeSummary struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            primitive.ObjectID `bson:"user" json:"userId"`
	AccountNr         string             `bson:"account_nr" json:"accountNr"`
	Date              string             `bson:"date" json:"date"`
	TotalProfitLoss   float64            `bson:"total_profit_loss" json:"totalProfitLoss"`
	Accuracy          float64            `bson:"accuracy" json:"accuracy"`
	ProfitToLossRatio float64            `bson:"profit_to_loss_ratio" json:"profitToLossRatio"`
	TotalTrades       int                `bson:"total_trades" json:"totalTrades"`
	Wins              int                `bson:"wins" json:"wins"`
	Losses            int                `bson:"losses" json:"losses"`
}

// MarshalJSON renders an unbounded profit-to-loss ratio (a day with wins and
// zero losses) as the string "Infinity", since encoding/json rejects IEEE
// infinities. BSON doubles carry it natively, so only JSON needs this.
func (s TradeSummary) MarshalJSON() ([]byte, error) {
	type alias TradeSummary
	out := struct {
		alias
		ProfitToLossRatio interface{} `json:"profitToLossRatio"`
	}{alias: alias(s), ProfitToLossRatio: s.ProfitToLossRatio}
	if math.IsInf(s.ProfitToLossRatio, 1) {
		out.ProfitToLossRatio = "Infinity"
	}
	return json.Marshal(out)
}

// OrderImport records one accepted batch submission. BatchHash is the content
// fingerprint used to reject duplicate uploads of the same export file.
type OrderImport struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user" json:"userId"`
	Account    string             `bson:"account" json:"account"`
	BatchHash  string             `bson:"batch_hash" json:"batchHash"`
	OrderCount int                `bson:"order_count" json:"orderCount"`
	TradeCount int                `bson:"trade_count" json:"tradeCount"`
	ImportedAt time.Time          `bson:"imported_at" json:"importedAt"`
}
