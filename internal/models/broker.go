package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// AccountType is one fee schedule offered by a broker.
type AccountType struct {
	ID                      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type                    string             `bson:"type" json:"type"` // e.g. "Individual", "Corporate", "Retirement"
	RatePerShare            float64            `bson:"rate_per_share" json:"ratePerShare"`
	MinAmount               float64            `bson:"min_amount" json:"minAmount"`
	MaxAmount               float64            `bson:"max_amount" json:"maxAmount"`
	PercentageRate          float64            `bson:"percentage_rate" json:"percentageRate"`
	ECNFees                 float64            `bson:"ecn_fees" json:"ecnFees"`
	InactivityFee           float64            `bson:"inactivity_fee" json:"inactivityFee"`
	MarketDataFee           float64            `bson:"market_data_fee" json:"marketDataFee"`
	PlatformFee             float64            `bson:"platform_fee" json:"platformFee"`
	WithdrawalFee           float64            `bson:"withdrawal_fee" json:"withdrawalFee"`
	ExtendedHoursTradingFee float64            `bson:"extended_hours_trading_fee" json:"extendedHoursTradingFee"`
	MinimumDeposit          float64            `bson:"minimum_deposit" json:"minimumDeposit"`
}

type Broker struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description" json:"description"`
	AccountTypes []AccountType      `bson:"account_types" json:"accountTypes"`
	Active       bool               `bson:"active" json:"active"`
}
