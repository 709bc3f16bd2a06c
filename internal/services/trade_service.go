package services

import (
	"context"
	"time"

	"github.com/DevelDoe/moms-journal-api/config"
	"github.com/DevelDoe/moms-journal-api/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TradeService struct {
	orderCollection   *mongo.Collection
	tradeCollection   *mongo.Collection
	summaryCollection *mongo.Collection
}

func NewTradeService() *TradeService {
	return &TradeService{
		orderCollection:   config.GetCollection("orders"),
		tradeCollection:   config.GetCollection("trades"),
		summaryCollection: config.GetCollection("tradesummaries"),
	}
}

// dateRangeFilter builds an inclusive whole-day range filter. A start date
// snaps to 00:00:00 and an end date to 23:59:59.999 so callers can pass
// plain calendar dates.
func dateRangeFilter(start, end *time.Time) bson.M {
	rangeFilter := bson.M{}
	if start != nil {
		s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
		rangeFilter["$gte"] = s
	}
	if end != nil {
		e := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, int(999*time.Millisecond), end.Location())
		rangeFilter["$lte"] = e
	}
	return rangeFilter
}

// GetUserTrades returns the user's realized trades, newest first, optionally
// restricted to an inclusive date range.
func (s *TradeService) GetUserTrades(ctx context.Context, userID primitive.ObjectID, start, end *time.Time) ([]models.Trade, error) {
	filter := bson.M{"user": userID}
	if start != nil || end != nil {
		filter["date"] = dateRangeFilter(start, end)
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := s.tradeCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var list []models.Trade
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetRecentTrades returns the user's trades from the last seven days.
func (s *TradeService) GetRecentTrades(ctx context.Context, userID primitive.ObjectID) ([]models.Trade, error) {
	now := time.Now()
	cur, err := s.tradeCollection.Find(ctx, bson.M{
		"user": userID,
		"date": bson.M{"$gte": now.AddDate(0, 0, -7), "$lt": now},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var list []models.Trade
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetUserSummaries returns all daily summaries for the user.
func (s *TradeService) GetUserSummaries(ctx context.Context, userID primitive.ObjectID) ([]models.TradeSummary, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cur, err := s.summaryCollection.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var list []models.TradeSummary
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SummaryFilter restricts a summary query by P&L and trade-count thresholds
// or a specific calendar day. Nil fields are ignored.
type SummaryFilter struct {
	MinProfit *float64
	MaxProfit *float64
	MinTrades *int
	MaxTrades *int
	Date      string // "YYYY-MM-DD", exact match
}

// FilterUserSummaries returns the user's summaries matching the thresholds.
func (s *TradeService) FilterUserSummaries(ctx context.Context, userID primitive.ObjectID, f SummaryFilter) ([]models.TradeSummary, error) {
	filter := bson.M{"user": userID}

	plFilter := bson.M{}
	if f.MinProfit != nil {
		plFilter["$gte"] = *f.MinProfit
	}
	if f.MaxProfit != nil {
		plFilter["$lte"] = *f.MaxProfit
	}
	if len(plFilter) > 0 {
		filter["total_profit_loss"] = plFilter
	}

	countFilter := bson.M{}
	if f.MinTrades != nil {
		countFilter["$gte"] = *f.MinTrades
	}
	if f.MaxTrades != nil {
		countFilter["$lte"] = *f.MaxTrades
	}
	if len(countFilter) > 0 {
		filter["total_trades"] = countFilter
	}

	if f.Date != "" {
		filter["date"] = f.Date
	}

	cur, err := s.summaryCollection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var list []models.TradeSummary
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// PurgeResult reports how many documents an admin purge removed.
type PurgeResult struct {
	DeletedTrades    int64 `json:"deletedTradesCount"`
	DeletedSummaries int64 `json:"deletedSummariesCount"`
	DeletedOrders    int64 `json:"deletedOrdersCount"`
}

// PurgeUserData deletes a user's orders, trades and summaries, optionally
// restricted to an inclusive date range. Admin-only at the handler layer.
// Summaries store their day as a string, so the range is matched against the
// formatted bounds.
func (s *TradeService) PurgeUserData(ctx context.Context, userID primitive.ObjectID, start, end *time.Time) (*PurgeResult, error) {
	filter := bson.M{"user": userID}
	if start != nil || end != nil {
		filter["date"] = dateRangeFilter(start, end)
	}

	summaryFilter := bson.M{"user": userID}
	if start != nil || end != nil {
		dayRange := bson.M{}
		if start != nil {
			dayRange["$gte"] = start.UTC().Format("2006-01-02")
		}
		if end != nil {
			dayRange["$lte"] = end.UTC().Format("2006-01-02")
		}
		summaryFilter["date"] = dayRange
	}

	result := &PurgeResult{}

	res, err := s.tradeCollection.DeleteMany(ctx, filter)
	if err != nil {
		return nil, err
	}
	result.DeletedTrades = res.DeletedCount

	res, err = s.summaryCollection.DeleteMany(ctx, summaryFilter)
	if err != nil {
		return nil, err
	}
	result.DeletedSummaries = res.DeletedCount

	res, err = s.orderCollection.DeleteMany(ctx, filter)
	if err != nil {
		return nil, err
	}
	result.DeletedOrders = res.DeletedCount

	return result, nil
}
