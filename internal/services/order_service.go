package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/DevelDoe/moms-journal-api/config"
	"github.com/DevelDoe/moms-journal-api/internal/journal"
	"github.com/DevelDoe/moms-journal-api/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateBatch is returned when an identical order batch was already
// imported for the user.
var ErrDuplicateBatch = fmt.Errorf("duplicate order batch: already imported")

type OrderService struct {
	client            *mongo.Client
	orderCollection   *mongo.Collection
	tradeCollection   *mongo.Collection
	summaryCollection *mongo.Collection
	importCollection  *mongo.Collection
}

func NewOrderService() *OrderService {
	return &OrderService{
		client:            config.DB,
		orderCollection:   config.GetCollection("orders"),
		tradeCollection:   config.GetCollection("trades"),
		summaryCollection: config.GetCollection("tradesummaries"),
		importCollection:  config.GetCollection("orderimports"),
	}
}

// ImportResult reports what one accepted batch produced.
type ImportResult struct {
	BatchHash  string                `json:"batchHash"`
	OrderCount int                   `json:"orderCount"`
	Trades     []models.Trade        `json:"trades"`
	Summaries  []models.TradeSummary `json:"summaries"`
}

// ImportOrders runs the full journaling pipeline for one batch: fail-closed
// validation, content-hash deduplication, then — inside a single Mongo
// transaction — order insertion, a full-history replay through the journal
// engine for every account the batch touches, and replacement of that scope's
// trades and summaries. Any failure aborts the transaction so trades never
// exist without their source orders.
func (s *OrderService) ImportOrders(ctx context.Context, userID primitive.ObjectID, orders []models.Order) (*ImportResult, error) {
	if len(orders) == 0 {
		return nil, fmt.Errorf("no orders provided")
	}
	if err := journal.ValidateOrders(orders); err != nil {
		return nil, fmt.Errorf("invalid order batch: %w", err)
	}

	for i := range orders {
		orders[i].ID = primitive.NewObjectID()
		orders[i].UserID = userID
	}

	batchHash := HashOrderBatch(orders)
	count, err := s.importCollection.CountDocuments(ctx, bson.M{
		"user":       userID,
		"batch_hash": batchHash,
	})
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateBatch
	}

	accounts := make(map[string]bool)
	for _, o := range orders {
		accounts[o.Account] = true
	}

	result := &ImportResult{BatchHash: batchHash, OrderCount: len(orders)}

	session, err := s.client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		docs := make([]interface{}, len(orders))
		for i, o := range orders {
			docs[i] = o
		}
		if _, err := s.orderCollection.InsertMany(sc, docs); err != nil {
			return nil, err
		}

		// Average cost depends on every prior fill, so each touched account
		// scope is recomputed from its complete order history, not the delta.
		for account := range accounts {
			trades, summaries, err := s.recomputeScope(sc, userID, account)
			if err != nil {
				return nil, err
			}
			result.Trades = append(result.Trades, trades...)
			result.Summaries = append(result.Summaries, summaries...)
		}

		_, err := s.importCollection.InsertOne(sc, models.OrderImport{
			ID:         primitive.NewObjectID(),
			UserID:     userID,
			Account:    firstKey(accounts),
			BatchHash:  batchHash,
			OrderCount: len(orders),
			TradeCount: len(result.Trades),
			ImportedAt: time.Now(),
		})
		return nil, err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Imported %d orders for user %s (%d trades, %d summaries)",
		len(orders), userID.Hex(), len(result.Trades), len(result.Summaries))
	return result, nil
}

// recomputeScope replays one (user, account) order history and replaces its
// derived trades and summaries. Must run inside the import transaction.
func (s *OrderService) recomputeScope(sc mongo.SessionContext, userID primitive.ObjectID, account string) ([]models.Trade, []models.TradeSummary, error) {
	scope := bson.M{"user": userID, "account": account}

	cur, err := s.orderCollection.Find(sc, scope)
	if err != nil {
		return nil, nil, err
	}
	var history []models.Order
	if err := cur.All(sc, &history); err != nil {
		return nil, nil, err
	}

	trades := journal.CalculateTrades(history)
	summaries := journal.CalculateSummaries(trades)
	for i := range trades {
		trades[i].ID = primitive.NewObjectID()
	}
	for i := range summaries {
		summaries[i].ID = primitive.NewObjectID()
	}

	if _, err := s.tradeCollection.DeleteMany(sc, bson.M{"user": userID, "account_nr": account}); err != nil {
		return nil, nil, err
	}
	if _, err := s.summaryCollection.DeleteMany(sc, bson.M{"user": userID, "account_nr": account}); err != nil {
		return nil, nil, err
	}

	if len(trades) > 0 {
		docs := make([]interface{}, len(trades))
		for i, t := range trades {
			docs[i] = t
		}
		if _, err := s.tradeCollection.InsertMany(sc, docs); err != nil {
			return nil, nil, err
		}
	}
	if len(summaries) > 0 {
		docs := make([]interface{}, len(summaries))
		for i, sum := range summaries {
			docs[i] = sum
		}
		if _, err := s.summaryCollection.InsertMany(sc, docs); err != nil {
			return nil, nil, err
		}
	}

	return trades, summaries, nil
}

// HashOrderBatch fingerprints a batch's content so resubmissions of the same
// export are rejected. The hash covers the fields the engine reads, over a
// canonical ordering, so it is insensitive to upload order.
func HashOrderBatch(orders []models.Order) string {
	lines := make([]string, len(orders))
	for i, o := range orders {
		lines[i] = fmt.Sprintf("%s|%s|%g|%g|%s|%d",
			o.Symbol, o.Side, o.Quantity, o.Price, o.Account, o.Date.UTC().UnixNano())
	}
	sort.Strings(lines)

	h := sha256.New()
	for _, line := range lines {
		h.Write([]byte(line))
		h.Write([]byte("\n"))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func firstKey(m map[string]bool) string {
	for k := range m {
		return k
	}
	return ""
}

// GetUserOrders returns the user's orders, newest first.
func (s *OrderService) GetUserOrders(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := s.orderCollection.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var list []models.Order
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetRecentOrders returns the user's orders from the last seven days.
func (s *OrderService) GetRecentOrders(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	now := time.Now()
	cur, err := s.orderCollection.Find(ctx, bson.M{
		"user": userID,
		"date": bson.M{"$gte": now.AddDate(0, 0, -7), "$lt": now},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var list []models.Order
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}
