package services

import (
	"context"
	"errors"

	"github.com/DevelDoe/moms-journal-api/config"
	"github.com/DevelDoe/moms-journal-api/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrBrokerNotFound = errors.New("broker not found")

type BrokerService struct {
	brokerCollection *mongo.Collection
}

func NewBrokerService() *BrokerService {
	return &BrokerService{
		brokerCollection: config.GetCollection("brokers"),
	}
}

func (s *BrokerService) GetBrokers(ctx context.Context) ([]models.Broker, error) {
	cur, err := s.brokerCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var list []models.Broker
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *BrokerService) GetBrokerByID(ctx context.Context, id string) (*models.Broker, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrBrokerNotFound
	}

	var broker models.Broker
	err = s.brokerCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&broker)
	if err == mongo.ErrNoDocuments {
		return nil, ErrBrokerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &broker, nil
}

func (s *BrokerService) CreateBroker(ctx context.Context, broker *models.Broker) error {
	// Duplicate names are rejected so accounts reference brokers unambiguously.
	count, err := s.brokerCollection.CountDocuments(ctx, bson.M{"name": broker.Name})
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("broker already exists")
	}

	broker.ID = primitive.NewObjectID()
	broker.Active = true
	for i := range broker.AccountTypes {
		broker.AccountTypes[i].ID = primitive.NewObjectID()
	}

	_, err = s.brokerCollection.InsertOne(ctx, broker)
	return err
}

// UpdateBroker applies the non-zero fields of patch to an existing broker.
func (s *BrokerService) UpdateBroker(ctx context.Context, id string, patch *models.Broker) (*models.Broker, error) {
	broker, err := s.GetBrokerByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != "" {
		broker.Name = patch.Name
	}
	if patch.Description != "" {
		broker.Description = patch.Description
	}
	if patch.AccountTypes != nil {
		for i := range patch.AccountTypes {
			if patch.AccountTypes[i].ID.IsZero() {
				patch.AccountTypes[i].ID = primitive.NewObjectID()
			}
		}
		broker.AccountTypes = patch.AccountTypes
	}

	_, err = s.brokerCollection.UpdateOne(ctx,
		bson.M{"_id": broker.ID},
		bson.M{"$set": bson.M{
			"name":          broker.Name,
			"description":   broker.Description,
			"account_types": broker.AccountTypes,
		}},
	)
	if err != nil {
		return nil, err
	}
	return broker, nil
}

func (s *BrokerService) DeleteBroker(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrBrokerNotFound
	}

	res, err := s.brokerCollection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrBrokerNotFound
	}
	return nil
}

// GetBrokerByAccountType finds the broker offering the named fee schedule.
func (s *BrokerService) GetBrokerByAccountType(ctx context.Context, accountType string) (*models.Broker, error) {
	var broker models.Broker
	err := s.brokerCollection.FindOne(ctx, bson.M{
		"account_types.type": accountType,
	}).Decode(&broker)
	if err == mongo.ErrNoDocuments {
		return nil, ErrBrokerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &broker, nil
}

// GetAccountType looks up one embedded fee schedule by its id across all
// brokers.
func (s *BrokerService) GetAccountType(ctx context.Context, accountTypeID string) (*models.AccountType, error) {
	objID, err := primitive.ObjectIDFromHex(accountTypeID)
	if err != nil {
		return nil, ErrBrokerNotFound
	}

	var broker models.Broker
	err = s.brokerCollection.FindOne(ctx, bson.M{
		"account_types._id": objID,
	}).Decode(&broker)
	if err == mongo.ErrNoDocuments {
		return nil, ErrBrokerNotFound
	}
	if err != nil {
		return nil, err
	}

	for _, at := range broker.AccountTypes {
		if at.ID == objID {
			return &at, nil
		}
	}
	return nil, ErrBrokerNotFound
}
