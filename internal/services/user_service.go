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

type UserService struct {
	userCollection *mongo.Collection
	brokerService  *BrokerService
}

func NewUserService(brokerService *BrokerService) *UserService {
	return &UserService{
		userCollection: config.GetCollection("users"),
		brokerService:  brokerService,
	}
}

// ProfileUpdate carries the commission/tax settings a user may edit. Nil
// fields are left untouched.
type ProfileUpdate struct {
	TaxRate        *float64
	CommissionRate *float64
	CommissionMin  *float64
	CommissionMax  *float64
}

func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, update ProfileUpdate) (*models.User, error) {
	set := bson.M{}
	if update.TaxRate != nil {
		set["tax_rate"] = *update.TaxRate
	}
	if update.CommissionRate != nil {
		set["commission_rate"] = *update.CommissionRate
	}
	if update.CommissionMin != nil {
		set["commission_min"] = *update.CommissionMin
	}
	if update.CommissionMax != nil {
		set["commission_max"] = *update.CommissionMax
	}

	if len(set) > 0 {
		_, err := s.userCollection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": set})
		if err != nil {
			return nil, err
		}
	}

	var user models.User
	if err := s.userCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return nil, err
	}
	user.Password = ""
	return &user, nil
}

func (s *UserService) GetAccounts(ctx context.Context, userID primitive.ObjectID) ([]models.Account, error) {
	var user models.User
	err := s.userCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		return nil, err
	}
	if user.Accounts == nil {
		return []models.Account{}, nil
	}
	return user.Accounts, nil
}

// AddAccount attaches a brokerage account to the user, snapshotting the fee
// schedule from the broker so later broker edits don't change the account.
func (s *UserService) AddAccount(ctx context.Context, userID primitive.ObjectID, brokerID, accountTypeID, number string, balance float64) (*models.Account, error) {
	if brokerID == "" || accountTypeID == "" || number == "" {
		return nil, errors.New("broker ID, account type ID and account number are required")
	}

	broker, err := s.brokerService.GetBrokerByID(ctx, brokerID)
	if err != nil {
		return nil, err
	}

	typeObjID, err := primitive.ObjectIDFromHex(accountTypeID)
	if err != nil {
		return nil, errors.New("account type not found in the broker")
	}
	var spec *models.AccountType
	for i := range broker.AccountTypes {
		if broker.AccountTypes[i].ID == typeObjID {
			spec = &broker.AccountTypes[i]
			break
		}
	}
	if spec == nil {
		return nil, errors.New("account type not found in the broker")
	}

	var user models.User
	if err := s.userCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return nil, err
	}
	for _, acc := range user.Accounts {
		if acc.Number == number {
			return nil, errors.New("an account with this number already exists")
		}
	}

	account := models.Account{
		ID:             primitive.NewObjectID(),
		Type:           spec.Type,
		Number:         number,
		Balance:        balance,
		BrokerID:       broker.ID,
		AccountTypeID:  spec.ID,
		Specifications: *spec,
	}

	_, err = s.userCollection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$push": bson.M{"accounts": account}},
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *UserService) RemoveAccount(ctx context.Context, userID primitive.ObjectID, accountID string) (*models.User, error) {
	accObjID, err := primitive.ObjectIDFromHex(accountID)
	if err != nil {
		return nil, errors.New("account not found")
	}

	res, err := s.userCollection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"accounts": bson.M{"_id": accObjID}}},
	)
	if err != nil {
		return nil, err
	}
	if res.ModifiedCount == 0 {
		return nil, errors.New("account not found")
	}

	var user models.User
	if err := s.userCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return nil, err
	}
	user.Password = ""
	return &user, nil
}
