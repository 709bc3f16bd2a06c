package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account is a brokerage account attached to a user profile. The
// specifications are snapshotted from the broker's fee schedule when the
// account is added, so later broker edits don't rewrite history.
type Account struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type           string             `bson:"type" json:"type"`
	Number         string             `bson:"number" json:"number"`
	Balance        float64            `bson:"balance" json:"balance"`
	BrokerID       primitive.ObjectID `bson:"broker_id" json:"brokerId"`
	AccountTypeID  primitive.ObjectID `bson:"account_type_id" json:"accountId"`
	Specifications AccountType        `bson:"specifications" json:"specifications"`
}

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	Password       string             `bson:"password" json:"-"`
	Role           string             `bson:"role" json:"role"`
	Accounts       []Account          `bson:"accounts" json:"accounts"`
	TaxRate        float64            `bson:"tax_rate,omitempty" json:"taxRate,omitempty"`
	CommissionRate float64            `bson:"commission_rate,omitempty" json:"commissionRate,omitempty"`
	CommissionMin  float64            `bson:"commission_min,omitempty" json:"commissionMin,omitempty"`
	CommissionMax  float64            `bson:"commission_max,omitempty" json:"commissionMax,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
}

// HashPassword hashes the user's password
func (u *User) HashPassword() error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword checks if the provided password matches the hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// IsAdmin reports whether the user may hit admin-only routes.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
