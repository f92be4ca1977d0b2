// models/bank_account.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BankAccount is a user's payout destination. Withdrawals require a
// verified, active bank account.
type BankAccount struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        primitive.ObjectID `json:"userId" bson:"userId"`
	BankName      string             `json:"bankName" bson:"bankName"`
	AccountName   string             `json:"accountName" bson:"accountName"`
	AccountNumber string             `json:"accountNumber" bson:"accountNumber"`
	IsVerified    bool               `json:"isVerified" bson:"isVerified"`
	IsActive      bool               `json:"isActive" bson:"isActive"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type BankAccountRequest struct {
	BankName      string `json:"bankName" validate:"required"`
	AccountName   string `json:"accountName" validate:"required"`
	AccountNumber string `json:"accountNumber" validate:"required"`
}
