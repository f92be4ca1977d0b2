// models/deposit.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Deposit statuses
const (
	DepositPending  = "pending"
	DepositApproved = "approved"
	DepositRejected = "rejected"
)

// ManualDeposit is a bank-transfer claim reviewed by an operator. The
// balance is credited only on approval.
type ManualDeposit struct {
	ID              primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	UserID          primitive.ObjectID  `json:"userId" bson:"userId"`
	PaymentMethodID primitive.ObjectID  `json:"paymentMethodId" bson:"paymentMethodId"`
	Amount          int64               `json:"amount" bson:"amount"`
	DepositNumber   string              `json:"depositNumber" bson:"depositNumber"`
	TransactionID   string              `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
	Status          string              `json:"status" bson:"status"`
	AdminNote       string              `json:"adminNote,omitempty" bson:"adminNote,omitempty"`
	ProcessedBy     *primitive.ObjectID `json:"processedBy,omitempty" bson:"processedBy,omitempty"`
	ProcessedAt     *time.Time          `json:"processedAt,omitempty" bson:"processedAt,omitempty"`
	CreatedAt       time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// PaymentMethod is an operator-managed destination for manual deposits.
type PaymentMethod struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	AccountName   string             `json:"accountName" bson:"accountName"`
	AccountNumber string             `json:"accountNumber" bson:"accountNumber"`
	Instructions  string             `json:"instructions,omitempty" bson:"instructions,omitempty"`
	IsActive      bool               `json:"isActive" bson:"isActive"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
}

type DepositRequest struct {
	PaymentMethodID string `json:"paymentMethodId" validate:"required"`
	Amount          int64  `json:"amount" validate:"required,gt=0"`
	TransactionID   string `json:"transactionId"`
}

type RejectDepositRequest struct {
	AdminNote string `json:"adminNote" validate:"required"`
}
