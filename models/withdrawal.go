// models/withdrawal.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Withdrawal statuses. Completed, rejected and cancelled are terminal.
const (
	WithdrawalPending   = "pending"
	WithdrawalCompleted = "completed"
	WithdrawalRejected  = "rejected"
	WithdrawalCancelled = "cancelled"
)

// Withdrawal is a pending payout request. The balance is debited at
// admin-approval time, never at creation, so rejection and cancellation
// need no refund entry.
type Withdrawal struct {
	ID              primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	UserID          primitive.ObjectID  `json:"userId" bson:"userId"`
	BankAccountID   primitive.ObjectID  `json:"bankAccountId" bson:"bankAccountId"`
	Amount          int64               `json:"amount" bson:"amount"`
	Fee             int64               `json:"fee" bson:"fee"`
	FeeRate         float64             `json:"feeRate" bson:"feeRate"` // percent at request time
	NetAmount       int64               `json:"netAmount" bson:"netAmount"`
	Status          string              `json:"status" bson:"status"`
	RejectionReason string              `json:"rejectionReason,omitempty" bson:"rejectionReason,omitempty"`
	ProcessedBy     *primitive.ObjectID `json:"processedBy,omitempty" bson:"processedBy,omitempty"`
	ProcessedAt     *time.Time          `json:"processedAt,omitempty" bson:"processedAt,omitempty"`
	CreatedAt       time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt" bson:"updatedAt"`
}

type WithdrawalRequest struct {
	Amount        int64  `json:"amount" validate:"required,gt=0"`
	BankAccountID string `json:"bankAccountId" validate:"required"`
}

type RejectWithdrawalRequest struct {
	Reason string `json:"reason" validate:"required"`
}
