// models/transaction.go
package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransactionKind is the closed set of ledger entry kinds. Direction is
// implied by the kind, never by the sign of the submitted amount.
type TransactionKind string

const (
	KindDeposit       TransactionKind = "deposit"
	KindWithdrawal    TransactionKind = "withdrawal"
	KindPurchase      TransactionKind = "purchase"
	KindCommission    TransactionKind = "commission"
	KindDailyRevenue  TransactionKind = "daily_revenue"
	KindBonus         TransactionKind = "bonus"
	KindCheckin       TransactionKind = "checkin"
	KindRefund        TransactionKind = "refund"
	KindReward        TransactionKind = "reward"
	KindReferralBonus TransactionKind = "referral_bonus"
)

// kindDirections classifies every kind as credit (+1) or debit (-1).
// The ledger refuses kinds missing from this table.
var kindDirections = map[TransactionKind]int64{
	KindDeposit:       1,
	KindCommission:    1,
	KindDailyRevenue:  1,
	KindBonus:         1,
	KindCheckin:       1,
	KindRefund:        1,
	KindReward:        1,
	KindReferralBonus: 1,
	KindWithdrawal:    -1,
	KindPurchase:      -1,
}

// earningKinds counts toward the account's totalEarnings aggregate.
// Deposits and refunds return the user's own money and are excluded.
var earningKinds = map[TransactionKind]bool{
	KindCommission:    true,
	KindDailyRevenue:  true,
	KindBonus:         true,
	KindCheckin:       true,
	KindReward:        true,
	KindReferralBonus: true,
}

// IsCredit reports whether the kind increases the balance.
func (k TransactionKind) IsCredit() bool {
	return kindDirections[k] > 0
}

// IsEarning reports whether the kind counts toward totalEarnings.
func (k TransactionKind) IsEarning() bool {
	return earningKinds[k]
}

// SignedDelta converts a positive amount into the signed balance delta for
// the kind. Unknown kinds and non-positive amounts are rejected.
func (k TransactionKind) SignedDelta(amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive, got %d", amount)
	}
	dir, ok := kindDirections[k]
	if !ok {
		return 0, fmt.Errorf("unknown transaction kind %q", k)
	}
	return dir * amount, nil
}

// TransactionRef points a ledger entry at the entity that caused it.
type TransactionRef struct {
	ID   primitive.ObjectID `json:"id" bson:"id"`
	Type string             `json:"type" bson:"type"` // "purchase", "withdrawal", "deposit", "reward", "subscription", "adjustment"
}

// Transaction is one immutable ledger entry. Entries are append-only;
// nothing edits them after creation.
type Transaction struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        primitive.ObjectID `json:"userId" bson:"userId"`
	Kind          TransactionKind    `json:"kind" bson:"kind"`
	Amount        int64              `json:"amount" bson:"amount"` // signed delta applied to the balance
	BalanceBefore int64              `json:"balanceBefore" bson:"balanceBefore"`
	BalanceAfter  int64              `json:"balanceAfter" bson:"balanceAfter"`
	Description   string             `json:"description" bson:"description"`
	Reference     *TransactionRef    `json:"reference,omitempty" bson:"reference,omitempty"`
	Status        string             `json:"status" bson:"status"` // always "completed" once written
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
}
