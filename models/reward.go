// models/reward.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reward statuses
const (
	RewardPending = "pending"
	RewardClaimed = "claimed"
	RewardExpired = "expired"
)

// Reward types
const (
	RewardTypeSignupBonus = "signup_bonus"
	RewardTypePromotion   = "promotion"
)

// Reward is a claimable bonus credit with optional expiry. Pending
// rewards past ExpiresAt become expired and permanently unclaimable.
type Reward struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID      primitive.ObjectID `json:"userId" bson:"userId"`
	Type        string             `json:"type" bson:"type"`
	Amount      int64              `json:"amount" bson:"amount"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Status      string             `json:"status" bson:"status"`
	ExpiresAt   *time.Time         `json:"expiresAt,omitempty" bson:"expiresAt,omitempty"`
	ClaimedAt   *time.Time         `json:"claimedAt,omitempty" bson:"claimedAt,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}
