// models/user_product.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subscription statuses
const (
	SubscriptionActive    = "active"
	SubscriptionCompleted = "completed"
	SubscriptionCancelled = "cancelled"
)

// UserProduct is one active investment instance. It is created at
// purchase time and advanced once per calendar day by the daily accrual
// job until it completes or expires.
type UserProduct struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID         primitive.ObjectID `json:"userId" bson:"userId"`
	ProductID      primitive.ObjectID `json:"productId" bson:"productId"`
	PurchaseID     primitive.ObjectID `json:"purchaseId" bson:"purchaseId"`
	PurchasePrice  int64              `json:"purchasePrice" bson:"purchasePrice"`
	DailyRevenue   int64              `json:"dailyRevenue" bson:"dailyRevenue"`
	TotalRevenue   int64              `json:"totalRevenue" bson:"totalRevenue"` // lifetime payout cap
	DurationDays   int                `json:"durationDays" bson:"durationDays"`
	EarnedSoFar    int64              `json:"earnedSoFar" bson:"earnedSoFar"`
	DaysElapsed    int                `json:"daysElapsed" bson:"daysElapsed"`
	StartDate      time.Time          `json:"startDate" bson:"startDate"`
	EndDate        *time.Time         `json:"endDate,omitempty" bson:"endDate,omitempty"`
	NextPayoutDate time.Time          `json:"nextPayoutDate" bson:"nextPayoutDate"`
	Status         string             `json:"status" bson:"status"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}
