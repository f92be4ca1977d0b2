// models/referral.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReferralEdge records one ancestor relationship, created once at signup
// for each ancestor up to three levels. Running totals are updated in
// place by the commission engine.
type ReferralEdge struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ReferrerID      primitive.ObjectID `json:"referrerId" bson:"referrerId"`
	ReferredID      primitive.ObjectID `json:"referredId" bson:"referredId"`
	Level           int                `json:"level" bson:"level"` // 1, 2 or 3
	CommissionRate  float64            `json:"commissionRate" bson:"commissionRate"` // percent
	Status          string             `json:"status" bson:"status"`                 // "active", "inactive"
	TotalCommission int64              `json:"totalCommission" bson:"totalCommission"`
	TotalPurchases  int                `json:"totalPurchases" bson:"totalPurchases"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type ReferralRequest struct {
	ReferralCode string `json:"referralCode"`
}

// ReferralTeamMember is the per-downline view returned to referrers.
type ReferralTeamMember struct {
	UserID          primitive.ObjectID `json:"userId"`
	FullName        string             `json:"fullName"`
	Level           int                `json:"level"`
	TotalCommission int64              `json:"totalCommission"`
	TotalPurchases  int                `json:"totalPurchases"`
	JoinedAt        time.Time          `json:"joinedAt"`
}
