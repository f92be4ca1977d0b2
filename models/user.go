// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User model. Balance is stored in FCFA (no decimals) and is only ever
// mutated through the ledger service.
type User struct {
	ID              primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Phone           string              `json:"phone" bson:"phone"`
	Password        string              `json:"password,omitempty" bson:"password"`
	FullName        string              `json:"fullName" bson:"fullName"`
	UserType        string              `json:"userType" bson:"userType"` // "user", "admin"
	IsActive        bool                `json:"isActive" bson:"isActive"`
	Balance         int64               `json:"balance" bson:"balance"`
	TotalEarnings   int64               `json:"totalEarnings" bson:"totalEarnings"`
	TotalInvested   int64               `json:"totalInvested" bson:"totalInvested"`
	TotalReferrals  int                 `json:"totalReferrals" bson:"totalReferrals"`
	ReferralCode    string              `json:"referralCode,omitempty" bson:"referralCode,omitempty"`
	ReferredBy      *primitive.ObjectID `json:"referredBy,omitempty" bson:"referredBy,omitempty"`
	CheckinStreak   int                 `json:"checkinStreak" bson:"checkinStreak"`
	LastCheckinDate *time.Time          `json:"lastCheckinDate,omitempty" bson:"lastCheckinDate,omitempty"`
	CreatedAt       time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// RegisterRequest is the signup payload
type RegisterRequest struct {
	Phone        string `json:"phone" validate:"required"`
	Password     string `json:"password" validate:"required,min=6"`
	FullName     string `json:"fullName" validate:"required"`
	ReferralCode string `json:"referralCode,omitempty"`
}

// LoginRequest is the login payload
type LoginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Response model
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
