// models/product.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is an investment product users can buy. TotalRevenue caps the
// lifetime payout of one subscription to the product.
type Product struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Description  string             `json:"description,omitempty" bson:"description,omitempty"`
	Price        int64              `json:"price" bson:"price"`
	DailyRevenue int64              `json:"dailyRevenue" bson:"dailyRevenue"`
	DurationDays int                `json:"durationDays" bson:"durationDays"`
	TotalRevenue int64              `json:"totalRevenue" bson:"totalRevenue"`
	IsActive     bool               `json:"isActive" bson:"isActive"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Purchase records one completed product purchase.
type Purchase struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
	Amount    int64              `json:"amount" bson:"amount"`
	Status    string             `json:"status" bson:"status"` // "completed"
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

type ProductRequest struct {
	Name         string `json:"name" validate:"required"`
	Description  string `json:"description"`
	Price        int64  `json:"price" validate:"required,gt=0"`
	DailyRevenue int64  `json:"dailyRevenue" validate:"required,gt=0"`
	DurationDays int    `json:"durationDays" validate:"required,gt=0"`
	TotalRevenue int64  `json:"totalRevenue" validate:"required,gt=0"`
}

type PurchaseRequest struct {
	ProductID string `json:"productId" validate:"required"`
}
