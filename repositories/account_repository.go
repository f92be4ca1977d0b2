// repositories/account_repository.go
package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kdjabeo/sikafund_backend/config"
	"github.com/kdjabeo/sikafund_backend/models"
)

// AccountRepository provides shared account lookups used by controllers
// and middleware. Balance writes never happen here; they belong to the
// ledger service.
type AccountRepository struct {
	collection *mongo.Collection
}

func NewAccountRepository(db *mongo.Client) *AccountRepository {
	return &AccountRepository{
		collection: config.GetCollection(db, "users"),
	}
}

// FindByID loads an account by its id.
func (r *AccountRepository) FindByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByPhone loads an account by its registered phone number.
func (r *AccountRepository) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"phone": phone}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// IsActive reports whether the account exists and is not deactivated.
func (r *AccountRepository) IsActive(ctx context.Context, userID primitive.ObjectID) bool {
	var user struct {
		IsActive bool `bson:"isActive"`
	}
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	return err == nil && user.IsActive
}

// Deactivate soft-deactivates an account. Accounts are never deleted.
func (r *AccountRepository) Deactivate(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateByID(ctx, userID, bson.M{
		"$set": bson.M{"isActive": false, "updatedAt": time.Now()},
	})
	return err
}

// Reactivate reverses a soft deactivation.
func (r *AccountRepository) Reactivate(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateByID(ctx, userID, bson.M{
		"$set": bson.M{"isActive": true, "updatedAt": time.Now()},
	})
	return err
}
