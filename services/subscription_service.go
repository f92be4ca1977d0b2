// services/subscription_service.go
package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kdjabeo/sikafund_backend/config"
	"github.com/kdjabeo/sikafund_backend/models"
)

// SubscriptionService owns product purchases and the daily revenue
// accrual that advances every active subscription once per calendar day.
type SubscriptionService struct {
	DB          *mongo.Client
	Ledger      *LedgerService
	Commissions *CommissionService
}

func NewSubscriptionService(db *mongo.Client, ledger *LedgerService, commissions *CommissionService) *SubscriptionService {
	return &SubscriptionService{DB: db, Ledger: ledger, Commissions: commissions}
}

// StartOfDay truncates a time to midnight in its location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// AccrualCompletes decides whether a subscription is finished after an
// accrual tick: duration served, payout cap reached, or end date passed.
func AccrualCompletes(daysElapsed, durationDays int, earnedSoFar, totalRevenue int64, endDate *time.Time, today time.Time) bool {
	if daysElapsed >= durationDays {
		return true
	}
	if earnedSoFar >= totalRevenue {
		return true
	}
	if endDate != nil && !endDate.After(today) {
		return true
	}
	return false
}

// Purchase buys a product for the user. The balance debit, the purchase
// record and the subscription are one atomic transaction; commission
// distribution runs best-effort after it commits.
func (sub *SubscriptionService) Purchase(ctx context.Context, userID primitive.ObjectID, productID primitive.ObjectID) (*models.Purchase, error) {
	productsColl := config.GetCollection(sub.DB, "products")
	var product models.Product
	err := productsColl.FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, productID.Hex())
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if !product.IsActive {
		return nil, fmt.Errorf("%w: product %q is no longer available", ErrInvalidState, product.Name)
	}

	session, err := sub.DB.StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		now := time.Now()
		purchase := models.Purchase{
			ID:        primitive.NewObjectID(),
			UserID:    userID,
			ProductID: product.ID,
			Amount:    product.Price,
			Status:    "completed",
			CreatedAt: now,
		}

		ref := &models.TransactionRef{ID: purchase.ID, Type: "purchase"}
		description := fmt.Sprintf("Purchase of %s", product.Name)
		if _, err := sub.Ledger.Apply(sc, userID, models.KindPurchase, product.Price, description, ref); err != nil {
			return nil, err
		}

		purchasesColl := config.GetCollection(sub.DB, "purchases")
		if _, err := purchasesColl.InsertOne(sc, purchase); err != nil {
			return nil, fmt.Errorf("failed to insert purchase: %w", err)
		}

		endDate := StartOfDay(now).AddDate(0, 0, product.DurationDays)
		userProduct := models.UserProduct{
			ID:             primitive.NewObjectID(),
			UserID:         userID,
			ProductID:      product.ID,
			PurchaseID:     purchase.ID,
			PurchasePrice:  product.Price,
			DailyRevenue:   product.DailyRevenue,
			TotalRevenue:   product.TotalRevenue,
			DurationDays:   product.DurationDays,
			StartDate:      now,
			EndDate:        &endDate,
			NextPayoutDate: StartOfDay(now).AddDate(0, 0, 1),
			Status:         models.SubscriptionActive,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		userProductsColl := config.GetCollection(sub.DB, "user_products")
		if _, err := userProductsColl.InsertOne(sc, userProduct); err != nil {
			return nil, fmt.Errorf("failed to insert subscription: %w", err)
		}

		return &purchase, nil
	})
	if err != nil {
		return nil, err
	}
	purchase := result.(*models.Purchase)

	// The buyer's purchase stands even if commission distribution fails
	if err := sub.Commissions.DistributeOnPurchase(ctx, userID, purchase.ID, purchase.Amount); err != nil {
		log.Printf("Commission distribution failed for purchase %s: %v", purchase.ID.Hex(), err)
	}

	return purchase, nil
}

// AccrualSummary reports one daily accrual run.
type AccrualSummary struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
	Completed int `json:"completed"`
}

// dueSubscriptionFilter selects active subscriptions owed a payout.
// Reactivation unsets endDate, and $gte alone never matches a missing
// field, so the open-ended case needs its own arm.
func dueSubscriptionFilter(today time.Time) bson.M {
	return bson.M{
		"status":         models.SubscriptionActive,
		"nextPayoutDate": bson.M{"$lte": today},
		"$or": []bson.M{
			{"endDate": bson.M{"$gte": today}},
			{"endDate": nil},
		},
	}
}

// RunDailyAccrual pays every active subscription whose payout is due.
// The nextPayoutDate filter makes a second run on the same day a no-op,
// and one subscription's failure never aborts the rest of the batch.
func (sub *SubscriptionService) RunDailyAccrual(ctx context.Context, now time.Time) (*AccrualSummary, error) {
	today := StartOfDay(now)
	userProductsColl := config.GetCollection(sub.DB, "user_products")

	cursor, err := userProductsColl.Find(ctx, dueSubscriptionFilter(today))
	if err != nil {
		return nil, fmt.Errorf("failed to scan due subscriptions: %w", err)
	}

	var due []models.UserProduct
	if err := cursor.All(ctx, &due); err != nil {
		return nil, fmt.Errorf("failed to decode due subscriptions: %w", err)
	}

	summary := &AccrualSummary{}
	for _, userProduct := range due {
		completed, err := sub.accrueOne(ctx, userProduct, today)
		if err != nil {
			summary.Failed++
			log.Printf("Daily accrual failed for subscription %s: %v", userProduct.ID.Hex(), err)
			continue
		}
		summary.Processed++
		if completed {
			summary.Completed++
		}
	}
	return summary, nil
}

// accrueOne pays a single subscription its daily revenue in one atomic
// transaction and advances its payout schedule.
func (sub *SubscriptionService) accrueOne(ctx context.Context, userProduct models.UserProduct, today time.Time) (bool, error) {
	session, err := sub.DB.StartSession()
	if err != nil {
		return false, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	completed := AccrualCompletes(
		userProduct.DaysElapsed+1,
		userProduct.DurationDays,
		userProduct.EarnedSoFar+userProduct.DailyRevenue,
		userProduct.TotalRevenue,
		userProduct.EndDate,
		today,
	)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		ref := &models.TransactionRef{ID: userProduct.ID, Type: "subscription"}
		description := fmt.Sprintf("Daily revenue, day %d of %d", userProduct.DaysElapsed+1, userProduct.DurationDays)
		if _, err := sub.Ledger.Apply(sc, userProduct.UserID, models.KindDailyRevenue, userProduct.DailyRevenue, description, ref); err != nil {
			return nil, err
		}

		update := bson.M{
			"$inc": bson.M{
				"earnedSoFar": userProduct.DailyRevenue,
				"daysElapsed": 1,
			},
			"$set": bson.M{
				"nextPayoutDate": today.AddDate(0, 0, 1),
				"updatedAt":      time.Now(),
			},
		}
		if completed {
			update["$set"].(bson.M)["status"] = models.SubscriptionCompleted
		}

		userProductsColl := config.GetCollection(sub.DB, "user_products")
		// Guard on nextPayoutDate so a concurrent run cannot double-pay
		result, err := userProductsColl.UpdateOne(sc, bson.M{
			"_id":            userProduct.ID,
			"status":         models.SubscriptionActive,
			"nextPayoutDate": bson.M{"$lte": today},
		}, update)
		if err != nil {
			return nil, fmt.Errorf("failed to advance subscription: %w", err)
		}
		if result.MatchedCount == 0 {
			return nil, fmt.Errorf("%w: subscription already advanced today", ErrInvalidState)
		}
		return nil, nil
	})
	if err != nil {
		return false, err
	}
	return completed, nil
}

// Stop force-cancels an active subscription. No retroactive clawback is
// performed; the balance is untouched.
func (sub *SubscriptionService) Stop(ctx context.Context, adminID, userProductID primitive.ObjectID) error {
	now := time.Now()
	userProductsColl := config.GetCollection(sub.DB, "user_products")
	result, err := userProductsColl.UpdateOne(ctx, bson.M{
		"_id":    userProductID,
		"status": models.SubscriptionActive,
	}, bson.M{
		"$set": bson.M{"status": models.SubscriptionCancelled, "endDate": now, "updatedAt": now},
	})
	if err != nil {
		return fmt.Errorf("failed to stop subscription: %w", err)
	}
	if result.MatchedCount == 0 {
		return sub.subscriptionStateError(ctx, userProductID, models.SubscriptionActive)
	}

	return sub.auditSubscriptionAction(ctx, adminID, userProductID, models.AuditSubscriptionStop, "subscription stopped")
}

// Reactivate returns a cancelled subscription to active and clears its
// forced end date.
func (sub *SubscriptionService) Reactivate(ctx context.Context, adminID, userProductID primitive.ObjectID) error {
	now := time.Now()
	userProductsColl := config.GetCollection(sub.DB, "user_products")
	result, err := userProductsColl.UpdateOne(ctx, bson.M{
		"_id":    userProductID,
		"status": models.SubscriptionCancelled,
	}, bson.M{
		"$set":   bson.M{"status": models.SubscriptionActive, "updatedAt": now},
		"$unset": bson.M{"endDate": ""},
	})
	if err != nil {
		return fmt.Errorf("failed to reactivate subscription: %w", err)
	}
	if result.MatchedCount == 0 {
		return sub.subscriptionStateError(ctx, userProductID, models.SubscriptionCancelled)
	}

	return sub.auditSubscriptionAction(ctx, adminID, userProductID, models.AuditSubscriptionRestart, "subscription reactivated")
}

// subscriptionStateError distinguishes a missing subscription from one
// in the wrong state.
func (sub *SubscriptionService) subscriptionStateError(ctx context.Context, userProductID primitive.ObjectID, wantStatus string) error {
	userProductsColl := config.GetCollection(sub.DB, "user_products")
	var userProduct models.UserProduct
	err := userProductsColl.FindOne(ctx, bson.M{"_id": userProductID}).Decode(&userProduct)
	if err != nil {
		return fmt.Errorf("%w: subscription %s", ErrNotFound, userProductID.Hex())
	}
	return fmt.Errorf("%w: subscription is %s, expected %s", ErrInvalidState, userProduct.Status, wantStatus)
}

func (sub *SubscriptionService) auditSubscriptionAction(ctx context.Context, adminID, userProductID primitive.ObjectID, action, details string) error {
	audit := models.AuditLog{
		ID:         primitive.NewObjectID(),
		AdminID:    adminID,
		Action:     action,
		TargetType: "user_product",
		TargetID:   userProductID,
		Details:    details,
		CreatedAt:  time.Now(),
	}
	auditColl := config.GetCollection(sub.DB, "audit_logs")
	if _, err := auditColl.InsertOne(ctx, audit); err != nil {
		return fmt.Errorf("action applied but audit log failed: %w", err)
	}
	return nil
}

// ListForUser returns a user's subscriptions, newest first.
func (sub *SubscriptionService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.UserProduct, error) {
	userProductsColl := config.GetCollection(sub.DB, "user_products")
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := userProductsColl.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer cursor.Close(ctx)

	var userProducts []models.UserProduct
	if err := cursor.All(ctx, &userProducts); err != nil {
		return nil, fmt.Errorf("failed to decode subscriptions: %w", err)
	}
	return userProducts, nil
}
