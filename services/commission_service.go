// services/commission_service.go
package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kdjabeo/sikafund_backend/config"
	"github.com/kdjabeo/sikafund_backend/models"
)

// CommissionService distributes referral commissions after a purchase.
// It always runs after the purchase transaction has committed: a
// distribution failure never rolls the purchase back.
type CommissionService struct {
	DB        *mongo.Client
	Ledger    *LedgerService
	Referrals *ReferralService
}

func NewCommissionService(db *mongo.Client, ledger *LedgerService, referrals *ReferralService) *CommissionService {
	return &CommissionService{DB: db, Ledger: ledger, Referrals: referrals}
}

// CommissionAmount computes one ancestor's cut of a purchase, rounded
// to the nearest FCFA.
func CommissionAmount(purchaseAmount int64, rate float64) int64 {
	return int64(math.Round(float64(purchaseAmount) * rate / 100))
}

// CommissionEligible reports whether a purchase earns its referrers a
// commission, given how many completed purchases the buyer made before
// it. Commissions are a one-time reward paid only on the buyer's first
// purchase; this is deliberate policy.
func CommissionEligible(priorCompletedPurchases int64) bool {
	return priorCompletedPurchases == 0
}

// IsFirstPurchase reports whether the buyer has no completed purchase
// other than the one given.
func (cs *CommissionService) IsFirstPurchase(ctx context.Context, buyerID, purchaseID primitive.ObjectID) (bool, error) {
	purchasesColl := config.GetCollection(cs.DB, "purchases")
	count, err := purchasesColl.CountDocuments(ctx, bson.M{
		"userId": buyerID,
		"status": "completed",
		"_id":    bson.M{"$ne": purchaseID},
	})
	if err != nil {
		return false, fmt.Errorf("failed to count prior purchases: %w", err)
	}
	return CommissionEligible(count), nil
}

// DistributeOnPurchase walks the buyer's ancestor edges and credits
// each referrer. Each ancestor's credit is its own atomic ledger
// mutation: a failure on one level is logged and does not block the
// others.
func (cs *CommissionService) DistributeOnPurchase(ctx context.Context, buyerID, purchaseID primitive.ObjectID, purchaseAmount int64) error {
	first, err := cs.IsFirstPurchase(ctx, buyerID, purchaseID)
	if err != nil {
		return err
	}
	if !first {
		return nil
	}

	edges, err := cs.Referrals.EdgesForBuyer(ctx, buyerID)
	if err != nil {
		return err
	}

	edgesColl := config.GetCollection(cs.DB, "referral_edges")
	var failed int
	for _, edge := range edges {
		amount := CommissionAmount(purchaseAmount, edge.CommissionRate)
		if amount <= 0 {
			continue
		}

		description := fmt.Sprintf("Level %d referral commission (%.1f%% of %d FCFA)", edge.Level, edge.CommissionRate, purchaseAmount)
		ref := &models.TransactionRef{ID: purchaseID, Type: "purchase"}
		_, err := cs.Ledger.Apply(ctx, edge.ReferrerID, models.KindCommission, amount, description, ref)
		if err != nil {
			failed++
			log.Printf("Commission credit failed for referrer %s (level %d): %v", edge.ReferrerID.Hex(), edge.Level, err)
			continue
		}

		_, err = edgesColl.UpdateByID(ctx, edge.ID, bson.M{
			"$inc": bson.M{"totalCommission": amount, "totalPurchases": 1},
			"$set": bson.M{"updatedAt": time.Now()},
		})
		if err != nil {
			log.Printf("Commission credited but edge totals update failed for edge %s: %v", edge.ID.Hex(), err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("commission distribution finished with %d of %d credits failed", failed, len(edges))
	}
	return nil
}
