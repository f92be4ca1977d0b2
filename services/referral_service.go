// services/referral_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kdjabeo/sikafund_backend/config"
	"github.com/kdjabeo/sikafund_backend/models"
)

// MaxReferralLevels is how far up the chain commissions reach.
const MaxReferralLevels = 3

// ReferralService maintains the referral graph. Edges are created once
// at signup and never re-created; the commission engine updates their
// running totals afterwards.
type ReferralService struct {
	DB       *mongo.Client
	Settings SettingsProvider
}

func NewReferralService(db *mongo.Client, settings SettingsProvider) *ReferralService {
	return &ReferralService{DB: db, Settings: settings}
}

// rateForLevel reads the commission rate for one referral level.
func (rs *ReferralService) rateForLevel(ctx context.Context, level int) float64 {
	switch level {
	case 1:
		return rs.Settings.GetFloat(ctx, models.SettingReferralLevel1Rate, DefaultLevel1Rate)
	case 2:
		return rs.Settings.GetFloat(ctx, models.SettingReferralLevel2Rate, DefaultLevel2Rate)
	case 3:
		return rs.Settings.GetFloat(ctx, models.SettingReferralLevel3Rate, DefaultLevel3Rate)
	default:
		return 0
	}
}

// ResolveCode finds the account owning a referral code.
func (rs *ReferralService) ResolveCode(ctx context.Context, referralCode string) (*models.User, error) {
	usersColl := config.GetCollection(rs.DB, "users")
	var referrer models.User
	err := usersColl.FindOne(ctx, bson.M{"referralCode": referralCode, "isActive": true}).Decode(&referrer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: referral code %q", ErrNotFound, referralCode)
		}
		return nil, fmt.Errorf("failed to resolve referral code: %w", err)
	}
	return &referrer, nil
}

// AttachReferrer links a freshly registered user to the referrer behind
// the supplied code and creates one edge per ancestor up to three
// levels, incrementing each ancestor's referral counter.
func (rs *ReferralService) AttachReferrer(ctx context.Context, newUserID primitive.ObjectID, referralCode string) error {
	referrer, err := rs.ResolveCode(ctx, referralCode)
	if err != nil {
		return err
	}
	if referrer.ID == newUserID {
		return fmt.Errorf("%w: cannot use your own referral code", ErrValidation)
	}

	usersColl := config.GetCollection(rs.DB, "users")
	edgesColl := config.GetCollection(rs.DB, "referral_edges")
	now := time.Now()

	_, err = usersColl.UpdateByID(ctx, newUserID, bson.M{
		"$set": bson.M{"referredBy": referrer.ID, "updatedAt": now},
	})
	if err != nil {
		return fmt.Errorf("failed to set referredBy: %w", err)
	}

	ancestor := referrer
	for level := 1; level <= MaxReferralLevels; level++ {
		edge := models.ReferralEdge{
			ID:             primitive.NewObjectID(),
			ReferrerID:     ancestor.ID,
			ReferredID:     newUserID,
			Level:          level,
			CommissionRate: rs.rateForLevel(ctx, level),
			Status:         "active",
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if _, err := edgesColl.InsertOne(ctx, edge); err != nil {
			return fmt.Errorf("failed to create level %d referral edge: %w", level, err)
		}

		_, err = usersColl.UpdateByID(ctx, ancestor.ID, bson.M{
			"$inc": bson.M{"totalReferrals": 1},
			"$set": bson.M{"updatedAt": now},
		})
		if err != nil {
			return fmt.Errorf("failed to increment referral counter: %w", err)
		}

		if ancestor.ReferredBy == nil {
			break
		}
		var next models.User
		err = usersColl.FindOne(ctx, bson.M{"_id": *ancestor.ReferredBy}).Decode(&next)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				break
			}
			return fmt.Errorf("failed to walk referral chain: %w", err)
		}
		ancestor = &next
	}

	return nil
}

// EdgesForBuyer returns the buyer's active ancestor edges ordered by
// level, the order the commission engine pays them in.
func (rs *ReferralService) EdgesForBuyer(ctx context.Context, buyerID primitive.ObjectID) ([]models.ReferralEdge, error) {
	edgesColl := config.GetCollection(rs.DB, "referral_edges")
	opts := options.Find().SetSort(bson.D{{Key: "level", Value: 1}})
	cursor, err := edgesColl.Find(ctx, bson.M{"referredId": buyerID, "status": "active"}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load referral edges: %w", err)
	}
	defer cursor.Close(ctx)

	var edges []models.ReferralEdge
	if err := cursor.All(ctx, &edges); err != nil {
		return nil, fmt.Errorf("failed to decode referral edges: %w", err)
	}
	return edges, nil
}

// Team lists a referrer's downline with per-member commission totals.
func (rs *ReferralService) Team(ctx context.Context, referrerID primitive.ObjectID) ([]models.ReferralTeamMember, error) {
	edgesColl := config.GetCollection(rs.DB, "referral_edges")
	usersColl := config.GetCollection(rs.DB, "users")

	opts := options.Find().SetSort(bson.D{{Key: "level", Value: 1}, {Key: "createdAt", Value: -1}})
	cursor, err := edgesColl.Find(ctx, bson.M{"referrerId": referrerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load team: %w", err)
	}
	defer cursor.Close(ctx)

	var edges []models.ReferralEdge
	if err := cursor.All(ctx, &edges); err != nil {
		return nil, fmt.Errorf("failed to decode team: %w", err)
	}

	team := make([]models.ReferralTeamMember, 0, len(edges))
	for _, edge := range edges {
		var member models.User
		if err := usersColl.FindOne(ctx, bson.M{"_id": edge.ReferredID}).Decode(&member); err != nil {
			continue
		}
		team = append(team, models.ReferralTeamMember{
			UserID:          member.ID,
			FullName:        member.FullName,
			Level:           edge.Level,
			TotalCommission: edge.TotalCommission,
			TotalPurchases:  edge.TotalPurchases,
			JoinedAt:        member.CreatedAt,
		})
	}
	return team, nil
}
