// services/reward_service.go
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

// RewardService owns daily check-in streaks and claimable rewards.
type RewardService struct {
	DB       *mongo.Client
	Ledger   *LedgerService
	Settings SettingsProvider
}

func NewRewardService(db *mongo.Client, ledger *LedgerService, settings SettingsProvider) *RewardService {
	return &RewardService{DB: db, Ledger: ledger, Settings: settings}
}

// NextStreak computes the streak after checking in at now: consecutive
// only when the previous check-in was exactly yesterday.
func NextStreak(lastCheckin *time.Time, currentStreak int, now time.Time) int {
	if lastCheckin == nil {
		return 1
	}
	yesterday := StartOfDay(now).AddDate(0, 0, -1)
	if SameDay(*lastCheckin, yesterday) {
		return currentStreak + 1
	}
	return 1
}

// CheckinResult reports a successful daily check-in.
type CheckinResult struct {
	Streak  int   `json:"streak"`
	Bonus   int64 `json:"bonus"`
	Balance int64 `json:"balance"`
}

// CheckIn credits the daily bonus at most once per calendar day and
// advances or resets the streak.
func (rs *RewardService) CheckIn(ctx context.Context, userID primitive.ObjectID) (*CheckinResult, error) {
	now := time.Now()
	usersColl := config.GetCollection(rs.DB, "users")

	var user models.User
	err := usersColl.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: account %s", ErrNotFound, userID.Hex())
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user.LastCheckinDate != nil && SameDay(*user.LastCheckinDate, now) {
		return nil, fmt.Errorf("%w: already checked in today", ErrInvalidState)
	}

	streak := NextStreak(user.LastCheckinDate, user.CheckinStreak, now)
	bonus := rs.Settings.GetInt64(ctx, models.SettingDailyCheckinBonus, DefaultDailyCheckinBonus)

	session, err := rs.DB.StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		// Claim today's slot first so a concurrent check-in loses the race
		updateResult, err := usersColl.UpdateOne(sc, bson.M{
			"_id": userID,
			"$or": bson.A{
				bson.M{"lastCheckinDate": bson.M{"$exists": false}},
				bson.M{"lastCheckinDate": nil},
				bson.M{"lastCheckinDate": bson.M{"$lt": StartOfDay(now)}},
			},
		}, bson.M{
			"$set": bson.M{
				"checkinStreak":   streak,
				"lastCheckinDate": now,
				"updatedAt":       now,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to record check-in: %w", err)
		}
		if updateResult.MatchedCount == 0 {
			return nil, fmt.Errorf("%w: already checked in today", ErrInvalidState)
		}

		description := fmt.Sprintf("Daily check-in, day %d streak", streak)
		ledgerResult, err := rs.Ledger.Apply(sc, userID, models.KindCheckin, bonus, description, nil)
		if err != nil {
			return nil, err
		}
		return &CheckinResult{Streak: streak, Bonus: bonus, Balance: ledgerResult.BalanceAfter}, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*CheckinResult), nil
}

// CreateReward records a claimable reward in pending status.
func (rs *RewardService) CreateReward(ctx context.Context, userID primitive.ObjectID, rewardType string, amount int64, description string, expiresAt *time.Time) (*models.Reward, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: reward amount must be positive", ErrValidation)
	}
	reward := models.Reward{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		Type:        rewardType,
		Amount:      amount,
		Description: description,
		Status:      models.RewardPending,
		ExpiresAt:   expiresAt,
		CreatedAt:   time.Now(),
	}
	rewardsColl := config.GetCollection(rs.DB, "rewards")
	if _, err := rewardsColl.InsertOne(ctx, reward); err != nil {
		return nil, fmt.Errorf("failed to insert reward: %w", err)
	}
	return &reward, nil
}

// Claim credits a pending, unexpired reward to its owner.
func (rs *RewardService) Claim(ctx context.Context, userID, rewardID primitive.ObjectID) (*LedgerResult, error) {
	rewardsColl := config.GetCollection(rs.DB, "rewards")
	var reward models.Reward
	err := rewardsColl.FindOne(ctx, bson.M{"_id": rewardID, "userId": userID}).Decode(&reward)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: reward %s", ErrNotFound, rewardID.Hex())
		}
		return nil, fmt.Errorf("failed to load reward: %w", err)
	}
	if reward.Status != models.RewardPending {
		return nil, fmt.Errorf("%w: reward is %s", ErrInvalidState, reward.Status)
	}
	now := time.Now()
	if reward.ExpiresAt != nil && reward.ExpiresAt.Before(now) {
		return nil, fmt.Errorf("%w: reward has expired", ErrInvalidState)
	}

	session, err := rs.DB.StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		updateResult, err := rewardsColl.UpdateOne(sc, bson.M{
			"_id":    reward.ID,
			"status": models.RewardPending,
		}, bson.M{
			"$set": bson.M{"status": models.RewardClaimed, "claimedAt": now},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to claim reward: %w", err)
		}
		if updateResult.MatchedCount == 0 {
			return nil, fmt.Errorf("%w: reward already claimed", ErrInvalidState)
		}

		description := reward.Description
		if description == "" {
			description = "Reward claimed"
		}
		ref := &models.TransactionRef{ID: reward.ID, Type: "reward"}
		return rs.Ledger.Apply(sc, userID, models.KindReward, reward.Amount, description, ref)
	})
	if err != nil {
		return nil, err
	}
	return result.(*LedgerResult), nil
}

// ExpireRewards transitions every pending reward past its expiry to
// expired, making it permanently unclaimable. Returns how many expired.
func (rs *RewardService) ExpireRewards(ctx context.Context, now time.Time) (int64, error) {
	rewardsColl := config.GetCollection(rs.DB, "rewards")
	result, err := rewardsColl.UpdateMany(ctx, bson.M{
		"status":    models.RewardPending,
		"expiresAt": bson.M{"$ne": nil, "$lt": now},
	}, bson.M{
		"$set": bson.M{"status": models.RewardExpired},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to expire rewards: %w", err)
	}
	return result.ModifiedCount, nil
}

// ResetBrokenStreaks zeroes the streak of every account whose last
// check-in is older than yesterday. Returns how many were reset.
func (rs *RewardService) ResetBrokenStreaks(ctx context.Context, now time.Time) (int64, error) {
	yesterday := StartOfDay(now).AddDate(0, 0, -1)
	usersColl := config.GetCollection(rs.DB, "users")
	result, err := usersColl.UpdateMany(ctx, bson.M{
		"checkinStreak":   bson.M{"$gt": 0},
		"lastCheckinDate": bson.M{"$lt": yesterday},
	}, bson.M{
		"$set": bson.M{"checkinStreak": 0, "updatedAt": now},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to reset streaks: %w", err)
	}
	return result.ModifiedCount, nil
}

// ListForUser returns a user's rewards, newest first.
func (rs *RewardService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Reward, error) {
	rewardsColl := config.GetCollection(rs.DB, "rewards")
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := rewardsColl.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list rewards: %w", err)
	}
	defer cursor.Close(ctx)

	var rewards []models.Reward
	if err := cursor.All(ctx, &rewards); err != nil {
		return nil, fmt.Errorf("failed to decode rewards: %w", err)
	}
	return rewards, nil
}
