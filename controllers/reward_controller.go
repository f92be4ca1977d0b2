// controllers/reward_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kdjabeo/sikafund_backend/models"
	"github.com/kdjabeo/sikafund_backend/services"
)

// RewardController lists and claims bonus rewards.
type RewardController struct {
	DB      *mongo.Client
	rewards *services.RewardService
}

func NewRewardController(db *mongo.Client) *RewardController {
	settings := services.NewSettingsService(db)
	ledger := services.NewLedgerService(db)
	return &RewardController{
		DB:      db,
		rewards: services.NewRewardService(db, ledger, settings),
	}
}

// GetMyRewards lists the user's rewards, newest first.
func (rc *RewardController) GetMyRewards(c echo.Context) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rewards, err := rc.rewards.ListForUser(ctx, userID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Rewards retrieved successfully",
		Data:    rewards,
	})
}

// ClaimReward credits a pending, unexpired reward to the balance.
func (rc *RewardController) ClaimReward(c echo.Context) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return nil
	}

	rewardID, ok := parseObjectID(c, c.Param("id"))
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := rc.rewards.Claim(ctx, userID, rewardID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Reward claimed successfully",
		Data: map[string]interface{}{
			"balance": result.BalanceAfter,
			"entryId": result.EntryID,
		},
	})
}
