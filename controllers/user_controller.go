// controllers/user_controller.go
package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kdjabeo/sikafund_backend/config"
	"github.com/kdjabeo/sikafund_backend/models"
	"github.com/kdjabeo/sikafund_backend/repositories"
	"github.com/kdjabeo/sikafund_backend/services"
	"github.com/kdjabeo/sikafund_backend/utils"
)

// UserController handles profile, balance, ledger history, check-in and
// bank account operations for the authenticated user
type UserController struct {
	DB       *mongo.Client
	accounts *repositories.AccountRepository
	ledger   *services.LedgerService
	rewards  *services.RewardService
}

func NewUserController(db *mongo.Client) *UserController {
	settings := services.NewSettingsService(db)
	ledger := services.NewLedgerService(db)
	return &UserController{
		DB:       db,
		accounts: repositories.NewAccountRepository(db),
		ledger:   ledger,
		rewards:  services.NewRewardService(db, ledger, settings),
	}
}

// GetProfile returns the authenticated user's account.
func (uc *UserController) GetProfile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, ok := authenticatedUserID(c)
	if !ok {
		return nil
	}

	user, err := uc.accounts.FindByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Account not found",
		})
	}

	user.Password = ""
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile retrieved successfully",
		Data:    user,
	})
}

// GetBalance returns the current balance and lifetime aggregates.
func (uc *UserController) GetBalance(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, ok := authenticatedUserID(c)
	if !ok {
		return nil
	}

	user, err := uc.accounts.FindByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Account not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Balance retrieved successfully",
		Data: map[string]interface{}{
			"balance":        user.Balance,
			"totalEarnings":  user.TotalEarnings,
			"totalInvested":  user.TotalInvested,
			"totalReferrals": user.TotalReferrals,
			"checkinStreak":  user.CheckinStreak,
		},
	})
}

// GetTransactions returns a page of the user's ledger history.
func (uc *UserController) GetTransactions(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	userID, ok := authenticatedUserID(c)
	if !ok {
		return nil
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	transactions, total, err := uc.ledger.ListTransactions(ctx, userID, page, limit)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Transactions retrieved successfully",
		Data: map[string]interface{}{
			"transactions": transactions,
			"total":        total,
		},
	})
}

// CheckIn performs the daily check-in.
func (uc *UserController) CheckIn(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, ok := authenticatedUserID(c)
	if !ok {
		return nil
	}

	result, err := uc.rewards.CheckIn(ctx, userID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Checked in successfully",
		Data:    result,
	})
}

// GetNotifications returns the user's notification records.
func (uc *UserController) GetNotifications(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, ok := authenticatedUserID(c)
	if !ok {
		return nil
	}

	notifColl := config.GetCollection(uc.DB, "notifications")
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(50)
	cursor, err := notifColl.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return serviceErrorResponse(c, err)
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notifications retrieved successfully",
		Data:    notifications,
	})
}

// MarkNotificationRead marks one notification as read.
func (uc *UserController) MarkNotificationRead(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, ok := authenticatedUserID(c)
	if !ok {
		return nil
	}
	notifID, ok := parseObjectID(c, c.Param("id"))
	if !ok {
		return nil
	}

	notifColl := config.GetCollection(uc.DB, "notifications")
	result, err := notifColl.UpdateOne(ctx, bson.M{"_id": notifID, "userId": userID}, bson.M{
		"$set": bson.M{"isRead": true},
	})
	if err != nil {
		return serviceErrorResponse(c, err)
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Notification not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notification marked as read",
	})
}

// AddBankAccount registers a payout destination. It stays unverified
// until an admin reviews it.
func (uc *UserController) AddBankAccount(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, ok := authenticatedUserID(c)
	if !ok {
		return nil
	}

	var req models.BankAccountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Bank name, account name and account number are required",
		})
	}

	now := time.Now()
	bankAccount := models.BankAccount{
		ID:            primitive.NewObjectID(),
		UserID:        userID,
		BankName:      utils.SanitizeInput(req.BankName),
		AccountName:   utils.SanitizeInput(req.AccountName),
		AccountNumber: utils.SanitizeInput(req.AccountNumber),
		IsVerified:    false,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	bankColl := config.GetCollection(uc.DB, "bank_accounts")
	if _, err := bankColl.InsertOne(ctx, bankAccount); err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Bank account added, pending verification",
		Data:    bankAccount,
	})
}

// GetBankAccounts lists the user's payout destinations.
func (uc *UserController) GetBankAccounts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, ok := authenticatedUserID(c)
	if !ok {
		return nil
	}

	bankColl := config.GetCollection(uc.DB, "bank_accounts")
	cursor, err := bankColl.Find(ctx, bson.M{"userId": userID, "isActive": true})
	if err != nil {
		return serviceErrorResponse(c, err)
	}
	defer cursor.Close(ctx)

	var bankAccounts []models.BankAccount
	if err := cursor.All(ctx, &bankAccounts); err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Bank accounts retrieved successfully",
		Data:    bankAccounts,
	})
}
