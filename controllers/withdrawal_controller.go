// controllers/withdrawal_controller.go
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

// WithdrawalController handles the user side of the payout flow:
// requesting, cancelling and listing withdrawals. Approval and
// rejection live in AdminController.
type WithdrawalController struct {
	DB          *mongo.Client
	withdrawals *services.WithdrawalService
}

func NewWithdrawalController(db *mongo.Client) *WithdrawalController {
	settings := services.NewSettingsService(db)
	ledger := services.NewLedgerService(db)
	return &WithdrawalController{
		DB:          db,
		withdrawals: services.NewWithdrawalService(db, ledger, settings),
	}
}

// CreateWithdrawal files a payout request. The balance is checked but
// not debited; the debit happens at approval.
func (wc *WithdrawalController) CreateWithdrawal(c echo.Context) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return nil
	}

	var req models.WithdrawalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	bankAccountID, ok := parseObjectID(c, req.BankAccountID)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	withdrawal, err := wc.withdrawals.Create(ctx, userID, req.Amount, bankAccountID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Withdrawal request submitted",
		Data:    withdrawal,
	})
}

// CancelWithdrawal cancels the user's own pending request. Nothing was
// debited yet, so no refund is written.
func (wc *WithdrawalController) CancelWithdrawal(c echo.Context) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return nil
	}

	withdrawalID, ok := parseObjectID(c, c.Param("id"))
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := wc.withdrawals.Cancel(ctx, userID, withdrawalID); err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Withdrawal cancelled successfully",
	})
}

// GetMyWithdrawals lists the user's withdrawal history, newest first.
func (wc *WithdrawalController) GetMyWithdrawals(c echo.Context) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	withdrawals, err := wc.withdrawals.ListForUser(ctx, userID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Withdrawals retrieved successfully",
		Data:    withdrawals,
	})
}
