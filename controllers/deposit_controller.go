// controllers/deposit_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kdjabeo/sikafund_backend/config"
	"github.com/kdjabeo/sikafund_backend/models"
	"github.com/kdjabeo/sikafund_backend/services"
)

// DepositController handles the user side of manual bank-transfer
// deposits. Review and crediting live in AdminController.
type DepositController struct {
	DB       *mongo.Client
	deposits *services.DepositService
}

func NewDepositController(db *mongo.Client) *DepositController {
	settings := services.NewSettingsService(db)
	ledger := services.NewLedgerService(db)
	return &DepositController{
		DB:       db,
		deposits: services.NewDepositService(db, ledger, settings),
	}
}

// GetPaymentMethods lists the active destinations for bank transfers.
func (dc *DepositController) GetPaymentMethods(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := config.GetCollection(dc.DB, "payment_methods").Find(ctx, bson.M{"isActive": true})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve payment methods",
		})
	}
	defer cursor.Close(ctx)

	methods := []models.PaymentMethod{}
	if err := cursor.All(ctx, &methods); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode payment methods",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payment methods retrieved successfully",
		Data:    methods,
	})
}

// CreateDeposit submits a transfer claim for operator review. The
// balance is untouched until approval.
func (dc *DepositController) CreateDeposit(c echo.Context) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return nil
	}

	var req models.DepositRequest
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

	paymentMethodID, ok := parseObjectID(c, req.PaymentMethodID)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	deposit, err := dc.deposits.Create(ctx, userID, paymentMethodID, req.Amount, req.TransactionID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Deposit submitted for review",
		Data:    deposit,
	})
}

// GetMyDeposits lists the user's deposit claims, newest first.
func (dc *DepositController) GetMyDeposits(c echo.Context) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	deposits, err := dc.deposits.ListForUser(ctx, userID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Deposits retrieved successfully",
		Data:    deposits,
	})
}
