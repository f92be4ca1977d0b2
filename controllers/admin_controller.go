// controllers/admin_controller.go
package controllers

import (
	"context"
	"fmt"
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

// AdminController groups the operator surface: reviewing withdrawals
// and deposits, verifying bank accounts, managing the product
// catalogue and payment methods, tuning settings, adjusting balances
// and triggering settlement jobs by hand.
type AdminController struct {
	DB            *mongo.Client
	accounts      *repositories.AccountRepository
	ledger        *services.LedgerService
	settings      *services.SettingsService
	withdrawals   *services.WithdrawalService
	deposits      *services.DepositService
	subscriptions *services.SubscriptionService
	rewards       *services.RewardService
}

func NewAdminController(db *mongo.Client) *AdminController {
	settings := services.NewSettingsService(db)
	ledger := services.NewLedgerService(db)
	referrals := services.NewReferralService(db, settings)
	commissions := services.NewCommissionService(db, ledger, referrals)
	return &AdminController{
		DB:            db,
		accounts:      repositories.NewAccountRepository(db),
		ledger:        ledger,
		settings:      settings,
		withdrawals:   services.NewWithdrawalService(db, ledger, settings),
		deposits:      services.NewDepositService(db, ledger, settings),
		subscriptions: services.NewSubscriptionService(db, ledger, commissions),
		rewards:       services.NewRewardService(db, ledger, settings),
	}
}

func adminID(c echo.Context) (primitive.ObjectID, bool) {
	return authenticatedUserID(c)
}

// ---- Withdrawals ----

// GetWithdrawals lists withdrawal requests, optionally filtered by
// ?status=pending|completed|rejected|cancelled.
func (ac *AdminController) GetWithdrawals(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	status := c.QueryParam("status")
	withdrawals, err := ac.withdrawals.ListByStatus(ctx, status)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Withdrawals retrieved successfully",
		Data:    withdrawals,
	})
}

// ApproveWithdrawal debits the gross amount and completes the request.
func (ac *AdminController) ApproveWithdrawal(c echo.Context) error {
	admin, ok := adminID(c)
	if !ok {
		return nil
	}
	withdrawalID, ok := parseObjectID(c, c.Param("id"))
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	withdrawal, err := ac.withdrawals.Approve(ctx, admin, withdrawalID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Withdrawal approved",
		Data:    withdrawal,
	})
}

// RejectWithdrawal declines a pending request. Nothing was debited, so
// there is no refund entry.
func (ac *AdminController) RejectWithdrawal(c echo.Context) error {
	admin, ok := adminID(c)
	if !ok {
		return nil
	}
	withdrawalID, ok := parseObjectID(c, c.Param("id"))
	if !ok {
		return nil
	}

	var req models.RejectWithdrawalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Rejection reason is required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	withdrawal, err := ac.withdrawals.Reject(ctx, admin, withdrawalID, req.Reason)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Withdrawal rejected",
		Data:    withdrawal,
	})
}

// ---- Deposits ----

// GetDeposits lists manual deposits, optionally filtered by ?status=.
func (ac *AdminController) GetDeposits(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	deposits, err := ac.deposits.ListByStatus(ctx, c.QueryParam("status"))
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Deposits retrieved successfully",
		Data:    deposits,
	})
}

// ApproveDeposit credits the claimed amount to the user's balance.
func (ac *AdminController) ApproveDeposit(c echo.Context) error {
	admin, ok := adminID(c)
	if !ok {
		return nil
	}
	depositID, ok := parseObjectID(c, c.Param("id"))
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deposit, err := ac.deposits.Approve(ctx, admin, depositID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Deposit approved",
		Data:    deposit,
	})
}

// RejectDeposit declines a claim without touching the balance.
func (ac *AdminController) RejectDeposit(c echo.Context) error {
	admin, ok := adminID(c)
	if !ok {
		return nil
	}
	depositID, ok := parseObjectID(c, c.Param("id"))
	if !ok {
		return nil
	}

	var req models.RejectDepositRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Admin note is required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	deposit, err := ac.deposits.Reject(ctx, admin, depositID, req.AdminNote)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Deposit rejected",
		Data:    deposit,
	})
}

// ---- Bank accounts ----

func (ac *AdminController) setBankAccountVerified(c echo.Context, verified bool, action string) error {
	admin, ok := adminID(c)
	if !ok {
		return nil
	}
	accountID, ok := parseObjectID(c, c.Param("id"))
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(ac.DB, "bank_accounts")
	update := bson.M{"$set": bson.M{
		"isVerified": verified,
		"isActive":   verified,
		"updatedAt":  time.Now(),
	}}
	result, err := collection.UpdateOne(ctx, bson.M{"_id": accountID}, update)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update bank account",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Bank account not found",
		})
	}

	audit := models.AuditLog{
		ID:         primitive.NewObjectID(),
		AdminID:    admin,
		Action:     action,
		TargetType: "bank_account",
		TargetID:   accountID,
		CreatedAt:  time.Now(),
	}
	if _, err := config.GetCollection(ac.DB, "audit_logs").InsertOne(ctx, audit); err != nil {
		c.Logger().Errorf("bank account audit log failed: %v", err)
	}

	message := "Bank account verified"
	if !verified {
		message = "Bank account rejected"
	}
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: message,
	})
}

// VerifyBankAccount marks the account usable for withdrawals.
func (ac *AdminController) VerifyBankAccount(c echo.Context) error {
	return ac.setBankAccountVerified(c, true, models.AuditBankAccountVerify)
}

// RejectBankAccount marks the account unusable.
func (ac *AdminController) RejectBankAccount(c echo.Context) error {
	return ac.setBankAccountVerified(c, false, models.AuditBankAccountReject)
}

// ---- Products ----

// GetAllProducts lists every product including inactive ones.
func (ac *AdminController) GetAllProducts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := config.GetCollection(ac.DB, "products").Find(ctx, bson.M{}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve products",
		})
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode products",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Products retrieved successfully",
		Data:    products,
	})
}

// CreateProduct adds a product to the catalogue.
func (ac *AdminController) CreateProduct(c echo.Context) error {
	var req models.ProductRequest
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	product := models.Product{
		ID:           primitive.NewObjectID(),
		Name:         utils.SanitizeInput(req.Name),
		Description:  utils.SanitizeInput(req.Description),
		Price:        req.Price,
		DailyRevenue: req.DailyRevenue,
		DurationDays: req.DurationDays,
		TotalRevenue: req.TotalRevenue,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := config.GetCollection(ac.DB, "products").InsertOne(ctx, product); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create product",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Product created successfully",
		Data:    product,
	})
}

// UpdateProduct replaces the editable fields of a product. Running
// subscriptions keep the terms captured at purchase time.
func (ac *AdminController) UpdateProduct(c echo.Context) error {
	productID, ok := parseObjectID(c, c.Param("id"))
	if !ok {
		return nil
	}

	var req models.ProductRequest
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":         utils.SanitizeInput(req.Name),
		"description":  utils.SanitizeInput(req.Description),
		"price":        req.Price,
		"dailyRevenue": req.DailyRevenue,
		"durationDays": req.DurationDays,
		"totalRevenue": req.TotalRevenue,
		"updatedAt":    time.Now(),
	}}
	result, err := config.GetCollection(ac.DB, "products").UpdateOne(ctx, bson.M{"_id": productID}, update)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update product",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Product not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Product updated successfully",
	})
}

// DeactivateProduct hides a product from the catalogue without
// touching running subscriptions.
func (ac *AdminController) DeactivateProduct(c echo.Context) error {
	productID, ok := parseObjectID(c, c.Param("id"))
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}}
	result, err := config.GetCollection(ac.DB, "products").UpdateOne(ctx, bson.M{"_id": productID}, update)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to deactivate product",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Product not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Product deactivated successfully",
	})
}

// ---- Payment methods ----

// GetAllPaymentMethods lists every deposit destination.
func (ac *AdminController) GetAllPaymentMethods(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := config.GetCollection(ac.DB, "payment_methods").Find(ctx, bson.M{})
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

type paymentMethodRequest struct {
	Name          string `json:"name" validate:"required"`
	AccountName   string `json:"accountName" validate:"required"`
	AccountNumber string `json:"accountNumber" validate:"required"`
	Instructions  string `json:"instructions"`
}

// CreatePaymentMethod registers a new deposit destination.
func (ac *AdminController) CreatePaymentMethod(c echo.Context) error {
	var req paymentMethodRequest
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	method := models.PaymentMethod{
		ID:            primitive.NewObjectID(),
		Name:          utils.SanitizeInput(req.Name),
		AccountName:   utils.SanitizeInput(req.AccountName),
		AccountNumber: utils.SanitizeInput(req.AccountNumber),
		Instructions:  utils.SanitizeInput(req.Instructions),
		IsActive:      true,
		CreatedAt:     time.Now(),
	}
	if _, err := config.GetCollection(ac.DB, "payment_methods").InsertOne(ctx, method); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create payment method",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Payment method created successfully",
		Data:    method,
	})
}

// DeactivatePaymentMethod stops new deposits to a destination.
func (ac *AdminController) DeactivatePaymentMethod(c echo.Context) error {
	methodID, ok := parseObjectID(c, c.Param("id"))
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"isActive": false}}
	result, err := config.GetCollection(ac.DB, "payment_methods").UpdateOne(ctx, bson.M{"_id": methodID}, update)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to deactivate payment method",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Payment method not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payment method deactivated successfully",
	})
}

// ---- Subscriptions ----

// StopSubscription halts daily accrual for one subscription.
func (ac *AdminController) StopSubscription(c echo.Context) error {
	admin, ok := adminID(c)
	if !ok {
		return nil
	}
	userProductID, ok := parseObjectID(c, c.Param("id"))
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := ac.subscriptions.Stop(ctx, admin, userProductID); err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Subscription stopped",
	})
}

// ReactivateSubscription resumes accrual for a stopped subscription.
func (ac *AdminController) ReactivateSubscription(c echo.Context) error {
	admin, ok := adminID(c)
	if !ok {
		return nil
	}
	userProductID, ok := parseObjectID(c, c.Param("id"))
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := ac.subscriptions.Reactivate(ctx, admin, userProductID); err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Subscription reactivated",
	})
}

// ---- Settings ----

// GetSettings lists the effective configuration values.
func (ac *AdminController) GetSettings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	settings, err := ac.settings.List(ctx)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Settings retrieved successfully",
		Data:    settings,
	})
}

// UpdateSetting upserts one configuration value. Engines read settings
// per operation, so the change takes effect immediately.
func (ac *AdminController) UpdateSetting(c echo.Context) error {
	admin, ok := adminID(c)
	if !ok {
		return nil
	}

	var req models.SettingRequest
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := ac.settings.Set(ctx, admin, req.Key, req.Value); err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Setting updated successfully",
	})
}

// ---- Users ----

// GetUsers lists accounts with pagination, newest first.
func (ac *AdminController) GetUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	collection := config.GetCollection(ac.DB, "users")
	total, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to count users",
		})
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"password": 0})
	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve users",
		})
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode users",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Users retrieved successfully",
		Data: map[string]interface{}{
			"users": users,
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// DeactivateUser blocks logins and all balance operations for the
// account. History is kept.
func (ac *AdminController) DeactivateUser(c echo.Context) error {
	userID, ok := parseObjectID(c, c.Param("id"))
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := ac.accounts.Deactivate(ctx, userID); err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User deactivated successfully",
	})
}

// ReactivateUser restores a deactivated account.
func (ac *AdminController) ReactivateUser(c echo.Context) error {
	userID, ok := parseObjectID(c, c.Param("id"))
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := ac.accounts.Reactivate(ctx, userID); err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User reactivated successfully",
	})
}

// ---- Balance adjustment ----

type adjustBalanceRequest struct {
	UserID string `json:"userId" validate:"required"`
	Kind   string `json:"kind" validate:"required"`
	Amount int64  `json:"amount" validate:"required,gt=0"`
	Reason string `json:"reason" validate:"required"`
}

// AdjustBalance applies a manual correction through the ledger. It is
// audit-logged and appears in the user's transaction history.
func (ac *AdminController) AdjustBalance(c echo.Context) error {
	admin, ok := adminID(c)
	if !ok {
		return nil
	}

	var req adjustBalanceRequest
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

	userID, ok := parseObjectID(c, req.UserID)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := ac.ledger.AdjustBalance(ctx, admin, userID, models.TransactionKind(req.Kind), req.Amount, req.Reason)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Balance adjusted successfully",
		Data:    result,
	})
}

// GetFinancialSummary aggregates platform-wide money flow: ledger
// totals by kind, held balances and the pending payout queue.
func (ac *AdminController) GetFinancialSummary(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	kindTotals := map[string]int64{}
	cursor, err := config.GetCollection(ac.DB, "transactions").Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$kind",
			"total": bson.M{"$sum": bson.M{"$abs": "$amount"}},
			"count": bson.M{"$sum": 1},
		}}},
	})
	if err != nil {
		return serviceErrorResponse(c, err)
	}
	defer cursor.Close(ctx)
	var kindRows []struct {
		Kind  string `bson:"_id"`
		Total int64  `bson:"total"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &kindRows); err != nil {
		return serviceErrorResponse(c, err)
	}
	for _, row := range kindRows {
		kindTotals[row.Kind] = row.Total
	}

	var balances struct {
		Users         int64 `bson:"users"`
		TotalBalance  int64 `bson:"totalBalance"`
		TotalEarnings int64 `bson:"totalEarnings"`
		TotalInvested int64 `bson:"totalInvested"`
	}
	userCursor, err := config.GetCollection(ac.DB, "users").Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":           nil,
			"users":         bson.M{"$sum": 1},
			"totalBalance":  bson.M{"$sum": "$balance"},
			"totalEarnings": bson.M{"$sum": "$totalEarnings"},
			"totalInvested": bson.M{"$sum": "$totalInvested"},
		}}},
	})
	if err != nil {
		return serviceErrorResponse(c, err)
	}
	defer userCursor.Close(ctx)
	if userCursor.Next(ctx) {
		if err := userCursor.Decode(&balances); err != nil {
			return serviceErrorResponse(c, err)
		}
	}

	var pending struct {
		Count int64 `bson:"count"`
		Gross int64 `bson:"gross"`
	}
	pendingCursor, err := config.GetCollection(ac.DB, "withdrawals").Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": models.WithdrawalPending}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"count": bson.M{"$sum": 1},
			"gross": bson.M{"$sum": "$amount"},
		}}},
	})
	if err != nil {
		return serviceErrorResponse(c, err)
	}
	defer pendingCursor.Close(ctx)
	if pendingCursor.Next(ctx) {
		if err := pendingCursor.Decode(&pending); err != nil {
			return serviceErrorResponse(c, err)
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Financial summary retrieved successfully",
		Data: map[string]interface{}{
			"users":              balances.Users,
			"totalBalance":       balances.TotalBalance,
			"totalEarnings":      balances.TotalEarnings,
			"totalInvested":      balances.TotalInvested,
			"ledgerTotalsByKind": kindTotals,
			"pendingWithdrawals": map[string]int64{
				"count": pending.Count,
				"gross": pending.Gross,
			},
		},
	})
}

// ---- Audit log ----

// GetAuditLogs lists admin actions, newest first, optionally filtered
// by ?action=.
func (ac *AdminController) GetAuditLogs(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if action := c.QueryParam("action"); action != "" {
		filter["action"] = action
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(200)
	cursor, err := config.GetCollection(ac.DB, "audit_logs").Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve audit logs",
		})
	}
	defer cursor.Close(ctx)

	logs := []models.AuditLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode audit logs",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Audit logs retrieved successfully",
		Data:    logs,
	})
}

// ---- Settlement jobs ----

// RunDailyAccrual triggers the daily revenue payout job by hand. The
// job is idempotent within a calendar day.
func (ac *AdminController) RunDailyAccrual(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	summary, err := ac.subscriptions.RunDailyAccrual(ctx, time.Now())
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: fmt.Sprintf("Accrual complete: %d processed, %d completed, %d failed", summary.Processed, summary.Completed, summary.Failed),
		Data:    summary,
	})
}

// RunRewardMaintenance expires stale rewards and resets broken
// check-in streaks.
func (ac *AdminController) RunRewardMaintenance(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	now := time.Now()
	expired, err := ac.rewards.ExpireRewards(ctx, now)
	if err != nil {
		return serviceErrorResponse(c, err)
	}
	resets, err := ac.rewards.ResetBrokenStreaks(ctx, now)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Reward maintenance complete",
		Data: map[string]interface{}{
			"rewardsExpired": expired,
			"streaksReset":   resets,
		},
	})
}
