// services/withdrawal_service.go
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
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kdjabeo/sikafund_backend/config"
	"github.com/kdjabeo/sikafund_backend/models"
	"github.com/kdjabeo/sikafund_backend/utils"
)

// WithdrawalService runs the pending -> completed/rejected/cancelled
// state machine. The balance is debited at approval time only, so
// rejection and cancellation never need restitution.
type WithdrawalService struct {
	DB       *mongo.Client
	Ledger   *LedgerService
	Settings SettingsProvider
}

func NewWithdrawalService(db *mongo.Client, ledger *LedgerService, settings SettingsProvider) *WithdrawalService {
	return &WithdrawalService{DB: db, Ledger: ledger, Settings: settings}
}

// WithdrawalFee computes the platform fee for a gross amount at a
// percentage rate, rounded to the nearest FCFA.
func WithdrawalFee(amount int64, rate float64) int64 {
	return int64(math.Round(float64(amount) * rate / 100))
}

// Create validates eligibility and records a pending request. No money
// moves here; the requester keeps the funds until an admin approves.
func (ws *WithdrawalService) Create(ctx context.Context, userID primitive.ObjectID, amount int64, bankAccountID primitive.ObjectID) (*models.Withdrawal, error) {
	minAmount := ws.Settings.GetInt64(ctx, models.SettingMinWithdrawalAmount, DefaultMinWithdrawalAmount)
	if amount < minAmount {
		return nil, fmt.Errorf("%w: minimum withdrawal is %d FCFA", ErrLimitExceeded, minAmount)
	}

	dailyLimit := ws.Settings.GetInt(ctx, models.SettingWithdrawalDailyLimit, DefaultWithdrawalDailyLimit)
	today := StartOfDay(time.Now())
	withdrawalsColl := config.GetCollection(ws.DB, "withdrawals")
	// Rejected requests do not consume the daily allowance
	countToday, err := withdrawalsColl.CountDocuments(ctx, bson.M{
		"userId":    userID,
		"status":    bson.M{"$ne": models.WithdrawalRejected},
		"createdAt": bson.M{"$gte": today, "$lt": today.AddDate(0, 0, 1)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count today's withdrawals: %w", err)
	}
	if countToday >= int64(dailyLimit) {
		return nil, fmt.Errorf("%w: no more than %d withdrawal requests per day", ErrLimitExceeded, dailyLimit)
	}

	bankColl := config.GetCollection(ws.DB, "bank_accounts")
	var bankAccount models.BankAccount
	err = bankColl.FindOne(ctx, bson.M{"_id": bankAccountID, "userId": userID}).Decode(&bankAccount)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: bank account %s", ErrNotFound, bankAccountID.Hex())
		}
		return nil, fmt.Errorf("failed to load bank account: %w", err)
	}
	if !bankAccount.IsVerified || !bankAccount.IsActive {
		return nil, fmt.Errorf("%w: bank account must be verified before withdrawing", ErrInvalidState)
	}

	usersColl := config.GetCollection(ws.DB, "users")
	var user models.User
	if err := usersColl.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return nil, fmt.Errorf("%w: account %s", ErrNotFound, userID.Hex())
	}
	// Fail before any request record exists
	if user.Balance < amount {
		return nil, fmt.Errorf("%w: balance %d FCFA is below the requested %d FCFA", ErrInsufficientFunds, user.Balance, amount)
	}

	feeRate := ws.Settings.GetFloat(ctx, models.SettingWithdrawalFeeRate, DefaultWithdrawalFeeRate)
	fee := WithdrawalFee(amount, feeRate)
	now := time.Now()
	withdrawal := models.Withdrawal{
		ID:            primitive.NewObjectID(),
		UserID:        userID,
		BankAccountID: bankAccountID,
		Amount:        amount,
		Fee:           fee,
		FeeRate:       feeRate,
		NetAmount:     amount - fee,
		Status:        models.WithdrawalPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := withdrawalsColl.InsertOne(ctx, withdrawal); err != nil {
		return nil, fmt.Errorf("failed to insert withdrawal request: %w", err)
	}
	return &withdrawal, nil
}

// Approve finalizes a pending request: the gross amount is debited via
// the ledger and the request completes in the same transaction. The fee
// stays with the platform; netAmount is what the operator pays out.
func (ws *WithdrawalService) Approve(ctx context.Context, adminID, withdrawalID primitive.ObjectID) (*models.Withdrawal, error) {
	withdrawal, err := ws.loadPending(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}

	session, err := ws.DB.StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	now := time.Now()
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		ref := &models.TransactionRef{ID: withdrawal.ID, Type: "withdrawal"}
		description := fmt.Sprintf("Withdrawal to bank account (net %d FCFA after %d FCFA fee)", withdrawal.NetAmount, withdrawal.Fee)
		if _, err := ws.Ledger.Apply(sc, withdrawal.UserID, models.KindWithdrawal, withdrawal.Amount, description, ref); err != nil {
			return nil, err
		}

		withdrawalsColl := config.GetCollection(ws.DB, "withdrawals")
		result, err := withdrawalsColl.UpdateOne(sc, bson.M{
			"_id":    withdrawal.ID,
			"status": models.WithdrawalPending,
		}, bson.M{
			"$set": bson.M{
				"status":      models.WithdrawalCompleted,
				"processedBy": adminID,
				"processedAt": now,
				"updatedAt":   now,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to complete withdrawal: %w", err)
		}
		if result.MatchedCount == 0 {
			return nil, fmt.Errorf("%w: withdrawal is no longer pending", ErrInvalidState)
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	withdrawal.Status = models.WithdrawalCompleted
	withdrawal.ProcessedBy = &adminID
	withdrawal.ProcessedAt = &now

	ws.audit(ctx, adminID, withdrawal.ID, models.AuditWithdrawalApprove,
		fmt.Sprintf("approved %d FCFA (net %d FCFA)", withdrawal.Amount, withdrawal.NetAmount))
	ws.sendReceipt(ctx, withdrawal, "Your withdrawal has been approved and is on its way to your bank account.")

	return withdrawal, nil
}

// Reject closes a pending request with a reason. The balance was never
// debited, so no refund entry is written.
func (ws *WithdrawalService) Reject(ctx context.Context, adminID, withdrawalID primitive.ObjectID, reason string) (*models.Withdrawal, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", ErrValidation)
	}
	withdrawal, err := ws.loadPending(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	withdrawalsColl := config.GetCollection(ws.DB, "withdrawals")
	result, err := withdrawalsColl.UpdateOne(ctx, bson.M{
		"_id":    withdrawal.ID,
		"status": models.WithdrawalPending,
	}, bson.M{
		"$set": bson.M{
			"status":          models.WithdrawalRejected,
			"rejectionReason": reason,
			"processedBy":     adminID,
			"processedAt":     now,
			"updatedAt":       now,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reject withdrawal: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: withdrawal is no longer pending", ErrInvalidState)
	}

	withdrawal.Status = models.WithdrawalRejected
	withdrawal.RejectionReason = reason
	withdrawal.ProcessedBy = &adminID
	withdrawal.ProcessedAt = &now

	ws.audit(ctx, adminID, withdrawal.ID, models.AuditWithdrawalReject, "rejected: "+reason)
	ws.sendReceipt(ctx, withdrawal, "Your withdrawal request was rejected: "+reason)
	// Rejection never touches the ledger, so the notification is
	// written here instead of by the ledger path
	if err := utils.SaveNotification(ctx, ws.DB, withdrawal.UserID, "Withdrawal rejected",
		fmt.Sprintf("Your withdrawal of %d FCFA was rejected: %s", withdrawal.Amount, reason),
		"withdrawal"); err != nil {
		log.Printf("withdrawal rejection notification failed: %v", err)
	}

	return withdrawal, nil
}

// Cancel lets the owner withdraw a request that is still pending.
func (ws *WithdrawalService) Cancel(ctx context.Context, userID, withdrawalID primitive.ObjectID) error {
	now := time.Now()
	withdrawalsColl := config.GetCollection(ws.DB, "withdrawals")
	result, err := withdrawalsColl.UpdateOne(ctx, bson.M{
		"_id":    withdrawalID,
		"userId": userID,
		"status": models.WithdrawalPending,
	}, bson.M{
		"$set": bson.M{"status": models.WithdrawalCancelled, "updatedAt": now},
	})
	if err != nil {
		return fmt.Errorf("failed to cancel withdrawal: %w", err)
	}
	if result.MatchedCount == 0 {
		var withdrawal models.Withdrawal
		err := withdrawalsColl.FindOne(ctx, bson.M{"_id": withdrawalID, "userId": userID}).Decode(&withdrawal)
		if err != nil {
			return fmt.Errorf("%w: withdrawal %s", ErrNotFound, withdrawalID.Hex())
		}
		return fmt.Errorf("%w: withdrawal is %s and can no longer be cancelled", ErrInvalidState, withdrawal.Status)
	}
	return nil
}

// EnsurePendingWithdrawal guards the state machine: approve and reject
// act on pending requests only. Any other status is a terminal state.
func EnsurePendingWithdrawal(status string) error {
	if status != models.WithdrawalPending {
		return fmt.Errorf("%w: withdrawal is %s", ErrInvalidState, status)
	}
	return nil
}

// loadPending fetches a request and verifies it is still pending.
func (ws *WithdrawalService) loadPending(ctx context.Context, withdrawalID primitive.ObjectID) (*models.Withdrawal, error) {
	withdrawalsColl := config.GetCollection(ws.DB, "withdrawals")
	var withdrawal models.Withdrawal
	err := withdrawalsColl.FindOne(ctx, bson.M{"_id": withdrawalID}).Decode(&withdrawal)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: withdrawal %s", ErrNotFound, withdrawalID.Hex())
		}
		return nil, fmt.Errorf("failed to load withdrawal: %w", err)
	}
	if err := EnsurePendingWithdrawal(withdrawal.Status); err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

func (ws *WithdrawalService) audit(ctx context.Context, adminID, withdrawalID primitive.ObjectID, action, details string) {
	audit := models.AuditLog{
		ID:         primitive.NewObjectID(),
		AdminID:    adminID,
		Action:     action,
		TargetType: "withdrawal",
		TargetID:   withdrawalID,
		Details:    details,
		CreatedAt:  time.Now(),
	}
	auditColl := config.GetCollection(ws.DB, "audit_logs")
	if _, err := auditColl.InsertOne(ctx, audit); err != nil {
		log.Printf("Failed to write audit log for withdrawal %s: %v", withdrawalID.Hex(), err)
	}
}

// sendReceipt emails the requester about the decision; failures are
// logged and never affect the already-committed state change.
func (ws *WithdrawalService) sendReceipt(ctx context.Context, withdrawal *models.Withdrawal, body string) {
	usersColl := config.GetCollection(ws.DB, "users")
	var user models.User
	if err := usersColl.FindOne(ctx, bson.M{"_id": withdrawal.UserID}).Decode(&user); err != nil {
		return
	}
	if err := utils.SendWithdrawalEmail(user, withdrawal.Amount, body); err != nil {
		log.Printf("Failed to send withdrawal email to user %s: %v", user.ID.Hex(), err)
	}
}

// ListForUser returns a user's withdrawal requests, newest first.
func (ws *WithdrawalService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Withdrawal, error) {
	return ws.list(ctx, bson.M{"userId": userID})
}

// ListByStatus returns withdrawal requests in one status for admin
// review. An empty status returns everything.
func (ws *WithdrawalService) ListByStatus(ctx context.Context, status string) ([]models.Withdrawal, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return ws.list(ctx, filter)
}

func (ws *WithdrawalService) list(ctx context.Context, filter bson.M) ([]models.Withdrawal, error) {
	withdrawalsColl := config.GetCollection(ws.DB, "withdrawals")
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := withdrawalsColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list withdrawals: %w", err)
	}
	defer cursor.Close(ctx)

	var withdrawals []models.Withdrawal
	if err := cursor.All(ctx, &withdrawals); err != nil {
		return nil, fmt.Errorf("failed to decode withdrawals: %w", err)
	}
	return withdrawals, nil
}
