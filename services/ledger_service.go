// services/ledger_service.go
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

// LedgerService is the single choke point for balance mutations. Every
// component that credits or debits a user goes through Apply; nothing
// else writes the balance field.
type LedgerService struct {
	DB *mongo.Client
}

func NewLedgerService(db *mongo.Client) *LedgerService {
	return &LedgerService{DB: db}
}

// LedgerResult reports the entry written and the balance snapshots
// captured atomically with the mutation.
type LedgerResult struct {
	EntryID       primitive.ObjectID `json:"entryId"`
	BalanceBefore int64              `json:"balanceBefore"`
	BalanceAfter  int64              `json:"balanceAfter"`
}

// Apply atomically mutates the account balance and appends the ledger
// entry. Amount must be positive; the kind decides the direction. When
// the context already carries a mongo session the mutation joins the
// caller's transaction, otherwise it runs in its own.
//
// A debit that would push the balance negative fails with
// ErrInsufficientFunds and writes nothing; the balance is never clamped.
func (ls *LedgerService) Apply(ctx context.Context, userID primitive.ObjectID, kind models.TransactionKind, amount int64, description string, ref *models.TransactionRef) (*LedgerResult, error) {
	delta, err := kind.SignedDelta(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if mongo.SessionFromContext(ctx) != nil {
		return ls.apply(ctx, userID, kind, amount, delta, description, ref)
	}

	session, err := ls.DB.StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return ls.apply(sc, userID, kind, amount, delta, description, ref)
	})
	if err != nil {
		return nil, err
	}
	return result.(*LedgerResult), nil
}

// apply performs the read-modify-write. The conditional FindOneAndUpdate
// serializes concurrent mutations on the same account document, so the
// balanceAfter of one entry is always the balanceBefore of the next.
func (ls *LedgerService) apply(ctx context.Context, userID primitive.ObjectID, kind models.TransactionKind, amount, delta int64, description string, ref *models.TransactionRef) (*LedgerResult, error) {
	now := time.Now()
	usersColl := config.GetCollection(ls.DB, "users")

	filter := bson.M{"_id": userID}
	if delta < 0 {
		filter["balance"] = bson.M{"$gte": amount}
	}

	inc := bson.M{"balance": delta}
	if kind.IsEarning() {
		inc["totalEarnings"] = amount
	}
	if kind == models.KindPurchase {
		inc["totalInvested"] = amount
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)
	var before models.User
	err := usersColl.FindOneAndUpdate(ctx, filter, bson.M{
		"$inc": inc,
		"$set": bson.M{"updatedAt": now},
	}, opts).Decode(&before)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			if delta < 0 {
				// Distinguish a missing account from a short balance
				count, countErr := usersColl.CountDocuments(ctx, bson.M{"_id": userID})
				if countErr == nil && count > 0 {
					return nil, fmt.Errorf("%w: balance too low for %s of %d FCFA", ErrInsufficientFunds, kind, amount)
				}
			}
			return nil, fmt.Errorf("%w: account %s", ErrNotFound, userID.Hex())
		}
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	entry := models.Transaction{
		ID:            primitive.NewObjectID(),
		UserID:        userID,
		Kind:          kind,
		Amount:        delta,
		BalanceBefore: before.Balance,
		BalanceAfter:  before.Balance + delta,
		Description:   description,
		Reference:     ref,
		Status:        "completed",
		CreatedAt:     now,
	}

	txColl := config.GetCollection(ls.DB, "transactions")
	if _, err := txColl.InsertOne(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to insert ledger entry: %w", err)
	}

	// Every credit/debit leaves a notification record; delivery is external
	title, message := notificationForKind(kind, amount)
	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      "transaction",
		IsRead:    false,
		CreatedAt: now,
	}
	notifColl := config.GetCollection(ls.DB, "notifications")
	if _, err := notifColl.InsertOne(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to insert notification: %w", err)
	}

	return &LedgerResult{
		EntryID:       entry.ID,
		BalanceBefore: entry.BalanceBefore,
		BalanceAfter:  entry.BalanceAfter,
	}, nil
}

// notificationForKind builds the user-facing notification text for a
// ledger mutation.
func notificationForKind(kind models.TransactionKind, amount int64) (string, string) {
	switch kind {
	case models.KindDeposit:
		return "Deposit approved", fmt.Sprintf("Your deposit of %d FCFA has been credited to your account.", amount)
	case models.KindWithdrawal:
		return "Withdrawal processed", fmt.Sprintf("Your withdrawal of %d FCFA has been processed.", amount)
	case models.KindPurchase:
		return "Purchase successful", fmt.Sprintf("Your purchase of %d FCFA was successful.", amount)
	case models.KindCommission:
		return "Commission earned", fmt.Sprintf("You earned a commission of %d FCFA from your team.", amount)
	case models.KindDailyRevenue:
		return "Daily revenue", fmt.Sprintf("Your investment paid out %d FCFA today.", amount)
	case models.KindCheckin:
		return "Check-in bonus", fmt.Sprintf("You received %d FCFA for checking in today.", amount)
	case models.KindRefund:
		return "Refund received", fmt.Sprintf("A refund of %d FCFA has been credited to your account.", amount)
	case models.KindReward, models.KindBonus:
		return "Reward claimed", fmt.Sprintf("A reward of %d FCFA has been credited to your account.", amount)
	case models.KindReferralBonus:
		return "Referral bonus", fmt.Sprintf("You received a referral bonus of %d FCFA.", amount)
	default:
		return "Balance updated", fmt.Sprintf("Your balance changed by %d FCFA.", amount)
	}
}

// ListTransactions returns a page of a user's ledger history, newest
// first.
func (ls *LedgerService) ListTransactions(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]models.Transaction, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	txColl := config.GetCollection(ls.DB, "transactions")
	filter := bson.M{"userId": userID}

	total, err := txColl.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := txColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var transactions []models.Transaction
	if err := cursor.All(ctx, &transactions); err != nil {
		return nil, 0, fmt.Errorf("failed to decode transactions: %w", err)
	}
	return transactions, total, nil
}

// AdjustBalance is the admin balance-correction path. It still goes
// through Apply and records an audit log entry.
func (ls *LedgerService) AdjustBalance(ctx context.Context, adminID, userID primitive.ObjectID, kind models.TransactionKind, amount int64, reason string) (*LedgerResult, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: adjustment reason is required", ErrValidation)
	}

	ref := &models.TransactionRef{ID: adminID, Type: "adjustment"}
	result, err := ls.Apply(ctx, userID, kind, amount, "Admin adjustment: "+reason, ref)
	if err != nil {
		return nil, err
	}

	audit := models.AuditLog{
		ID:         primitive.NewObjectID(),
		AdminID:    adminID,
		Action:     models.AuditBalanceAdjustment,
		TargetType: "user",
		TargetID:   userID,
		Details:    fmt.Sprintf("%s %d FCFA: %s", kind, amount, reason),
		CreatedAt:  time.Now(),
	}
	auditColl := config.GetCollection(ls.DB, "audit_logs")
	if _, err := auditColl.InsertOne(ctx, audit); err != nil {
		// The adjustment is already committed; surface the audit failure in logs only
		return result, fmt.Errorf("adjustment applied but audit log failed: %w", err)
	}
	return result, nil
}
