// services/deposit_service.go
package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kdjabeo/sikafund_backend/config"
	"github.com/kdjabeo/sikafund_backend/models"
	"github.com/kdjabeo/sikafund_backend/utils"
)

// DepositService reconciles manual bank deposits. A deposit claim has
// no balance effect until an operator approves it.
type DepositService struct {
	DB       *mongo.Client
	Ledger   *LedgerService
	Settings SettingsProvider
}

func NewDepositService(db *mongo.Client, ledger *LedgerService, settings SettingsProvider) *DepositService {
	return &DepositService{DB: db, Ledger: ledger, Settings: settings}
}

// newDepositNumber builds a short operator-facing reference.
func newDepositNumber() string {
	return "DEP-" + strings.ToUpper(uuid.New().String()[:8])
}

// Create records a pending deposit claim against a payment method.
func (ds *DepositService) Create(ctx context.Context, userID, paymentMethodID primitive.ObjectID, amount int64, transactionID string) (*models.ManualDeposit, error) {
	minAmount := ds.Settings.GetInt64(ctx, models.SettingMinDepositAmount, DefaultMinDepositAmount)
	if amount < minAmount {
		return nil, fmt.Errorf("%w: minimum deposit is %d FCFA", ErrLimitExceeded, minAmount)
	}

	methodsColl := config.GetCollection(ds.DB, "payment_methods")
	var method models.PaymentMethod
	err := methodsColl.FindOne(ctx, bson.M{"_id": paymentMethodID, "isActive": true}).Decode(&method)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: payment method %s", ErrNotFound, paymentMethodID.Hex())
		}
		return nil, fmt.Errorf("failed to load payment method: %w", err)
	}

	now := time.Now()
	deposit := models.ManualDeposit{
		ID:              primitive.NewObjectID(),
		UserID:          userID,
		PaymentMethodID: paymentMethodID,
		Amount:          amount,
		DepositNumber:   newDepositNumber(),
		TransactionID:   transactionID,
		Status:          models.DepositPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	depositsColl := config.GetCollection(ds.DB, "deposits")
	if _, err := depositsColl.InsertOne(ctx, deposit); err != nil {
		return nil, fmt.Errorf("failed to insert deposit: %w", err)
	}
	return &deposit, nil
}

// Approve credits the depositor for the claimed amount and closes the
// claim in one transaction. Re-processing a non-pending deposit fails.
func (ds *DepositService) Approve(ctx context.Context, adminID, depositID primitive.ObjectID) (*models.ManualDeposit, error) {
	deposit, err := ds.loadPending(ctx, depositID)
	if err != nil {
		return nil, err
	}

	session, err := ds.DB.StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	now := time.Now()
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		ref := &models.TransactionRef{ID: deposit.ID, Type: "deposit"}
		description := fmt.Sprintf("Manual deposit %s", deposit.DepositNumber)
		if _, err := ds.Ledger.Apply(sc, deposit.UserID, models.KindDeposit, deposit.Amount, description, ref); err != nil {
			return nil, err
		}

		depositsColl := config.GetCollection(ds.DB, "deposits")
		result, err := depositsColl.UpdateOne(sc, bson.M{
			"_id":    deposit.ID,
			"status": models.DepositPending,
		}, bson.M{
			"$set": bson.M{
				"status":      models.DepositApproved,
				"processedBy": adminID,
				"processedAt": now,
				"updatedAt":   now,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to approve deposit: %w", err)
		}
		if result.MatchedCount == 0 {
			return nil, fmt.Errorf("%w: deposit already processed", ErrInvalidState)
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	deposit.Status = models.DepositApproved
	deposit.ProcessedBy = &adminID
	deposit.ProcessedAt = &now

	ds.audit(ctx, adminID, deposit.ID, models.AuditDepositApprove,
		fmt.Sprintf("approved %s for %d FCFA", deposit.DepositNumber, deposit.Amount))
	return deposit, nil
}

// Reject closes a pending claim with an operator note. No balance
// effect.
func (ds *DepositService) Reject(ctx context.Context, adminID, depositID primitive.ObjectID, adminNote string) (*models.ManualDeposit, error) {
	deposit, err := ds.loadPending(ctx, depositID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	depositsColl := config.GetCollection(ds.DB, "deposits")
	result, err := depositsColl.UpdateOne(ctx, bson.M{
		"_id":    deposit.ID,
		"status": models.DepositPending,
	}, bson.M{
		"$set": bson.M{
			"status":      models.DepositRejected,
			"adminNote":   adminNote,
			"processedBy": adminID,
			"processedAt": now,
			"updatedAt":   now,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reject deposit: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: deposit already processed", ErrInvalidState)
	}

	deposit.Status = models.DepositRejected
	deposit.AdminNote = adminNote
	deposit.ProcessedBy = &adminID
	deposit.ProcessedAt = &now

	ds.audit(ctx, adminID, deposit.ID, models.AuditDepositReject, "rejected: "+adminNote)
	if err := utils.SaveNotification(ctx, ds.DB, deposit.UserID, "Deposit rejected",
		fmt.Sprintf("Your deposit %s of %d FCFA was rejected: %s", deposit.DepositNumber, deposit.Amount, adminNote),
		"deposit"); err != nil {
		log.Printf("deposit rejection notification failed: %v", err)
	}
	return deposit, nil
}

func (ds *DepositService) loadPending(ctx context.Context, depositID primitive.ObjectID) (*models.ManualDeposit, error) {
	depositsColl := config.GetCollection(ds.DB, "deposits")
	var deposit models.ManualDeposit
	err := depositsColl.FindOne(ctx, bson.M{"_id": depositID}).Decode(&deposit)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: deposit %s", ErrNotFound, depositID.Hex())
		}
		return nil, fmt.Errorf("failed to load deposit: %w", err)
	}
	if deposit.Status != models.DepositPending {
		return nil, fmt.Errorf("%w: deposit already processed", ErrInvalidState)
	}
	return &deposit, nil
}

func (ds *DepositService) audit(ctx context.Context, adminID, depositID primitive.ObjectID, action, details string) {
	audit := models.AuditLog{
		ID:         primitive.NewObjectID(),
		AdminID:    adminID,
		Action:     action,
		TargetType: "deposit",
		TargetID:   depositID,
		Details:    details,
		CreatedAt:  time.Now(),
	}
	auditColl := config.GetCollection(ds.DB, "audit_logs")
	if _, err := auditColl.InsertOne(ctx, audit); err != nil {
		log.Printf("Failed to write audit log for deposit %s: %v", depositID.Hex(), err)
	}
}

// ListForUser returns a user's deposit claims, newest first.
func (ds *DepositService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.ManualDeposit, error) {
	return ds.list(ctx, bson.M{"userId": userID})
}

// ListByStatus returns deposit claims in one status for operator
// review. An empty status returns everything.
func (ds *DepositService) ListByStatus(ctx context.Context, status string) ([]models.ManualDeposit, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return ds.list(ctx, filter)
}

func (ds *DepositService) list(ctx context.Context, filter bson.M) ([]models.ManualDeposit, error) {
	depositsColl := config.GetCollection(ds.DB, "deposits")
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := depositsColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list deposits: %w", err)
	}
	defer cursor.Close(ctx)

	var deposits []models.ManualDeposit
	if err := cursor.All(ctx, &deposits); err != nil {
		return nil, fmt.Errorf("failed to decode deposits: %w", err)
	}
	return deposits, nil
}
