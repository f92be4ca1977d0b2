// services/settings_service.go
package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kdjabeo/sikafund_backend/config"
	"github.com/kdjabeo/sikafund_backend/models"
)

// SettingsProvider is what the engines consume; tests substitute a
// fixed-value implementation.
type SettingsProvider interface {
	GetInt64(ctx context.Context, key string, fallback int64) int64
	GetFloat(ctx context.Context, key string, fallback float64) float64
	GetInt(ctx context.Context, key string, fallback int) int
}

// Defaults applied when a setting has never been written.
const (
	DefaultSignupBonus          int64   = 500
	DefaultDailyCheckinBonus    int64   = 100
	DefaultMinDepositAmount     int64   = 1000
	DefaultMinWithdrawalAmount  int64   = 1000
	DefaultWithdrawalFeeRate    float64 = 5
	DefaultWithdrawalDailyLimit int     = 2
	DefaultLevel1Rate           float64 = 25
	DefaultLevel2Rate           float64 = 3
	DefaultLevel3Rate           float64 = 2
)

// SettingsService reads business settings from the settings collection.
// Values are looked up per operation, never cached, so admin changes
// take effect on the next operation.
type SettingsService struct {
	DB *mongo.Client
}

func NewSettingsService(db *mongo.Client) *SettingsService {
	return &SettingsService{DB: db}
}

func (ss *SettingsService) get(ctx context.Context, key string) (string, bool) {
	coll := config.GetCollection(ss.DB, "settings")
	var setting models.Setting
	err := coll.FindOne(ctx, bson.M{"key": key}).Decode(&setting)
	if err != nil {
		return "", false
	}
	return setting.Value, true
}

// GetInt64 returns the setting as int64, or fallback when unset or malformed.
func (ss *SettingsService) GetInt64(ctx context.Context, key string, fallback int64) int64 {
	raw, ok := ss.get(ctx, key)
	if !ok {
		return fallback
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return value
}

// GetFloat returns the setting as float64, or fallback when unset or malformed.
func (ss *SettingsService) GetFloat(ctx context.Context, key string, fallback float64) float64 {
	raw, ok := ss.get(ctx, key)
	if !ok {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}

// GetInt returns the setting as int, or fallback when unset or malformed.
func (ss *SettingsService) GetInt(ctx context.Context, key string, fallback int) int {
	raw, ok := ss.get(ctx, key)
	if !ok {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// List returns every stored setting.
func (ss *SettingsService) List(ctx context.Context) ([]models.Setting, error) {
	coll := config.GetCollection(ss.DB, "settings")
	cursor, err := coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "key", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer cursor.Close(ctx)

	var settings []models.Setting
	if err := cursor.All(ctx, &settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return settings, nil
}

// Set upserts a setting and records the admin action.
func (ss *SettingsService) Set(ctx context.Context, adminID primitive.ObjectID, key, value string) error {
	if key == "" {
		return fmt.Errorf("%w: setting key is required", ErrValidation)
	}

	coll := config.GetCollection(ss.DB, "settings")
	_, err := coll.UpdateOne(ctx, bson.M{"key": key}, bson.M{
		"$set": bson.M{"value": value, "updatedAt": time.Now()},
	}, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to update setting: %w", err)
	}

	audit := models.AuditLog{
		ID:         primitive.NewObjectID(),
		AdminID:    adminID,
		Action:     models.AuditSettingChange,
		TargetType: "setting",
		TargetID:   primitive.NilObjectID,
		Details:    fmt.Sprintf("%s = %s", key, value),
		CreatedAt:  time.Now(),
	}
	auditColl := config.GetCollection(ss.DB, "audit_logs")
	if _, err := auditColl.InsertOne(ctx, audit); err != nil {
		return fmt.Errorf("setting updated but audit log failed: %w", err)
	}
	return nil
}
