// controllers/referral_controller.go
package controllers

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"
	"log"
	"net/http"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kdjabeo/sikafund_backend/config"
	"github.com/kdjabeo/sikafund_backend/models"
	"github.com/kdjabeo/sikafund_backend/services"
)

// ReferralController exposes the authenticated user's referral code,
// invite QR code and downline team listing.
type ReferralController struct {
	DB        *mongo.Client
	referrals *services.ReferralService
}

func NewReferralController(db *mongo.Client) *ReferralController {
	settings := services.NewSettingsService(db)
	return &ReferralController{
		DB:        db,
		referrals: services.NewReferralService(db, settings),
	}
}

// GetReferralData returns the user's referral code, invite link,
// direct referral count and a QR code for sharing.
func (rc *ReferralController) GetReferralData(c echo.Context) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := config.GetCollection(rc.DB, "users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve user",
		})
	}

	qrCode, err := rc.GenerateReferralQRCode(user.ReferralCode)
	if err != nil {
		// Log the error but continue, just won't have QR in response
		log.Printf("Failed to generate QR code: %v", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Referral data retrieved successfully",
		Data: map[string]interface{}{
			"referralCode":  user.ReferralCode,
			"referralCount": user.TotalReferrals,
			"referralLink":  fmt.Sprintf("https://sikafund.com/referral?code=%s", user.ReferralCode),
			"qrCode":        qrCode,
		},
	})
}

// GenerateReferralQRCode creates a QR code image for a referral code
func (rc *ReferralController) GenerateReferralQRCode(referralCode string) (string, error) {
	content := fmt.Sprintf("https://sikafund.com/referral?code=%s", referralCode)

	qrCode, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return "", err
	}

	// Scale the QR code to a reasonable size (300x300 pixels)
	qrCode, err = barcode.Scale(qrCode, 300, 300)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qrCode); err != nil {
		return "", err
	}

	// Convert to base64 for embedding in responses
	base64QR := base64.StdEncoding.EncodeToString(buf.Bytes())
	return "data:image/png;base64," + base64QR, nil
}

// GetTeam lists the user's downline across all three commission levels.
func (rc *ReferralController) GetTeam(c echo.Context) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	team, err := rc.referrals.Team(ctx, userID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	levelCounts := map[int]int{}
	var totalCommission int64
	for _, member := range team {
		levelCounts[member.Level]++
		totalCommission += member.TotalCommission
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Team retrieved successfully",
		Data: map[string]interface{}{
			"members":         team,
			"levelCounts":     levelCounts,
			"totalCommission": totalCommission,
		},
	})
}
