// controllers/auth_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kdjabeo/sikafund_backend/config"
	"github.com/kdjabeo/sikafund_backend/middleware"
	"github.com/kdjabeo/sikafund_backend/models"
	"github.com/kdjabeo/sikafund_backend/services"
	"github.com/kdjabeo/sikafund_backend/utils"
)

// AuthController handles registration, login and logout
type AuthController struct {
	DB        *mongo.Client
	referrals *services.ReferralService
	rewards   *services.RewardService
	settings  *services.SettingsService
}

func NewAuthController(db *mongo.Client) *AuthController {
	settings := services.NewSettingsService(db)
	ledger := services.NewLedgerService(db)
	return &AuthController{
		DB:        db,
		referrals: services.NewReferralService(db, settings),
		rewards:   services.NewRewardService(db, ledger, settings),
		settings:  settings,
	}
}

const referralCodeRetries = 5

// Register creates a new account. A supplied referral code links the
// account into the referral graph; a configured signup bonus becomes a
// claimable reward.
func (ac *AuthController) Register(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Missing or invalid fields",
			Data:    err.Error(),
		})
	}

	phone, err := utils.SanitizePhone(req.Phone)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	usersColl := config.GetCollection(ac.DB, "users")
	count, err := usersColl.CountDocuments(ctx, bson.M{"phone": phone})
	if err != nil {
		return serviceErrorResponse(c, err)
	}
	if count > 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "An account with this phone number already exists",
		})
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	now := time.Now()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Phone:     phone,
		Password:  hashedPassword,
		FullName:  utils.SanitizeInput(req.FullName),
		UserType:  "user",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// The unique index backs the retry loop on code collisions
	inserted := false
	for attempt := 0; attempt < referralCodeRetries && !inserted; attempt++ {
		code, err := utils.GenerateReferralCode()
		if err != nil {
			return serviceErrorResponse(c, err)
		}
		user.ReferralCode = code
		if _, err := usersColl.InsertOne(ctx, user); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				continue
			}
			return serviceErrorResponse(c, err)
		}
		inserted = true
	}
	if !inserted {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create account, please try again",
		})
	}

	if req.ReferralCode != "" {
		if err := ac.referrals.AttachReferrer(ctx, user.ID, req.ReferralCode); err != nil {
			// Signup stands even when the referral code is bad
			log.Printf("Referral attach failed for user %s: %v", user.ID.Hex(), err)
		}
	}

	if bonus := ac.settings.GetInt64(ctx, models.SettingSignupBonusAmount, services.DefaultSignupBonus); bonus > 0 {
		expiry := now.AddDate(0, 0, 30)
		_, err := ac.rewards.CreateReward(ctx, user.ID, models.RewardTypeSignupBonus, bonus, "Welcome bonus", &expiry)
		if err != nil {
			log.Printf("Signup bonus creation failed for user %s: %v", user.ID.Hex(), err)
		}
	}

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Phone, user.UserType)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	user.Password = ""
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Account created successfully",
		Data: map[string]interface{}{
			"user":         user,
			"token":        token,
			"refreshToken": refreshToken,
		},
	})
}

// Login authenticates by phone and password.
func (ac *AuthController) Login(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Phone and password are required",
		})
	}

	phone, err := utils.SanitizePhone(req.Phone)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	usersColl := config.GetCollection(ac.DB, "users")
	var user models.User
	err = usersColl.FindOne(ctx, bson.M{"phone": phone}).Decode(&user)
	if err != nil || !utils.CheckPassword(req.Password, user.Password) {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid phone number or password",
		})
	}
	if !user.IsActive {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "This account has been deactivated",
		})
	}

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Phone, user.UserType)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	user.Password = ""
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: map[string]interface{}{
			"user":         user,
			"token":        token,
			"refreshToken": refreshToken,
		},
	})
}

// Logout invalidates the presented token.
func (ac *AuthController) Logout(c echo.Context) error {
	authHeader := c.Request().Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(authHeader, prefix) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "No token provided",
		})
	}
	tokenString := authHeader[len(prefix):]

	// Blacklist until the token's own expiry when it parses, a full
	// day otherwise
	expiry := time.Now().Add(24 * time.Hour)
	claims := &middleware.JwtCustomClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(middleware.GetJWTSecret()), nil
	})
	if err == nil && claims.ExpiresAt > 0 {
		expiry = time.Unix(claims.ExpiresAt, 0)
	}
	middleware.BlacklistToken(tokenString, expiry)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logged out successfully",
	})
}
