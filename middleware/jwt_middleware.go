// middleware/jwt_middleware.go
package middleware

import (
	"context"
	"errors"
	"log"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kdjabeo/sikafund_backend/config"
	"github.com/kdjabeo/sikafund_backend/repositories"
)

// JwtCustomClaims for JWT token
type JwtCustomClaims struct {
	UserID   string `json:"userId"`
	Phone    string `json:"phone"`
	UserType string `json:"userType"`
	jwt.StandardClaims
}

// Valid implements the Claims interface for Echo's JWT middleware
func (c JwtCustomClaims) Valid() error {
	if c.ExpiresAt > 0 && time.Now().Unix() > c.ExpiresAt {
		return errors.New("token is expired")
	}
	if c.NotBefore > 0 && time.Now().Unix() < c.NotBefore {
		return errors.New("token used before valid")
	}
	return nil
}

// In-memory fallback blacklist used when Redis is unavailable
var (
	tokenBlacklist   = make(map[string]time.Time)
	tokenBlacklistMu sync.Mutex
)

const blacklistKeyPrefix = "token_blacklist:"

// CleanupBlacklist periodically removes expired tokens from the
// in-memory fallback blacklist.
func CleanupBlacklist() {
	for {
		time.Sleep(1 * time.Hour)
		now := time.Now()
		tokenBlacklistMu.Lock()
		for token, expiry := range tokenBlacklist {
			if now.After(expiry) {
				delete(tokenBlacklist, token)
			}
		}
		tokenBlacklistMu.Unlock()
	}
}

// BlacklistToken invalidates a token until its expiry. Redis is used
// when connected so the blacklist survives restarts.
func BlacklistToken(token string, expiry time.Time) {
	ttl := time.Until(expiry)
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if client := config.GetRedisClient(); client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Set(ctx, blacklistKeyPrefix+token, "1", ttl).Err(); err == nil {
			return
		}
		log.Printf("Redis blacklist write failed, falling back to memory")
	}
	tokenBlacklistMu.Lock()
	tokenBlacklist[token] = expiry
	tokenBlacklistMu.Unlock()
}

// IsTokenBlacklisted checks if a token has been invalidated.
func IsTokenBlacklisted(token string) bool {
	if client := config.GetRedisClient(); client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		exists, err := client.Exists(ctx, blacklistKeyPrefix+token).Result()
		if err == nil {
			return exists > 0
		}
	}
	tokenBlacklistMu.Lock()
	defer tokenBlacklistMu.Unlock()
	_, found := tokenBlacklist[token]
	return found
}

// GetJWTSecret returns the JWT secret from environment variables
func GetJWTSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		panic("JWT_SECRET environment variable is required")
	}
	return secret
}

// accountActivity answers whether an account may still act. Satisfied
// by repositories.AccountRepository.
type accountActivity interface {
	IsActive(ctx context.Context, userID primitive.ObjectID) bool
}

// JWTMiddleware returns a configured JWT middleware. Tokens issued
// before a deactivation stay cryptographically valid, so every request
// re-checks the account's isActive flag.
func JWTMiddleware(db *mongo.Client) echo.MiddlewareFunc {
	return jwtMiddleware(repositories.NewAccountRepository(db))
}

func jwtMiddleware(accounts accountActivity) echo.MiddlewareFunc {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Printf("Warning: JWT_SECRET environment variable is not set")
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				return echo.NewHTTPError(echo.ErrUnauthorized.Code, "JWT configuration error")
			}
		}
	}

	return middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey: []byte(secret),
		Claims:     &JwtCustomClaims{},
		SuccessHandler: func(c echo.Context) {
			user := c.Get("user").(*jwt.Token)

			if IsTokenBlacklisted(user.Raw) {
				c.Error(echo.NewHTTPError(echo.ErrUnauthorized.Code, "Token has been invalidated"))
				return
			}

			claims := user.Claims.(*JwtCustomClaims)

			userID, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				c.Error(echo.NewHTTPError(echo.ErrUnauthorized.Code, "Please provide valid credentials"))
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if !accounts.IsActive(ctx, userID) {
				c.Error(echo.NewHTTPError(echo.ErrUnauthorized.Code, "This account has been deactivated"))
				return
			}

			c.Set("userId", claims.UserID)
			c.Set("userType", claims.UserType)
			c.Set("phone", claims.Phone)
		},
		ErrorHandler: func(err error) error {
			log.Printf("JWT middleware error: %v", err)
			return echo.NewHTTPError(echo.ErrUnauthorized.Code, "Please provide valid credentials")
		},
	})
}

// GenerateJWT generates a new JWT token plus a longer-lived refresh token
func GenerateJWT(userID, phone, userType string) (string, string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", "", errors.New("JWT_SECRET environment variable is required")
	}

	claims := &JwtCustomClaims{
		UserID:   userID,
		Phone:    phone,
		UserType: userType,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(24 * time.Hour).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", "", err
	}

	refreshClaims := &JwtCustomClaims{
		UserID:   userID,
		Phone:    phone,
		UserType: userType,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(7 * 24 * time.Hour).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}
	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	refreshTokenString, err := refreshToken.SignedString([]byte(secret))
	if err != nil {
		return "", "", err
	}

	return tokenString, refreshTokenString, nil
}

// GetUserFromToken extracts user claims from the JWT token
func GetUserFromToken(c echo.Context) *JwtCustomClaims {
	user := c.Get("user")
	if user == nil {
		return nil
	}

	token, ok := user.(*jwt.Token)
	if !ok {
		return nil
	}

	claims, ok := token.Claims.(*JwtCustomClaims)
	if !ok {
		return nil
	}
	return claims
}

// ExtractUserID returns the authenticated user's id from the token.
func ExtractUserID(c echo.Context) (string, error) {
	claims := GetUserFromToken(c)
	if claims == nil || claims.UserID == "" {
		return "", errors.New("invalid token")
	}
	return claims.UserID, nil
}

// ExtractUserType returns the authenticated user's type from the token.
func ExtractUserType(c echo.Context) string {
	claims := GetUserFromToken(c)
	if claims == nil {
		return ""
	}
	return claims.UserType
}
