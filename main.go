package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/kdjabeo/sikafund_backend/config"
	"github.com/kdjabeo/sikafund_backend/jobs"
	"github.com/kdjabeo/sikafund_backend/middleware"
	"github.com/kdjabeo/sikafund_backend/routes"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Connect to Redis
	config.ConnectRedis()

	// Connect to database
	client := config.ConnectDB()

	// Create a new Echo instance
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.SetupCORS())
	e.Use(middleware.SecurityHeaders())
	e.Use(rateLimiter.RateLimit())

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "SikaFund Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	// Register routes
	routes.RegisterAuthRoutes(e, client)
	routes.RegisterUserRoutes(e, client)
	routes.RegisterAdminRoutes(e, client)

	// Start the settlement loop. Accrual is idempotent per calendar
	// day, so the hourly interval only controls payout latency.
	settlement := jobs.NewSettlement(client)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go settlement.Start(ctx, time.Hour)

	// Periodically drop expired tokens from the in-memory blacklist
	go middleware.CleanupBlacklist()

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
