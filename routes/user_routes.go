package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kdjabeo/sikafund_backend/controllers"
	"github.com/kdjabeo/sikafund_backend/middleware"
)

// RegisterUserRoutes sets up all user-facing protected routes
func RegisterUserRoutes(e *echo.Echo, db *mongo.Client) {
	userController := controllers.NewUserController(db)
	referralController := controllers.NewReferralController(db)
	productController := controllers.NewProductController(db)
	withdrawalController := controllers.NewWithdrawalController(db)
	depositController := controllers.NewDepositController(db)
	rewardController := controllers.NewRewardController(db)

	// Protected routes group
	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware(db))

	// Profile, balance and ledger history
	r.GET("/users/profile", userController.GetProfile)
	r.GET("/users/balance", userController.GetBalance)
	r.GET("/users/transactions", userController.GetTransactions)
	r.POST("/users/checkin", userController.CheckIn)
	r.GET("/users/notifications", userController.GetNotifications)
	r.PUT("/users/notifications/:id/read", userController.MarkNotificationRead)

	// Bank accounts
	r.POST("/users/bank-accounts", userController.AddBankAccount)
	r.GET("/users/bank-accounts", userController.GetBankAccounts)

	// Referrals
	r.GET("/users/referral-data", referralController.GetReferralData)
	r.GET("/users/referral-team", referralController.GetTeam)

	// Investments
	r.POST("/products/purchase", productController.PurchaseProduct)
	r.GET("/users/subscriptions", productController.GetMySubscriptions)

	// Withdrawals
	r.POST("/withdrawals", withdrawalController.CreateWithdrawal)
	r.PUT("/withdrawals/:id/cancel", withdrawalController.CancelWithdrawal)
	r.GET("/withdrawals", withdrawalController.GetMyWithdrawals)

	// Manual deposits
	r.GET("/payment-methods", depositController.GetPaymentMethods)
	r.POST("/deposits", depositController.CreateDeposit)
	r.GET("/deposits", depositController.GetMyDeposits)

	// Rewards
	r.GET("/rewards", rewardController.GetMyRewards)
	r.POST("/rewards/:id/claim", rewardController.ClaimReward)
}
