package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kdjabeo/sikafund_backend/controllers"
	"github.com/kdjabeo/sikafund_backend/middleware"
)

// RegisterAdminRoutes sets up the operator surface. Every route
// requires a valid token with the admin user type.
func RegisterAdminRoutes(e *echo.Echo, db *mongo.Client) {
	adminController := controllers.NewAdminController(db)

	admin := e.Group("/api/admin")
	admin.Use(middleware.JWTMiddleware(db))
	admin.Use(middleware.RequireUserType("admin", "super_admin"))

	// Withdrawal review
	admin.GET("/withdrawals", adminController.GetWithdrawals)
	admin.PUT("/withdrawals/:id/approve", adminController.ApproveWithdrawal)
	admin.PUT("/withdrawals/:id/reject", adminController.RejectWithdrawal)

	// Deposit review
	admin.GET("/deposits", adminController.GetDeposits)
	admin.PUT("/deposits/:id/approve", adminController.ApproveDeposit)
	admin.PUT("/deposits/:id/reject", adminController.RejectDeposit)

	// Bank account verification
	admin.PUT("/bank-accounts/:id/verify", adminController.VerifyBankAccount)
	admin.PUT("/bank-accounts/:id/reject", adminController.RejectBankAccount)

	// Product catalogue
	admin.GET("/products", adminController.GetAllProducts)
	admin.POST("/products", adminController.CreateProduct)
	admin.PUT("/products/:id", adminController.UpdateProduct)
	admin.PUT("/products/:id/deactivate", adminController.DeactivateProduct)

	// Payment methods
	admin.GET("/payment-methods", adminController.GetAllPaymentMethods)
	admin.POST("/payment-methods", adminController.CreatePaymentMethod)
	admin.PUT("/payment-methods/:id/deactivate", adminController.DeactivatePaymentMethod)

	// Subscriptions
	admin.PUT("/subscriptions/:id/stop", adminController.StopSubscription)
	admin.PUT("/subscriptions/:id/reactivate", adminController.ReactivateSubscription)

	// Settings
	admin.GET("/settings", adminController.GetSettings)
	admin.PUT("/settings", adminController.UpdateSetting)

	// Users
	admin.GET("/users", adminController.GetUsers)
	admin.PUT("/users/:id/deactivate", adminController.DeactivateUser)
	admin.PUT("/users/:id/reactivate", adminController.ReactivateUser)

	// Ledger corrections, reporting and audit trail
	admin.POST("/balance-adjustments", adminController.AdjustBalance)
	admin.GET("/financial-summary", adminController.GetFinancialSummary)
	admin.GET("/audit-logs", adminController.GetAuditLogs)

	// Manual settlement triggers
	admin.POST("/jobs/daily-accrual", adminController.RunDailyAccrual)
	admin.POST("/jobs/reward-maintenance", adminController.RunRewardMaintenance)
}
