package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kdjabeo/sikafund_backend/controllers"
)

// RegisterAuthRoutes sets up the public authentication routes
func RegisterAuthRoutes(e *echo.Echo, db *mongo.Client) {
	authController := controllers.NewAuthController(db)
	productController := controllers.NewProductController(db)

	e.POST("/api/auth/register", authController.Register)
	e.POST("/api/auth/login", authController.Login)
	e.POST("/api/auth/logout", authController.Logout)

	// Product catalogue is public so the app can show plans pre-signup
	e.GET("/api/products", productController.GetProducts)
}
