// controllers/product_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kdjabeo/sikafund_backend/config"
	"github.com/kdjabeo/sikafund_backend/models"
	"github.com/kdjabeo/sikafund_backend/services"
)

// ProductController lists the investment catalogue and handles purchases.
type ProductController struct {
	DB            *mongo.Client
	subscriptions *services.SubscriptionService
}

func NewProductController(db *mongo.Client) *ProductController {
	settings := services.NewSettingsService(db)
	ledger := services.NewLedgerService(db)
	referrals := services.NewReferralService(db, settings)
	commissions := services.NewCommissionService(db, ledger, referrals)
	return &ProductController{
		DB:            db,
		subscriptions: services.NewSubscriptionService(db, ledger, commissions),
	}
}

// GetProducts lists active products, cheapest first.
func (pc *ProductController) GetProducts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "price", Value: 1}})
	cursor, err := config.GetCollection(pc.DB, "products").Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve products",
		})
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode products",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Products retrieved successfully",
		Data:    products,
	})
}

// PurchaseProduct buys a product with the user's wallet balance. The
// debit, the purchase record and the subscription are written
// atomically; referral commissions pay out afterwards.
func (pc *ProductController) PurchaseProduct(c echo.Context) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return nil
	}

	var req models.PurchaseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	productID, ok := parseObjectID(c, req.ProductID)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	purchase, err := pc.subscriptions.Purchase(ctx, userID, productID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Product purchased successfully",
		Data:    purchase,
	})
}

// GetMySubscriptions lists the user's investment instances with the
// product names joined in.
func (pc *ProductController) GetMySubscriptions(c echo.Context) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	subs, err := pc.subscriptions.ListForUser(ctx, userID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	productNames := map[string]string{}
	productCollection := config.GetCollection(pc.DB, "products")
	for _, sub := range subs {
		key := sub.ProductID.Hex()
		if _, seen := productNames[key]; seen {
			continue
		}
		var product models.Product
		if err := productCollection.FindOne(ctx, bson.M{"_id": sub.ProductID}).Decode(&product); err == nil {
			productNames[key] = product.Name
		}
	}

	type subscriptionView struct {
		models.UserProduct
		ProductName string `json:"productName"`
	}
	views := make([]subscriptionView, 0, len(subs))
	for _, sub := range subs {
		views = append(views, subscriptionView{
			UserProduct: sub,
			ProductName: productNames[sub.ProductID.Hex()],
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Subscriptions retrieved successfully",
		Data:    views,
	})
}
