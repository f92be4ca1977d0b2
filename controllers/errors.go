// controllers/errors.go
package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kdjabeo/sikafund_backend/middleware"
	"github.com/kdjabeo/sikafund_backend/models"
	"github.com/kdjabeo/sikafund_backend/services"
)

// serviceErrorResponse maps business errors to specific user-facing
// messages and everything else to a generic failure.
func serviceErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrInsufficientFunds):
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrLimitExceeded):
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrInvalidState):
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrValidation):
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	default:
		log.Printf("Internal error on %s: %v", c.Request().URL.Path, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Something went wrong, please try again later",
		})
	}
}

// parseObjectID converts a path or body id, answering with a 400 on
// malformed input. The bool reports whether the id was valid.
func parseObjectID(c echo.Context, raw string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid id format",
		})
		return primitive.NilObjectID, false
	}
	return id, true
}

// authenticatedUserID reads the caller's id from the JWT, answering
// with a 401 when the token is unusable.
func authenticatedUserID(c echo.Context) (primitive.ObjectID, bool) {
	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		_ = c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
		return primitive.NilObjectID, false
	}
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		_ = c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid user ID format",
		})
		return primitive.NilObjectID, false
	}
	return objID, true
}
