// middleware/jwt_middleware_test.go
package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubAccountActivity struct {
	active bool
}

func (s stubAccountActivity) IsActive(ctx context.Context, userID primitive.ObjectID) bool {
	return s.active
}

func authRequest(t *testing.T, accounts accountActivity, token string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	g := e.Group("/api")
	g.Use(jwtMiddleware(accounts))
	g.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTMiddlewareActiveAccount(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, _, err := GenerateJWT(primitive.NewObjectID().Hex(), "+22170000001", "user")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	rec := authRequest(t, stubAccountActivity{active: true}, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("active account: got status %d, want %d", rec.Code, http.StatusOK)
	}
}

// A token minted before an admin deactivation is still signed and
// unexpired. The middleware must refuse it anyway.
func TestJWTMiddlewareDeactivatedAccount(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, _, err := GenerateJWT(primitive.NewObjectID().Hex(), "+22170000002", "user")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	rec := authRequest(t, stubAccountActivity{active: false}, token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("deactivated account: got status %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestJWTMiddlewareRejectsMalformedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	rec := authRequest(t, stubAccountActivity{active: true}, "not-a-token")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("malformed token: got status %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
