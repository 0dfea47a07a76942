package analytics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/globals"
	"storefront/middleware"
	"storefront/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeAdminToken(t *testing.T, storeIDs ...string) string {
	t.Helper()
	claims := &middleware.Claims{
		Username: "tester",
		UserID:   "u1",
		Role:     models.RoleStoreAdmin,
		StoreIDs: storeIDs,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	require.NoError(t, err)
	return token
}

// Analytics for a store are scoped exactly like the rest of the admin
// surface. The denial has to come before any database access.
func TestGetStoreStatsRejectsForeignStore(t *testing.T) {
	handler := middleware.Authenticate(middleware.RequireRoles(GetStoreStats, models.RoleSuperAdmin, models.RoleStoreAdmin))

	req := httptest.NewRequest(http.MethodGet, "/api/stores/storeB/analytics", nil)
	req.Header.Set("Authorization", "Bearer "+storeAdminToken(t, "storeA"))
	rec := httptest.NewRecorder()

	handler(rec, req, httprouter.Params{{Key: "storeid", Value: "storeB"}})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Not authorized for this store"}`, rec.Body.String())
}

func TestGetStoreStatsRejectsPlainUser(t *testing.T) {
	handler := middleware.Authenticate(middleware.RequireRoles(GetStoreStats, models.RoleSuperAdmin, models.RoleStoreAdmin))

	claims := &middleware.Claims{
		Username: "shopper",
		UserID:   "u2",
		Role:     models.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/stores/storeA/analytics", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler(rec, req, httprouter.Params{{Key: "storeid", Value: "storeA"}})

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
