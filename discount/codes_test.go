package discount

import (
	"net/http"
	"net/http/httptest"
	"strings"
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

// Admin of store A must not reach store B's codes. The denial has to
// come before any database access.
func TestCreateCodeRejectsForeignStore(t *testing.T) {
	handler := middleware.Authenticate(middleware.RequireRoles(CreateCode, models.RoleSuperAdmin, models.RoleStoreAdmin))

	req := httptest.NewRequest(http.MethodPost, "/api/stores/storeB/discounts",
		strings.NewReader(`{"code":"SAVE10","kind":"percentage","value":10}`))
	req.Header.Set("Authorization", "Bearer "+storeAdminToken(t, "storeA"))
	rec := httptest.NewRecorder()

	handler(rec, req, httprouter.Params{{Key: "storeid", Value: "storeB"}})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Not authorized for this store"}`, rec.Body.String())
}

func TestGetCodesRejectsForeignStore(t *testing.T) {
	handler := middleware.Authenticate(middleware.RequireRoles(GetCodes, models.RoleSuperAdmin, models.RoleStoreAdmin))

	req := httptest.NewRequest(http.MethodGet, "/api/stores/storeB/discounts", nil)
	req.Header.Set("Authorization", "Bearer "+storeAdminToken(t, "storeA"))
	rec := httptest.NewRecorder()

	handler(rec, req, httprouter.Params{{Key: "storeid", Value: "storeB"}})

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDeactivateCodeRejectsForeignStore(t *testing.T) {
	handler := middleware.Authenticate(middleware.RequireRoles(DeactivateCode, models.RoleSuperAdmin, models.RoleStoreAdmin))

	req := httptest.NewRequest(http.MethodDelete, "/api/stores/storeB/discounts/SAVE10", nil)
	req.Header.Set("Authorization", "Bearer "+storeAdminToken(t, "storeA"))
	rec := httptest.NewRecorder()

	handler(rec, req, httprouter.Params{
		{Key: "storeid", Value: "storeB"},
		{Key: "code", Value: "SAVE10"},
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateCodeAllowsOwnStore(t *testing.T) {
	handler := middleware.Authenticate(middleware.RequireRoles(CreateCode, models.RoleSuperAdmin, models.RoleStoreAdmin))

	// Empty code fails validation right after the scope check passes,
	// so the test never needs a database.
	req := httptest.NewRequest(http.MethodPost, "/api/stores/storeA/discounts",
		strings.NewReader(`{"code":"","kind":"percentage","value":10}`))
	req.Header.Set("Authorization", "Bearer "+storeAdminToken(t, "storeA"))
	rec := httptest.NewRecorder()

	handler(rec, req, httprouter.Params{{Key: "storeid", Value: "storeA"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Code is required"}`, rec.Body.String())
}
