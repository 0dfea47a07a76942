package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/globals"
	"storefront/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, role string, storeIDs ...string) string {
	t.Helper()
	claims := &Claims{
		Username: "tester",
		UserID:   "u1",
		Role:     role,
		StoreIDs: storeIDs,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	require.NoError(t, err)
	return token
}

func okHandler(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.WriteHeader(http.StatusOK)
}

func TestRequireRolesAllowsMatchingRole(t *testing.T) {
	handler := RequireRoles(okHandler, models.RoleSuperAdmin, models.RoleStoreAdmin)

	req := httptest.NewRequest(http.MethodGet, "/api/stores", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, models.RoleStoreAdmin, "s1"))
	rec := httptest.NewRecorder()

	handler(rec, req, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRolesRejectsInsufficientRole(t *testing.T) {
	handler := RequireRoles(okHandler, models.RoleSuperAdmin, models.RoleStoreAdmin)

	req := httptest.NewRequest(http.MethodGet, "/api/stores", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, models.RoleUser))
	rec := httptest.NewRecorder()

	handler(rec, req, nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Insufficient role"}`, rec.Body.String())
}

func TestRequireRolesRejectsMissingToken(t *testing.T) {
	handler := RequireRoles(okHandler, models.RoleSuperAdmin)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	rec := httptest.NewRecorder()

	handler(rec, req, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
}

func TestRequireRolesRejectsBadSignature(t *testing.T) {
	handler := RequireRoles(okHandler, models.RoleSuperAdmin)

	claims := &Claims{UserID: "u1", Role: models.RoleSuperAdmin}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	rec := httptest.NewRecorder()

	handler(rec, req, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateAttachesClaims(t *testing.T) {
	var got *Claims
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		got = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, models.RoleUser))
	rec := httptest.NewRecorder()

	handler(rec, req, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, models.RoleUser, got.Role)
}

func TestOptionalAuthProceedsAnonymously(t *testing.T) {
	var got *Claims
	handler := OptionalAuth(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		got = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/store/demo/checkout", nil)
	rec := httptest.NewRecorder()

	handler(rec, req, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, got)
}
