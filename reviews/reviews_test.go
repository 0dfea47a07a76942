package reviews

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

func TestStatusForAction(t *testing.T) {
	assert.Equal(t, models.ReviewApproved, statusForAction("approve"))
	assert.Equal(t, models.ReviewHidden, statusForAction("hide"))
	assert.Equal(t, models.ReviewDeleted, statusForAction("delete"))
	assert.Empty(t, statusForAction("publish"))
	assert.Empty(t, statusForAction(""))
}

// Admin of store A must not read or moderate store B's reviews. The
// denial has to come before any database access.
func TestGetStoreReviewsRejectsForeignStore(t *testing.T) {
	handler := middleware.Authenticate(middleware.RequireRoles(GetStoreReviews, models.RoleSuperAdmin, models.RoleStoreAdmin))

	req := httptest.NewRequest(http.MethodGet, "/api/stores/storeB/reviews", nil)
	req.Header.Set("Authorization", "Bearer "+storeAdminToken(t, "storeA"))
	rec := httptest.NewRecorder()

	handler(rec, req, httprouter.Params{{Key: "storeid", Value: "storeB"}})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Not authorized for this store"}`, rec.Body.String())
}

func TestModerateReviewRejectsForeignStore(t *testing.T) {
	handler := middleware.Authenticate(middleware.RequireRoles(ModerateReview, models.RoleSuperAdmin, models.RoleStoreAdmin))

	req := httptest.NewRequest(http.MethodPatch, "/api/stores/storeB/reviews/r1",
		strings.NewReader(`{"action":"hide"}`))
	req.Header.Set("Authorization", "Bearer "+storeAdminToken(t, "storeA"))
	rec := httptest.NewRecorder()

	handler(rec, req, httprouter.Params{
		{Key: "storeid", Value: "storeB"},
		{Key: "reviewid", Value: "r1"},
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestModerateReviewRejectsUnknownAction(t *testing.T) {
	handler := middleware.Authenticate(middleware.RequireRoles(ModerateReview, models.RoleSuperAdmin, models.RoleStoreAdmin))

	// Unknown actions fail right after the scope check passes, so the
	// test never needs a database.
	req := httptest.NewRequest(http.MethodPatch, "/api/stores/storeA/reviews/r1",
		strings.NewReader(`{"action":"publish"}`))
	req.Header.Set("Authorization", "Bearer "+storeAdminToken(t, "storeA"))
	rec := httptest.NewRecorder()

	handler(rec, req, httprouter.Params{
		{Key: "storeid", Value: "storeA"},
		{Key: "reviewid", Value: "r1"},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Unknown moderation action"}`, rec.Body.String())
}

func TestAddReviewValidatesPayload(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"missing name", `{"rating":4,"comment":"nice"}`, `{"error":"Name is required"}`},
		{"rating too low", `{"name":"Ann","rating":0}`, `{"error":"Rating must be between 1 and 5"}`},
		{"rating too high", `{"name":"Ann","rating":6}`, `{"error":"Rating must be between 1 and 5"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/store/acme/products/p1/reviews",
				strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			AddReview(rec, req, httprouter.Params{
				{Key: "subdomain", Value: "acme"},
				{Key: "productid", Value: "p1"},
			})

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, tc.want, rec.Body.String())
		})
	}
}
