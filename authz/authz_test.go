package authz

import (
	"testing"

	"storefront/middleware"
	"storefront/models"

	"github.com/stretchr/testify/assert"
)

func claimsWith(role string, storeIDs ...string) *middleware.Claims {
	return &middleware.Claims{UserID: "u1", Role: role, StoreIDs: storeIDs}
}

func TestCanManageStoreSuperAdmin(t *testing.T) {
	assert.NoError(t, CanManageStore(claimsWith(models.RoleSuperAdmin), "storeA"))
	assert.NoError(t, CanManageStore(claimsWith(models.RoleSuperAdmin), "storeB"))
}

func TestCanManageStoreScopedAdmin(t *testing.T) {
	claims := claimsWith(models.RoleStoreAdmin, "storeA")

	assert.NoError(t, CanManageStore(claims, "storeA"))
	// Admin of store A must not touch store B.
	assert.ErrorIs(t, CanManageStore(claims, "storeB"), ErrNotAuthorized)
}

func TestCanManageStoreUserAlwaysDenied(t *testing.T) {
	claims := claimsWith(models.RoleUser, "storeA")
	assert.ErrorIs(t, CanManageStore(claims, "storeA"), ErrNotAuthorized)
}

func TestCanManageStoreAnonymousDenied(t *testing.T) {
	assert.ErrorIs(t, CanManageStore(nil, "storeA"), ErrNotAuthorized)
}
