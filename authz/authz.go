package authz

import (
	"errors"

	"storefront/middleware"
	"storefront/models"
	"storefront/utils"
)

// ErrNotAuthorized denies a mutation the caller's role or store scope
// does not permit.
var ErrNotAuthorized = errors.New("not authorized for this store")

// CanManageStore decides whether the session may mutate data belonging
// to storeID. super_admin manages every store; store_admin only the
// stores on their claims; everyone else nothing.
func CanManageStore(claims *middleware.Claims, storeID string) error {
	if claims == nil {
		return ErrNotAuthorized
	}
	switch claims.Role {
	case models.RoleSuperAdmin:
		return nil
	case models.RoleStoreAdmin:
		if utils.Contains(claims.StoreIDs, storeID) {
			return nil
		}
	}
	return ErrNotAuthorized
}
