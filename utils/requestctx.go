package utils

import (
	"net/http"

	"storefront/globals"
	"storefront/middleware"
)

func GetUserIDFromRequest(r *http.Request) string {
	ctx := r.Context()
	requestingUserID, ok := ctx.Value(globals.UserIDKey).(string)
	if !ok || requestingUserID == "" {
		return ""
	}
	return requestingUserID
}

func GetClaimsFromRequest(r *http.Request) *middleware.Claims {
	return middleware.ClaimsFromContext(r.Context())
}
