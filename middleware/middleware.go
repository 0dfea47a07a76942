package middleware

import (
	"context"
	"fmt"
	"net/http"

	"storefront/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

// JWT claims
type Claims struct {
	Username string   `json:"username"`
	UserID   string   `json:"userId"`
	Role     string   `json:"role"`
	StoreIDs []string `json:"storeIds,omitempty"`
	jwt.RegisteredClaims
}

type claimsKeyType struct{}

var claimsKey claimsKeyType

func Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := claimsFromHeader(r.Header.Get("Authorization"))
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		next(w, r.WithContext(contextWithClaims(r.Context(), claims)), ps)
	}
}

// OptionalAuth attaches claims when a valid token is present and proceeds
// regardless.
func OptionalAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if claims, err := claimsFromHeader(r.Header.Get("Authorization")); err == nil {
			r = r.WithContext(contextWithClaims(r.Context(), claims))
		}
		next(w, r, ps)
	}
}

// RequireRoles gates a handler on session role membership. The wrapped
// handler only runs when the caller's role is in the allowed set; every
// other outcome is a consistent 401/403 JSON denial.
func RequireRoles(next httprouter.Handle, roles ...string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := claimsFromHeader(r.Header.Get("Authorization"))
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}

		if !roleAllowed(claims.Role, roles) {
			w.Header().Set("Content-Type", "application/json")
			http.Error(w, `{"error":"Insufficient role"}`, http.StatusForbidden)
			return
		}

		next(w, r.WithContext(contextWithClaims(r.Context(), claims)), ps)
	}
}

func roleAllowed(role string, allowed []string) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

func claimsFromHeader(tokenString string) (*Claims, error) {
	if len(tokenString) < 8 || tokenString[:7] != "Bearer " {
		return nil, fmt.Errorf("invalid token format")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString[7:], claims, func(token *jwt.Token) (any, error) {
		return globals.JwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("unauthorized")
	}
	return claims, nil
}

func contextWithClaims(ctx context.Context, claims *Claims) context.Context {
	ctx = context.WithValue(ctx, globals.UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, globals.RoleKey, claims.Role)
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the claims attached by Authenticate or
// RequireRoles, or nil for anonymous requests.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsKey).(*Claims)
	return claims
}

func ValidateJWT(tokenString string) (*Claims, error) {
	if tokenString == "" || len(tokenString) < 8 {
		return nil, fmt.Errorf("invalid token")
	}
	return claimsFromHeader(tokenString)
}
