package models

import "time"

// Roles
const (
	RoleSuperAdmin = "super_admin"
	RoleStoreAdmin = "store_admin"
	RoleUser       = "user"
)

// UserProfile is the account record. Role is the sole authorization
// input; StoreIDs scope a store_admin to their own stores.
type UserProfile struct {
	UserID        string    `json:"userId" bson:"userId"`
	Username      string    `json:"username" bson:"username"`
	Email         string    `json:"email" bson:"email"`
	FullName      string    `json:"fullName,omitempty" bson:"fullName,omitempty"`
	Password      string    `json:"password,omitempty" bson:"password"`
	Role          string    `json:"role" bson:"role"`
	StoreIDs      []string  `json:"storeIds,omitempty" bson:"storeIds,omitempty"`
	RefreshToken  string    `json:"-" bson:"refresh_token,omitempty"`
	RefreshExpiry time.Time `json:"-" bson:"refresh_expiry,omitempty"`
	LastLogin     time.Time `json:"lastLogin,omitempty" bson:"last_login,omitempty"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}
