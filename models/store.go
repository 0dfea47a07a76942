package models

import "time"

// Store is a tenant. Subdomain is the unique routing key for the
// storefront; OwnerEmail receives new-order notifications.
type Store struct {
	StoreID    string    `json:"storeId" bson:"storeId"`
	Name       string    `json:"name" bson:"name"`
	Subdomain  string    `json:"subdomain" bson:"subdomain"`
	OwnerID    string    `json:"ownerId" bson:"ownerId"`
	OwnerEmail string    `json:"ownerEmail,omitempty" bson:"ownerEmail,omitempty"`
	LogoURL    string    `json:"logoUrl,omitempty" bson:"logoUrl,omitempty"`
	BrandColor string    `json:"brandColor,omitempty" bson:"brandColor,omitempty"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}

type Product struct {
	ProductID   string    `json:"productId" bson:"productId"`
	StoreID     string    `json:"storeId" bson:"storeId"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Price       float64   `json:"price" bson:"price"`
	Stock       int       `json:"stock" bson:"stock"`
	ImageURL    string    `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	Active      bool      `json:"active" bson:"active"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

type Customer struct {
	CustomerID string    `json:"customerId" bson:"customerId"`
	StoreID    string    `json:"storeId" bson:"storeId"`
	Email      string    `json:"email" bson:"email"`
	Name       string    `json:"name" bson:"name"`
	Phone      string    `json:"phone,omitempty" bson:"phone,omitempty"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}

type Team struct {
	TeamID    string    `json:"teamId" bson:"teamId"`
	StoreID   string    `json:"storeId" bson:"storeId"`
	Name      string    `json:"name" bson:"name"`
	CreatedBy string    `json:"createdBy" bson:"createdBy"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type TeamMember struct {
	TeamID    string    `json:"teamId" bson:"teamId"`
	Email     string    `json:"email" bson:"email"`
	UserID    string    `json:"userId,omitempty" bson:"userId,omitempty"`
	Status    string    `json:"status" bson:"status"` // invited, active
	InvitedBy string    `json:"invitedBy" bson:"invitedBy"`
	InvitedAt time.Time `json:"invitedAt" bson:"invitedAt"`
}
