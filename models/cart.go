package models

import "time"

// CartItem represents a single item in the user's cart.
// On checkout the item is snapshotted into the order as-is.
type CartItem struct {
	UserID    string    `json:"userId,omitempty" bson:"userId,omitempty"`
	StoreID   string    `json:"storeId" bson:"storeId"`
	ProductID string    `json:"productId" bson:"productId"`
	Title     string    `json:"title" bson:"title"`
	UnitPrice float64   `json:"unitPrice" bson:"unitPrice"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	ImageURL  string    `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	AddedAt   time.Time `json:"addedAt,omitempty" bson:"addedAt,omitempty"`
}
