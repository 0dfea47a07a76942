package models

import "time"

// Order represents a finalized order. Line items and monetary fields are
// immutable once the order is created; only the status fields change.
type Order struct {
	OrderID        string           `json:"orderId" bson:"orderId"`
	StoreID        string           `json:"storeId" bson:"storeId"`
	Subdomain      string           `json:"subdomain" bson:"subdomain"`
	UserID         string           `json:"userId,omitempty" bson:"userId,omitempty"`
	CustomerName   string           `json:"customerName" bson:"customerName"`
	CustomerEmail  string           `json:"customerEmail" bson:"customerEmail"`
	CustomerPhone  string           `json:"customerPhone,omitempty" bson:"customerPhone,omitempty"`
	ShippingAddr   string           `json:"shippingAddress" bson:"shippingAddress"`
	ShippingCity   string           `json:"shippingCity" bson:"shippingCity"`
	ShippingPostal string           `json:"shippingPostalCode" bson:"shippingPostalCode"`
	Items          []CartItem       `json:"items" bson:"items"`
	Subtotal       float64          `json:"subtotal" bson:"subtotal"`
	Tax            float64          `json:"tax" bson:"tax"`
	Shipping       float64          `json:"shipping" bson:"shipping"`
	Discount       *AppliedDiscount `json:"discount,omitempty" bson:"discount,omitempty"`
	Total          float64          `json:"total" bson:"total"`
	Status         string           `json:"status" bson:"status"`
	PaymentMethod  string           `json:"paymentMethod,omitempty" bson:"paymentMethod,omitempty"`
	PaymentStatus  string           `json:"paymentStatus" bson:"paymentStatus"`
	ShippingStatus string           `json:"shippingStatus" bson:"shippingStatus"`
	CreatedAt      time.Time        `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}
