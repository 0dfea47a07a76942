package models

import "time"

// Discount kinds
const (
	DiscountPercentage  = "percentage"
	DiscountFixedAmount = "fixed_amount"
	DiscountFreeShip    = "free_shipping"
)

// DiscountCode is created by a store admin and applied by shoppers at
// checkout. Codes are stored uppercase; lookups normalize first.
type DiscountCode struct {
	Code         string     `json:"code" bson:"code"`
	StoreID      string     `json:"storeId" bson:"storeId"`
	Kind         string     `json:"kind" bson:"kind"`
	Value        float64    `json:"value" bson:"value"`
	ActiveFrom   *time.Time `json:"activeFrom,omitempty" bson:"activeFrom,omitempty"`
	ActiveUntil  *time.Time `json:"activeUntil,omitempty" bson:"activeUntil,omitempty"`
	MinimumOrder float64    `json:"minimumOrderAmount,omitempty" bson:"minimumOrderAmount,omitempty"`
	UsageLimit   int        `json:"usageLimit,omitempty" bson:"usageLimit,omitempty"`
	UsageCount   int        `json:"usageCount" bson:"usageCount"`
	Active       bool       `json:"active" bson:"active"`
	CreatedAt    time.Time  `json:"createdAt" bson:"createdAt"`
}

// AppliedDiscount is the snapshot embedded in an order once a code has
// been validated and priced.
type AppliedDiscount struct {
	Code   string  `json:"code" bson:"code"`
	Kind   string  `json:"kind" bson:"kind"`
	Value  float64 `json:"value" bson:"value"`
	Amount float64 `json:"amount" bson:"amount"`
}
