package pricing

import (
	"fmt"
	"os"
	"strconv"

	"storefront/models"
)

// Config holds the storefront pricing knobs. Values are deployment
// configuration, not business law.
type Config struct {
	VATRate               float64
	FreeShippingThreshold float64
	FlatShippingFee       float64
}

// Default deployment values.
func DefaultConfig() Config {
	return Config{
		VATRate:               0.15,
		FreeShippingThreshold: 500,
		FlatShippingFee:       75,
	}
}

// FromEnv reads VAT_RATE, FREE_SHIPPING_THRESHOLD and FLAT_SHIPPING_FEE,
// falling back to the defaults for anything unset or unparsable.
func FromEnv() Config {
	cfg := DefaultConfig()
	if v, err := strconv.ParseFloat(os.Getenv("VAT_RATE"), 64); err == nil {
		cfg.VATRate = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("FREE_SHIPPING_THRESHOLD"), 64); err == nil {
		cfg.FreeShippingThreshold = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("FLAT_SHIPPING_FEE"), 64); err == nil {
		cfg.FlatShippingFee = v
	}
	return cfg
}

// Quote is the priced breakdown of a cart.
type Quote struct {
	Subtotal       float64 `json:"subtotal"`
	Tax            float64 `json:"tax"`
	Shipping       float64 `json:"shipping"`
	DiscountAmount float64 `json:"discountAmount"`
	Total          float64 `json:"total"`
}

// InvalidCartItemError reports a cart item that cannot be priced.
type InvalidCartItemError struct {
	ProductID string
	Reason    string
}

func (e *InvalidCartItemError) Error() string {
	return fmt.Sprintf("invalid cart item %s: %s", e.ProductID, e.Reason)
}

// Compute derives subtotal, tax, shipping, discount and total from a cart
// snapshot and an optional already-validated discount code. Pure: same
// inputs always give the same Quote, and Total is never negative.
func (c Config) Compute(items []models.CartItem, discount *models.DiscountCode) (Quote, error) {
	var q Quote

	for _, item := range items {
		if item.Quantity <= 0 {
			return Quote{}, &InvalidCartItemError{ProductID: item.ProductID, Reason: "quantity must be positive"}
		}
		if item.UnitPrice < 0 {
			return Quote{}, &InvalidCartItemError{ProductID: item.ProductID, Reason: "unit price must be non-negative"}
		}
		q.Subtotal += item.UnitPrice * float64(item.Quantity)
	}

	q.Tax = q.Subtotal * c.VATRate

	if q.Subtotal > c.FreeShippingThreshold {
		q.Shipping = 0
	} else {
		q.Shipping = c.FlatShippingFee
	}

	if discount != nil {
		switch discount.Kind {
		case models.DiscountPercentage:
			q.DiscountAmount = q.Subtotal * (discount.Value / 100)
		case models.DiscountFixedAmount:
			q.DiscountAmount = discount.Value
		case models.DiscountFreeShip:
			q.DiscountAmount = q.Shipping
		}
		// Clamp so a discount never exceeds the goods plus shipping.
		if max := q.Subtotal + q.Shipping; q.DiscountAmount > max {
			q.DiscountAmount = max
		}
	}

	q.Total = q.Subtotal + q.Tax + q.Shipping - q.DiscountAmount
	return q, nil
}
