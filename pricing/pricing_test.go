package pricing

import (
	"testing"

	"storefront/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(price float64, qty int) models.CartItem {
	return models.CartItem{ProductID: "p1", Title: "Widget", UnitPrice: price, Quantity: qty}
}

func TestComputeFreeShippingThreshold(t *testing.T) {
	q, err := DefaultConfig().Compute([]models.CartItem{item(600, 1)}, nil)
	require.NoError(t, err)

	assert.Equal(t, 600.0, q.Subtotal)
	assert.Equal(t, 90.0, q.Tax)
	assert.Equal(t, 0.0, q.Shipping)
	assert.Equal(t, 690.0, q.Total)
}

func TestComputeFlatShippingBelowThreshold(t *testing.T) {
	q, err := DefaultConfig().Compute([]models.CartItem{item(100, 1)}, nil)
	require.NoError(t, err)

	assert.Equal(t, 100.0, q.Subtotal)
	assert.Equal(t, 15.0, q.Tax)
	assert.Equal(t, 75.0, q.Shipping)
	assert.Equal(t, 190.0, q.Total)
}

func TestComputePercentageDiscountClampsAtOrderValue(t *testing.T) {
	// 200% of subtotal would be 200; clamp holds it at subtotal+shipping.
	code := &models.DiscountCode{Kind: models.DiscountPercentage, Value: 200}
	q, err := DefaultConfig().Compute([]models.CartItem{item(100, 1)}, code)
	require.NoError(t, err)

	assert.Equal(t, 175.0, q.DiscountAmount)
	assert.Equal(t, 15.0, q.Total) // 100 + 15 + 75 - 175
	assert.GreaterOrEqual(t, q.Total, 0.0)
}

func TestComputeFixedAmountDiscountClamp(t *testing.T) {
	code := &models.DiscountCode{Kind: models.DiscountFixedAmount, Value: 1000}
	q, err := DefaultConfig().Compute([]models.CartItem{item(40, 2)}, code)
	require.NoError(t, err)

	assert.Equal(t, 155.0, q.DiscountAmount) // 80 + 75
	assert.InDelta(t, 12.0, q.Total, 1e-9)   // tax only
}

func TestComputeFreeShippingDiscount(t *testing.T) {
	code := &models.DiscountCode{Kind: models.DiscountFreeShip}
	q, err := DefaultConfig().Compute([]models.CartItem{item(100, 1)}, code)
	require.NoError(t, err)

	assert.Equal(t, 75.0, q.DiscountAmount)
	assert.Equal(t, 115.0, q.Total)
}

func TestComputeFreeShippingDiscountAboveThreshold(t *testing.T) {
	// Shipping is already zero, so the discount is worth nothing.
	code := &models.DiscountCode{Kind: models.DiscountFreeShip}
	q, err := DefaultConfig().Compute([]models.CartItem{item(600, 1)}, code)
	require.NoError(t, err)

	assert.Equal(t, 0.0, q.DiscountAmount)
	assert.Equal(t, 690.0, q.Total)
}

func TestComputeTotalIdentity(t *testing.T) {
	carts := [][]models.CartItem{
		{item(19.99, 3)},
		{item(250, 2), item(3.5, 10)},
		{item(0, 1)},
	}
	codes := []*models.DiscountCode{
		nil,
		{Kind: models.DiscountPercentage, Value: 10},
		{Kind: models.DiscountFixedAmount, Value: 50},
		{Kind: models.DiscountFreeShip},
	}

	cfg := DefaultConfig()
	for _, cart := range carts {
		for _, code := range codes {
			q, err := cfg.Compute(cart, code)
			require.NoError(t, err)

			assert.InDelta(t, q.Subtotal+q.Tax+q.Shipping-q.DiscountAmount, q.Total, 1e-9)
			assert.GreaterOrEqual(t, q.Total, 0.0)
			assert.LessOrEqual(t, q.DiscountAmount, q.Subtotal+q.Shipping)
		}
	}
}

func TestComputeRejectsInvalidItems(t *testing.T) {
	cfg := DefaultConfig()

	_, err := cfg.Compute([]models.CartItem{item(10, 0)}, nil)
	var invalid *InvalidCartItemError
	require.ErrorAs(t, err, &invalid)

	_, err = cfg.Compute([]models.CartItem{item(-1, 1)}, nil)
	require.ErrorAs(t, err, &invalid)
}

func TestComputeDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cart := []models.CartItem{item(42.42, 7)}
	code := &models.DiscountCode{Kind: models.DiscountPercentage, Value: 12.5}

	first, err := cfg.Compute(cart, code)
	require.NoError(t, err)
	second, err := cfg.Compute(cart, code)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
