package discount

import (
	"errors"
	"testing"
	"time"

	"storefront/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func activeCode() *models.DiscountCode {
	return &models.DiscountCode{
		Code:   "SUMMER10",
		Kind:   models.DiscountPercentage,
		Value:  10,
		Active: true,
	}
}

func TestValidateActiveCode(t *testing.T) {
	require.NoError(t, Validate(activeCode(), 100, now))
}

func TestValidateMissingOrInactive(t *testing.T) {
	assert.ErrorIs(t, Validate(nil, 100, now), ErrCodeNotFound)

	rec := activeCode()
	rec.Active = false
	assert.ErrorIs(t, Validate(rec, 100, now), ErrCodeNotFound)
}

func TestValidateNotYetValid(t *testing.T) {
	rec := activeCode()
	from := now.Add(24 * time.Hour)
	rec.ActiveFrom = &from

	assert.ErrorIs(t, Validate(rec, 100, now), ErrNotYetValid)
}

func TestValidateExpired(t *testing.T) {
	rec := activeCode()
	until := now.Add(-24 * time.Hour)
	rec.ActiveUntil = &until

	assert.ErrorIs(t, Validate(rec, 100, now), ErrExpired)
}

func TestValidateBelowMinimumNamesThreshold(t *testing.T) {
	rec := activeCode()
	rec.MinimumOrder = 50

	err := Validate(rec, 40, now)
	var belowMin *BelowMinimumError
	require.ErrorAs(t, err, &belowMin)
	assert.Equal(t, 50.0, belowMin.Minimum)
	assert.Contains(t, err.Error(), "50")
}

func TestValidateUsageLimitReached(t *testing.T) {
	rec := activeCode()
	rec.UsageLimit = 3
	rec.UsageCount = 3

	assert.ErrorIs(t, Validate(rec, 100, now), ErrUsageLimitReached)

	// One use left still passes.
	rec.UsageCount = 2
	assert.NoError(t, Validate(rec, 100, now))
}

func TestValidateShortCircuitOrder(t *testing.T) {
	// An expired code that is also below minimum and over its limit must
	// report expiry: earlier checks win.
	rec := activeCode()
	until := now.Add(-time.Hour)
	rec.ActiveUntil = &until
	rec.MinimumOrder = 500
	rec.UsageLimit = 1
	rec.UsageCount = 1

	assert.ErrorIs(t, Validate(rec, 10, now), ErrExpired)

	from := now.Add(time.Hour)
	rec.ActiveFrom = &from
	rec.ActiveUntil = nil
	assert.ErrorIs(t, Validate(rec, 10, now), ErrNotYetValid)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "SUMMER10", Normalize("  summer10 "))
	assert.Equal(t, "SUMMER10", Normalize("Summer10"))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Invalid discount code", UserMessage(ErrCodeNotFound))
	assert.Equal(t, "This discount code has expired", UserMessage(ErrExpired))
	assert.Equal(t, "This discount code is not yet valid", UserMessage(ErrNotYetValid))
	assert.Equal(t, "This discount code has reached its usage limit", UserMessage(ErrUsageLimitReached))
	assert.Contains(t, UserMessage(&BelowMinimumError{Minimum: 50}), "R50.00")
	assert.Equal(t, "Failed to apply discount code", UserMessage(errors.New("boom")))
}
