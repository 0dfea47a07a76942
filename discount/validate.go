package discount

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/models"
)

// Validation failures, one per rejection reason. Handlers surface the
// specific reason, never a generic failure string.
var (
	ErrCodeNotFound      = errors.New("discount code not found")
	ErrNotYetValid       = errors.New("discount code is not yet valid")
	ErrExpired           = errors.New("discount code has expired")
	ErrUsageLimitReached = errors.New("discount code has reached its usage limit")
)

// BelowMinimumError carries the threshold so the message can name it.
type BelowMinimumError struct {
	Minimum float64
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("minimum order of R%.2f required", e.Minimum)
}

// Normalize uppercases a code for lookup; codes are case-insensitive.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate decides whether rec may be applied to a cart with the given
// subtotal as of now. First failure wins; no side effects. On success the
// caller feeds rec into the pricing calculator.
func Validate(rec *models.DiscountCode, subtotal float64, now time.Time) error {
	if rec == nil || !rec.Active {
		return ErrCodeNotFound
	}
	if rec.ActiveFrom != nil && now.Before(*rec.ActiveFrom) {
		return ErrNotYetValid
	}
	if rec.ActiveUntil != nil && now.After(*rec.ActiveUntil) {
		return ErrExpired
	}
	if rec.MinimumOrder > 0 && subtotal < rec.MinimumOrder {
		return &BelowMinimumError{Minimum: rec.MinimumOrder}
	}
	if rec.UsageLimit > 0 && rec.UsageCount >= rec.UsageLimit {
		return ErrUsageLimitReached
	}
	return nil
}
