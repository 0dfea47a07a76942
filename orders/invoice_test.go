package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyTrackingPayloadRoundTrip(t *testing.T) {
	payload := trackingPayload("ORD-123", "shopper@example.com")

	orderID, err := VerifyTrackingPayload(payload)
	assert.NoError(t, err)
	assert.Equal(t, "ORD-123", orderID)
}

func TestVerifyTrackingPayloadRejectsTampering(t *testing.T) {
	payload := trackingPayload("ORD-123", "shopper@example.com")
	forged := "ORD-999" + payload[len("ORD-123"):]

	_, err := VerifyTrackingPayload(forged)
	assert.Error(t, err)

	_, err = VerifyTrackingPayload("garbage")
	assert.Error(t, err)
}
