package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{StatusPending, StatusPaid},
		{StatusPending, StatusCancelled},
		{StatusPaid, StatusShipped},
		{StatusPaid, StatusCancelled},
		{StatusShipped, StatusCompleted},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr.from, tr.to), "%s -> %s should be allowed", tr.from, tr.to)
	}

	denied := []struct{ from, to string }{
		{StatusPending, StatusShipped},
		{StatusPending, StatusCompleted},
		{StatusPaid, StatusPending},
		{StatusShipped, StatusCancelled},
		{StatusShipped, StatusPaid},
		{StatusCompleted, StatusPending},
		{StatusCompleted, StatusShipped},
		{StatusCancelled, StatusPaid},
		{StatusCancelled, StatusPending},
		{StatusPending, StatusPending},
	}
	for _, tr := range denied {
		assert.False(t, CanTransition(tr.from, tr.to), "%s -> %s should be denied", tr.from, tr.to)
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, terminal := range []string{StatusCompleted, StatusCancelled} {
		for next := range validNext {
			assert.False(t, CanTransition(terminal, next))
		}
	}
}

func TestKnownStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusPaid, StatusShipped, StatusCompleted, StatusCancelled} {
		assert.True(t, KnownStatus(s))
	}
	assert.False(t, KnownStatus("refunded"))
	assert.False(t, KnownStatus(""))
}

func TestInvalidTransitionError(t *testing.T) {
	err := &InvalidTransitionError{From: StatusShipped, To: StatusPending}
	assert.Contains(t, err.Error(), "shipped")
	assert.Contains(t, err.Error(), "pending")
}
