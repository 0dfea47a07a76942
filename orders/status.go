package orders

import "fmt"

// Order statuses
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusShipped   = "shipped"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

var validNext = map[string]map[string]bool{
	StatusPending:   {StatusPaid: true, StatusCancelled: true},
	StatusPaid:      {StatusShipped: true, StatusCancelled: true},
	StatusShipped:   {StatusCompleted: true},
	StatusCompleted: {},
	StatusCancelled: {},
}

// KnownStatus reports whether s is one of the order statuses.
func KnownStatus(s string) bool {
	_, ok := validNext[s]
	return ok
}

// CanTransition reports whether an order may move from one status to
// another. Completed and cancelled are terminal.
func CanTransition(from, to string) bool {
	return validNext[from][to]
}

// InvalidTransitionError rejects a status change the lifecycle does not
// allow.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %q to %q", e.From, e.To)
}
