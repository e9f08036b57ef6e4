package simulation

import "fmt"

// InvariantViolation reports a ledger state that should be impossible: a
// balance going negative or a fortnightly split not summing to the
// available cash. It indicates a logic defect and is surfaced
// immediately, never swallowed or retried.
type InvariantViolation struct {
	Day    int
	Op     string
	Detail string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation at day %d in %s: %s", e.Day, e.Op, e.Detail)
}
