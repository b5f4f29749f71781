// Sentinel errors shared by services, repositories and handlers.
// Handlers translate them into HTTP statuses, so new failure modes
// belong here rather than in ad-hoc errors.New calls at call sites.
package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyOrder rejects an order request with no tickets.
	ErrEmptyOrder = errors.New("order must contain at least one ticket")

	// ErrFlightNotFound means a requested flight id does not exist.
	ErrFlightNotFound = errors.New("flight not found")

	// ErrSeatAlreadyTaken means the (flight, row, seat) is claimed by an
	// existing ticket, either committed or racing ahead of us.
	ErrSeatAlreadyTaken = errors.New("seat is already taken")

	// ErrRowOutOfRange and ErrSeatOutOfRange reject coordinates outside
	// the airplane grid.
	ErrRowOutOfRange  = errors.New("row is out of range")
	ErrSeatOutOfRange = errors.New("seat is out of range")
)

// TicketError annotates a validation or conflict error with the position
// of the offending ticket in the order request.
type TicketError struct {
	Index int
	Err   error
}

func (e *TicketError) Error() string {
	return fmt.Sprintf("ticket %d: %v", e.Index, e.Err)
}

func (e *TicketError) Unwrap() error {
	return e.Err
}

// NewTicketError wraps err with the offending ticket index.
func NewTicketError(index int, err error) error {
	return &TicketError{Index: index, Err: err}
}
