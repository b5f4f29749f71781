package domain

import "time"

type Order struct {
	ID        int64
	PublicID  string
	UserID    int64
	CreatedAt time.Time
	Tickets   []Ticket
}

type Ticket struct {
	ID       int64
	Row      int
	Seat     int
	FlightID int64
	OrderID  int64
}

// TicketRequest is one requested seat within an order before it is persisted.
type TicketRequest struct {
	FlightID int64
	Row      int
	Seat     int
}
