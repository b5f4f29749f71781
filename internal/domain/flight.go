package domain

import "time"

type Airport struct {
	ID             int64
	Name           string
	ClosestBigCity string
}

type Route struct {
	ID          int64
	Source      Airport
	Destination Airport
	Distance    int
}

type Airplane struct {
	ID         int64
	Name       string
	Rows       int
	SeatsInRow int
}

// Capacity is the size of the physical seat grid.
func (a Airplane) Capacity() int {
	return a.Rows * a.SeatsInRow
}

type Flight struct {
	ID            int64
	Route         Route
	Airplane      Airplane
	DepartureTime time.Time
	ArrivalTime   time.Time

	// TicketsAvailable is capacity minus sold tickets at read time.
	TicketsAvailable int
}

// SeatMap is the read view the booking path needs for one flight:
// the grid dimensions plus every seat already claimed by a ticket.
type SeatMap struct {
	FlightID   int64
	Rows       int
	SeatsInRow int
	Sold       []SeatCoordinate
}

type SeatCoordinate struct {
	Row  int `json:"row"`
	Seat int `json:"seat"`
}

// FlightFilter narrows List results. Nil fields impose no constraint,
// supplied fields are combined with AND.
type FlightFilter struct {
	RouteID    *int64
	AirplaneID *int64
	// DepartureDate matches the UTC calendar date of departure_time.
	DepartureDate *time.Time
}
