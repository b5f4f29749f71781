package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vprokhorov/airbook/internal/domain"
)

type FlightRepository interface {
	List(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	GetSeatMap(ctx context.Context, flightID int64) (*domain.SeatMap, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightSelect = `
SELECT f.id, f.departure_time, f.arrival_time,
       r.id, r.distance,
       src.id, src.name, src.closest_big_city,
       dst.id, dst.name, dst.closest_big_city,
       a.id, a.name, a.rows, a.seats_in_row,
       a.rows * a.seats_in_row - COUNT(t.id) AS tickets_available
FROM flights f
JOIN routes r ON r.id = f.route_id
JOIN airports src ON src.id = r.source_id
JOIN airports dst ON dst.id = r.destination_id
JOIN airplanes a ON a.id = f.airplane_id
LEFT JOIN tickets t ON t.flight_id = f.id`

const flightGroupBy = ` GROUP BY f.id, r.id, src.id, dst.id, a.id`

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	if err := row.Scan(
		&f.ID, &f.DepartureTime, &f.ArrivalTime,
		&f.Route.ID, &f.Route.Distance,
		&f.Route.Source.ID, &f.Route.Source.Name, &f.Route.Source.ClosestBigCity,
		&f.Route.Destination.ID, &f.Route.Destination.Name, &f.Route.Destination.ClosestBigCity,
		&f.Airplane.ID, &f.Airplane.Name, &f.Airplane.Rows, &f.Airplane.SeatsInRow,
		&f.TicketsAvailable,
	); err != nil {
		return nil, err
	}
	return &f, nil
}

// List applies the supplied filters conjunctively. The departure date
// filter compares against the UTC calendar date of departure_time.
func (r *PGFlightRepository) List(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	var date *time.Time
	if filter.DepartureDate != nil {
		d := filter.DepartureDate.UTC().Truncate(24 * time.Hour)
		date = &d
	}

	rows, err := r.db.Query(ctx, flightSelect+`
WHERE ($1::bigint IS NULL OR f.route_id = $1)
  AND ($2::bigint IS NULL OR f.airplane_id = $2)
  AND ($3::date IS NULL OR (f.departure_time AT TIME ZONE 'UTC')::date = $3)`+
		flightGroupBy+` ORDER BY f.id`,
		filter.RouteID, filter.AirplaneID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, flightSelect+` WHERE f.id = $1`+flightGroupBy, id)
	f, err := scanFlight(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, err
	}
	return f, nil
}

// GetSeatMap returns the grid dimensions and every sold seat for a flight,
// reflecting committed state at call time.
func (r *PGFlightRepository) GetSeatMap(ctx context.Context, flightID int64) (*domain.SeatMap, error) {
	sm := domain.SeatMap{FlightID: flightID}
	err := r.db.QueryRow(ctx, `SELECT a.rows, a.seats_in_row FROM flights f JOIN airplanes a ON a.id = f.airplane_id WHERE f.id = $1`, flightID).
		Scan(&sm.Rows, &sm.SeatsInRow)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, err
	}

	rows, err := r.db.Query(ctx, `SELECT seat_row, seat_number FROM tickets WHERE flight_id = $1 ORDER BY seat_row, seat_number`, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var c domain.SeatCoordinate
		if err := rows.Scan(&c.Row, &c.Seat); err != nil {
			return nil, err
		}
		sm.Sold = append(sm.Sold, c)
	}
	return &sm, rows.Err()
}

var _ FlightRepository = (*PGFlightRepository)(nil)
