package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vprokhorov/airbook/internal/domain"
)

type OrderRepository interface {
	// Create persists the order and all its tickets in one transaction.
	// On any failure nothing is persisted. A duplicate (flight, row, seat)
	// surfaces as domain.ErrSeatAlreadyTaken, an unknown flight as
	// domain.ErrFlightNotFound, both annotated with the ticket index.
	Create(ctx context.Context, order *domain.Order, tickets []domain.TicketRequest) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
}

type PGOrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) OrderRepository {
	return &PGOrderRepository{db: db}
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapTicketInsertErr converts storage constraint violations on the tickets
// table into domain errors carrying the offending ticket position.
func mapTicketInsertErr(err error, index int) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return domain.NewTicketError(index, domain.ErrSeatAlreadyTaken)
		case pgForeignKeyViolation:
			return domain.NewTicketError(index, domain.ErrFlightNotFound)
		}
	}
	return err
}

func (r *PGOrderRepository) Create(ctx context.Context, order *domain.Order, tickets []domain.TicketRequest) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `INSERT INTO orders (public_id, user_id)
		VALUES ($1, $2)
		RETURNING id, created_at`, order.PublicID, order.UserID).
		Scan(&order.ID, &order.CreatedAt); err != nil {
		return err
	}

	order.Tickets = make([]domain.Ticket, 0, len(tickets))
	for i, t := range tickets {
		ticket := domain.Ticket{Row: t.Row, Seat: t.Seat, FlightID: t.FlightID, OrderID: order.ID}
		if err := tx.QueryRow(ctx, `INSERT INTO tickets (seat_row, seat_number, flight_id, order_id)
			VALUES ($1, $2, $3, $4)
			RETURNING id`, t.Row, t.Seat, t.FlightID, order.ID).
			Scan(&ticket.ID); err != nil {
			return mapTicketInsertErr(err, i)
		}
		order.Tickets = append(order.Tickets, ticket)
	}

	return tx.Commit(ctx)
}

// ListByUser returns the user's orders newest-first with tickets attached.
func (r *PGOrderRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, `SELECT o.id, o.public_id, o.user_id, o.created_at,
		t.id, t.seat_row, t.seat_number, t.flight_id
		FROM orders o
		JOIN tickets t ON t.order_id = o.id
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC, o.id DESC, t.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var o domain.Order
		var t domain.Ticket
		if err := rows.Scan(&o.ID, &o.PublicID, &o.UserID, &o.CreatedAt,
			&t.ID, &t.Row, &t.Seat, &t.FlightID); err != nil {
			return nil, err
		}
		t.OrderID = o.ID

		if n := len(orders); n > 0 && orders[n-1].ID == o.ID {
			orders[n-1].Tickets = append(orders[n-1].Tickets, t)
			continue
		}
		o.Tickets = []domain.Ticket{t}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

var _ OrderRepository = (*PGOrderRepository)(nil)
