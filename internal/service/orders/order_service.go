package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vprokhorov/airbook/internal/domain"
	"github.com/vprokhorov/airbook/internal/kafka"
	"github.com/vprokhorov/airbook/internal/repository"
	"github.com/vprokhorov/airbook/internal/seats"
)

type OrderUseCase interface {
	CreateOrder(ctx context.Context, userID int64, tickets []domain.TicketRequest) (*domain.Order, error)
	ListOrders(ctx context.Context, userID int64) ([]domain.Order, error)
}

type Cache interface {
	AcquireSeatLock(ctx context.Context, flightID int64, row, seat int, ttl time.Duration) (bool, error)
	ReleaseSeatLock(ctx context.Context, flightID int64, row, seat int) error
	InvalidateSeatMap(ctx context.Context, flightID int64) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type OrderService struct {
	orders             repository.OrderRepository
	flights            repository.FlightRepository
	cache              Cache
	producer           Producer
	ordersTopic        string
	notificationsTopic string
	seatLockTTL        time.Duration
}

type OrderServiceOption func(*OrderService)

func WithNotificationsTopic(topic string) OrderServiceOption {
	return func(s *OrderService) {
		s.notificationsTopic = topic
	}
}

func NewOrderService(
	orders repository.OrderRepository,
	flights repository.FlightRepository,
	cache Cache,
	producer Producer,
	ordersTopic string,
	seatLockTTL time.Duration,
	opts ...OrderServiceOption,
) *OrderService {
	service := &OrderService{
		orders:      orders,
		flights:     flights,
		cache:       cache,
		producer:    producer,
		ordersTopic: ordersTopic,
		seatLockTTL: seatLockTTL,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateOrder books every requested seat atomically: either the order and
// all its tickets are committed or nothing is. Validation and the sold-seat
// pre-check run against committed state first; the winner between
// concurrent requests for the same seat is decided by the storage
// uniqueness constraint, surfaced as domain.ErrSeatAlreadyTaken.
func (s *OrderService) CreateOrder(ctx context.Context, userID int64, tickets []domain.TicketRequest) (*domain.Order, error) {
	if len(tickets) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	seatMaps := make(map[int64]*domain.SeatMap)
	requested := make(map[domain.TicketRequest]struct{}, len(tickets))
	for i, t := range tickets {
		sm, ok := seatMaps[t.FlightID]
		if !ok {
			var err error
			sm, err = s.flights.GetSeatMap(ctx, t.FlightID)
			if err != nil {
				return nil, domain.NewTicketError(i, err)
			}
			seatMaps[t.FlightID] = sm
		}

		if err := seats.Validate(t.Row, t.Seat, sm.Rows, sm.SeatsInRow); err != nil {
			return nil, domain.NewTicketError(i, err)
		}

		for _, sold := range sm.Sold {
			if sold.Row == t.Row && sold.Seat == t.Seat {
				return nil, domain.NewTicketError(i, domain.ErrSeatAlreadyTaken)
			}
		}

		// the same seat twice within one request
		if _, dup := requested[t]; dup {
			return nil, domain.NewTicketError(i, domain.ErrSeatAlreadyTaken)
		}
		requested[t] = struct{}{}
	}

	locked, err := s.lockSeats(ctx, tickets)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		PublicID: uuid.NewString(),
		UserID:   userID,
	}
	if err := s.orders.Create(ctx, order, tickets); err != nil {
		s.releaseSeats(ctx, locked)
		return nil, err
	}
	s.releaseSeats(ctx, locked)

	s.invalidate(ctx, seatMaps)

	if err := s.publish(ctx, "order_created", order); err != nil {
		logrus.WithError(err).WithField("order", order.PublicID).Warn("failed to publish order_created event")
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// lockSeats takes the redis fast-path claim on every requested seat. If
// any claim is denied the ones already taken are released and the request
// fails without touching postgres.
func (s *OrderService) lockSeats(ctx context.Context, tickets []domain.TicketRequest) ([]domain.TicketRequest, error) {
	if s.cache == nil {
		return nil, nil
	}

	locked := make([]domain.TicketRequest, 0, len(tickets))
	for i, t := range tickets {
		ok, err := s.cache.AcquireSeatLock(ctx, t.FlightID, t.Row, t.Seat, s.seatLockTTL)
		if err != nil {
			s.releaseSeats(ctx, locked)
			return nil, err
		}
		if !ok {
			s.releaseSeats(ctx, locked)
			return nil, domain.NewTicketError(i, domain.ErrSeatAlreadyTaken)
		}
		locked = append(locked, t)
	}
	return locked, nil
}

func (s *OrderService) releaseSeats(ctx context.Context, locked []domain.TicketRequest) {
	for _, t := range locked {
		_ = s.cache.ReleaseSeatLock(ctx, t.FlightID, t.Row, t.Seat)
	}
}

func (s *OrderService) invalidate(ctx context.Context, seatMaps map[int64]*domain.SeatMap) {
	if s.cache == nil {
		return
	}
	for flightID := range seatMaps {
		_ = s.cache.InvalidateSeatMap(ctx, flightID)
	}
}

func (s *OrderService) publish(ctx context.Context, eventType string, order *domain.Order) error {
	if s.producer == nil || s.ordersTopic == "" {
		return nil
	}
	event := kafka.OrderEvent{
		Type:      eventType,
		OrderID:   order.PublicID,
		UserID:    order.UserID,
		CreatedAt: order.CreatedAt,
	}
	for _, t := range order.Tickets {
		event.Tickets = append(event.Tickets, kafka.SeatTicket{FlightID: t.FlightID, Row: t.Row, Seat: t.Seat})
	}
	if err := s.producer.Publish(ctx, s.ordersTopic, order.PublicID, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, order.PublicID, event)
	}
	return nil
}

var _ OrderUseCase = (*OrderService)(nil)
