package flights

import (
	"context"

	"github.com/vprokhorov/airbook/internal/domain"
	"github.com/vprokhorov/airbook/internal/repository"
	"github.com/vprokhorov/airbook/internal/seats"
)

type FlightUseCase interface {
	List(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Availability(ctx context.Context, flightID int64) (*Availability, error)
}

// Availability is the per-flight free-seat view: the count plus the full
// list of unclaimed coordinates in row-major order.
type Availability struct {
	FlightID         int64                   `json:"flight_id"`
	TicketsAvailable int                     `json:"tickets_available"`
	FreeSeats        []domain.SeatCoordinate `json:"free_seats"`
}

// SeatMapCache caches the sold-seat view; entries are dropped on every
// committed order for the flight, so a hit may only trail a commit by the
// invalidation window.
type SeatMapCache interface {
	GetSeatMap(ctx context.Context, flightID int64) (*domain.SeatMap, error)
	SetSeatMap(ctx context.Context, sm *domain.SeatMap) error
}

type FlightService struct {
	repo  repository.FlightRepository
	cache SeatMapCache
}

func NewFlightService(repo repository.FlightRepository, cache SeatMapCache) *FlightService {
	return &FlightService{repo: repo, cache: cache}
}

func (s *FlightService) List(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	return s.repo.List(ctx, filter)
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) Availability(ctx context.Context, flightID int64) (*Availability, error) {
	var sm *domain.SeatMap
	if s.cache != nil {
		if cached, err := s.cache.GetSeatMap(ctx, flightID); err == nil && cached != nil {
			sm = cached
		}
	}

	if sm == nil {
		var err error
		sm, err = s.repo.GetSeatMap(ctx, flightID)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			_ = s.cache.SetSeatMap(ctx, sm)
		}
	}

	capacity := sm.Rows * sm.SeatsInRow
	return &Availability{
		FlightID:         flightID,
		TicketsAvailable: seats.AvailableCount(capacity, len(sm.Sold)),
		FreeSeats:        seats.FreeSeats(sm.Rows, sm.SeatsInRow, sm.Sold),
	}, nil
}

var _ FlightUseCase = (*FlightService)(nil)
