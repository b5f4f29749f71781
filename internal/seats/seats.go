// Package seats holds the pure seat-grid arithmetic: coordinate
// validation against an airplane layout and availability computation.
// Nothing here touches storage.
package seats

import (
	"github.com/vprokhorov/airbook/internal/domain"
)

// Validate checks a 1-indexed (row, seat) pair against the grid
// rows x seatsInRow. The row bound is reported before the seat bound.
func Validate(row, seat, rows, seatsInRow int) error {
	if row < 1 || row > rows {
		return domain.ErrRowOutOfRange
	}
	if seat < 1 || seat > seatsInRow {
		return domain.ErrSeatOutOfRange
	}
	return nil
}

// AvailableCount returns capacity minus sold.
func AvailableCount(capacity, sold int) int {
	return capacity - sold
}

// FreeSeats enumerates every coordinate of the grid not present in sold,
// row-major: row ascending, seat ascending within a row. The result is
// recomputed on every call from the inputs alone.
func FreeSeats(rows, seatsInRow int, sold []domain.SeatCoordinate) []domain.SeatCoordinate {
	taken := make(map[domain.SeatCoordinate]struct{}, len(sold))
	for _, s := range sold {
		taken[s] = struct{}{}
	}

	capacity := rows*seatsInRow - len(taken)
	if capacity < 0 {
		capacity = 0
	}
	free := make([]domain.SeatCoordinate, 0, capacity)
	for row := 1; row <= rows; row++ {
		for seat := 1; seat <= seatsInRow; seat++ {
			c := domain.SeatCoordinate{Row: row, Seat: seat}
			if _, ok := taken[c]; !ok {
				free = append(free, c)
			}
		}
	}
	return free
}
