package domain

import (
	"time"

	"github.com/m04kA/EVM-AvailabilityService/pkg/types"
)

// CalendarSlot окно бронирования поставщика с конечной вместимостью.
// Инвариант: 0 <= CurrentBookings <= MaxBookings (дублируется CHECK-ом в БД).
type CalendarSlot struct {
	ID              int64
	ProviderID      int64
	Date            time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	MaxBookings     int
	CurrentBookings int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SpareCapacity returns capacity left after confirmed bookings and active holds
func (s *CalendarSlot) SpareCapacity(activeHolds int) int {
	spare := s.MaxBookings - s.CurrentBookings - activeHolds
	if spare < 0 {
		return 0
	}
	return spare
}

// IsFull returns true if confirmed bookings already exhaust the capacity
func (s *CalendarSlot) IsFull() bool {
	return s.CurrentBookings >= s.MaxBookings
}

// OccupancyRate returns the confirmed occupancy as a percentage (0-100)
func (s *CalendarSlot) OccupancyRate() float64 {
	if s.MaxBookings == 0 {
		return 0
	}
	return float64(s.CurrentBookings) / float64(s.MaxBookings) * 100
}
