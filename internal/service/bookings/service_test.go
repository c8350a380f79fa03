package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
	bookingsRepo "github.com/m04kA/EVM-AvailabilityService/internal/infra/storage/bookings"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	booking, ok := f.bookings[id]
	if !ok {
		return nil, bookingsRepo.ErrBookingNotFound
	}
	return booking, nil
}

func TestGetByID(t *testing.T) {
	t.Parallel()

	booking := &domain.Booking{
		ID:        1,
		HoldID:    "hold-1",
		HolderID:  7,
		SlotDate:  time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}

	svc := NewService(&fakeBookingRepo{bookings: map[int64]*domain.Booking{1: booking}}, nopLogger{})

	t.Run("holder reads own booking", func(t *testing.T) {
		got, err := svc.GetByID(context.Background(), 1, 7)
		require.NoError(t, err)
		assert.Equal(t, booking, got)
	})

	t.Run("unknown booking", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), 99, 7)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("foreign holder is denied", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), 1, 8)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}
