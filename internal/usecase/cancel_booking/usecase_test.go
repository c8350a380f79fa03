package cancel_booking

import (
	"context"
	"sync"
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

func (f *fakeBookingRepo) GetByIDForUpdate(_ context.Context, id int64) (*domain.Booking, error) {
	booking, ok := f.bookings[id]
	if !ok {
		return nil, bookingsRepo.ErrBookingNotFound
	}
	copied := *booking
	return &copied, nil
}

func (f *fakeBookingRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.bookings[id]; !ok {
		return bookingsRepo.ErrBookingNotFound
	}
	delete(f.bookings, id)
	return nil
}

type fakeSlotRepo struct {
	slots map[int64]*domain.CalendarSlot
}

func (f *fakeSlotRepo) DecrementOccupancy(_ context.Context, id int64) error {
	slot := f.slots[id]
	if slot.CurrentBookings > 0 {
		slot.CurrentBookings--
	}
	return nil
}

type fakeTxManager struct {
	mu sync.Mutex
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx)
}

type fakeInvalidator struct {
	calls []int64
}

func (f *fakeInvalidator) InvalidateProvider(_ context.Context, providerID int64) {
	f.calls = append(f.calls, providerID)
}

func TestCancelBooking(t *testing.T) {
	t.Parallel()

	booking := func() *domain.Booking {
		return &domain.Booking{
			ID:         1,
			HoldID:     "hold-1",
			ServiceID:  10,
			ProviderID: 1,
			SlotID:     100,
			HolderID:   7,
			SlotDate:   time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
			CreatedAt:  time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		}
	}

	type env struct {
		uc          *UseCase
		bookingRepo *fakeBookingRepo
		slotRepo    *fakeSlotRepo
		invalidator *fakeInvalidator
	}

	makeEnv := func(b *domain.Booking, current int) env {
		bookingRepo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{}}
		if b != nil {
			bookingRepo.bookings[b.ID] = b
		}
		slotRepo := &fakeSlotRepo{slots: map[int64]*domain.CalendarSlot{
			100: {ID: 100, ProviderID: 1, MaxBookings: 2, CurrentBookings: current},
		}}
		invalidator := &fakeInvalidator{}
		uc := NewUseCase(bookingRepo, slotRepo, invalidator, &fakeTxManager{}, NopMetrics{}, nopLogger{})
		return env{uc: uc, bookingRepo: bookingRepo, slotRepo: slotRepo, invalidator: invalidator}
	}

	t.Run("cancels booking and returns capacity", func(t *testing.T) {
		e := makeEnv(booking(), 1)

		err := e.uc.Execute(context.Background(), &Request{BookingID: 1, HolderID: 7})
		require.NoError(t, err)

		assert.Empty(t, e.bookingRepo.bookings)
		assert.Equal(t, 0, e.slotRepo.slots[100].CurrentBookings)
		assert.Equal(t, []int64{1}, e.invalidator.calls)
	})

	t.Run("unknown booking", func(t *testing.T) {
		e := makeEnv(nil, 1)

		err := e.uc.Execute(context.Background(), &Request{BookingID: 42, HolderID: 7})
		assert.ErrorIs(t, err, ErrBookingNotFound)
		assert.Equal(t, 1, e.slotRepo.slots[100].CurrentBookings)
	})

	t.Run("foreign holder cannot cancel", func(t *testing.T) {
		e := makeEnv(booking(), 1)

		err := e.uc.Execute(context.Background(), &Request{BookingID: 1, HolderID: 8})
		assert.ErrorIs(t, err, ErrBookingNotOwned)
		assert.Len(t, e.bookingRepo.bookings, 1)
		assert.Equal(t, 1, e.slotRepo.slots[100].CurrentBookings)
		assert.Empty(t, e.invalidator.calls)
	})

	t.Run("validation", func(t *testing.T) {
		e := makeEnv(booking(), 1)

		assert.ErrorIs(t, e.uc.Execute(context.Background(), &Request{BookingID: 0, HolderID: 7}), ErrInvalidInput)
		assert.ErrorIs(t, e.uc.Execute(context.Background(), &Request{BookingID: 1, HolderID: 0}), ErrInvalidInput)
	})
}
