package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
	"github.com/m04kA/EVM-AvailabilityService/pkg/ptr"
	"github.com/m04kA/EVM-AvailabilityService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeSlotRepo struct {
	upserted []*domain.CalendarSlot
}

func (f *fakeSlotRepo) Upsert(_ context.Context, slot *domain.CalendarSlot) (*domain.CalendarSlot, error) {
	slot.ID = int64(len(f.upserted) + 1)
	f.upserted = append(f.upserted, slot)
	return slot, nil
}

func (f *fakeSlotRepo) GetByProvider(_ context.Context, providerID int64, date *time.Time) ([]*domain.CalendarSlot, error) {
	result := make([]*domain.CalendarSlot, 0)
	for _, slot := range f.upserted {
		if slot.ProviderID != providerID {
			continue
		}
		if date != nil && !slot.Date.Equal(*date) {
			continue
		}
		result = append(result, slot)
	}
	return result, nil
}

type fakeCatalogRepo struct {
	providers []int64
}

func (f *fakeCatalogRepo) EnsureProvider(_ context.Context, providerID int64) error {
	f.providers = append(f.providers, providerID)
	return nil
}

type fakeInvalidator struct {
	calls []int64
}

func (f *fakeInvalidator) InvalidateProvider(_ context.Context, providerID int64) {
	f.calls = append(f.calls, providerID)
}

func validSlot() *domain.CalendarSlot {
	return &domain.CalendarSlot{
		ProviderID:  1,
		Date:        time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		StartTime:   types.TimeString("10:00"),
		EndTime:     types.TimeString("11:00"),
		MaxBookings: 3,
	}
}

func TestUpsertSlot(t *testing.T) {
	t.Parallel()

	makeService := func() (*Service, *fakeSlotRepo, *fakeInvalidator) {
		slotRepo := &fakeSlotRepo{}
		invalidator := &fakeInvalidator{}
		svc := NewService(slotRepo, &fakeCatalogRepo{}, invalidator, nopLogger{})
		return svc, slotRepo, invalidator
	}

	t.Run("upserts valid slot and invalidates cache", func(t *testing.T) {
		svc, repo, invalidator := makeService()

		saved, err := svc.UpsertSlot(context.Background(), validSlot())
		require.NoError(t, err)

		assert.Equal(t, int64(1), saved.ID)
		assert.Len(t, repo.upserted, 1)
		assert.Equal(t, []int64{1}, invalidator.calls)
	})

	t.Run("rejects inverted time window", func(t *testing.T) {
		svc, repo, _ := makeService()

		slot := validSlot()
		slot.StartTime = types.TimeString("12:00")
		slot.EndTime = types.TimeString("11:00")

		_, err := svc.UpsertSlot(context.Background(), slot)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Empty(t, repo.upserted)
	})

	t.Run("rejects zero capacity", func(t *testing.T) {
		svc, _, _ := makeService()

		slot := validSlot()
		slot.MaxBookings = 0

		_, err := svc.UpsertSlot(context.Background(), slot)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rejects capacity above limit", func(t *testing.T) {
		svc, _, _ := makeService()

		slot := validSlot()
		slot.MaxBookings = domain.MaxSlotCapacity + 1

		_, err := svc.UpsertSlot(context.Background(), slot)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rejects missing provider", func(t *testing.T) {
		svc, _, _ := makeService()

		slot := validSlot()
		slot.ProviderID = 0

		_, err := svc.UpsertSlot(context.Background(), slot)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestGetProviderSlots(t *testing.T) {
	t.Parallel()

	slotRepo := &fakeSlotRepo{}
	svc := NewService(slotRepo, &fakeCatalogRepo{}, &fakeInvalidator{}, nopLogger{})

	_, err := svc.UpsertSlot(context.Background(), validSlot())
	require.NoError(t, err)

	slots, err := svc.GetProviderSlots(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Len(t, slots, 1)

	slots, err = svc.GetProviderSlots(context.Background(), 1, ptr.Ptr(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Len(t, slots, 1)

	slots, err = svc.GetProviderSlots(context.Background(), 1, ptr.Ptr(time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Empty(t, slots)

	_, err = svc.GetProviderSlots(context.Background(), 0, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
