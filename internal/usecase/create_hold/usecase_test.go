package create_hold

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
	servicesRepo "github.com/m04kA/EVM-AvailabilityService/internal/infra/storage/services"
	"github.com/m04kA/EVM-AvailabilityService/pkg/clock"
	"github.com/m04kA/EVM-AvailabilityService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeServiceRepo struct {
	services map[int64]*domain.Service
}

func (f *fakeServiceRepo) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	svc, ok := f.services[id]
	if !ok {
		return nil, servicesRepo.ErrServiceNotFound
	}
	return svc, nil
}

type fakeSlotRepo struct {
	mu    sync.Mutex
	slots []*domain.CalendarSlot
}

func (f *fakeSlotRepo) ListUpcoming(_ context.Context, providerID int64, now time.Time, limit uint64) ([]*domain.CalendarSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	timeOfDay := now.Format("15:04")

	result := make([]*domain.CalendarSlot, 0)
	for _, slot := range f.slots {
		if slot.ProviderID != providerID || slot.Date.Before(today) {
			continue
		}
		// Сегодняшний слот с уже прошедшим началом будущим не считается
		if slot.Date.Equal(today) && slot.StartTime.String() <= timeOfDay {
			continue
		}
		result = append(result, slot)
		if uint64(len(result)) >= limit {
			break
		}
	}
	return result, nil
}

type fakeHoldRepo struct {
	mu    sync.Mutex
	holds []*domain.SoftHold
}

func (f *fakeHoldRepo) Create(_ context.Context, hold *domain.SoftHold) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.holds = append(f.holds, hold)
	return nil
}

func (f *fakeHoldRepo) CountActive(_ context.Context, slotID int64, now time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, h := range f.holds {
		if h.SlotID == slotID && h.Status == domain.HoldStatusActive && now.Before(h.ExpiresAt) {
			count++
		}
	}
	return count, nil
}

// fakeTxManager сериализует транзакции мьютексом: конкурентные Execute
// видят состояние репозиториев строго по очереди, как и serializable
// транзакции с блокировкой строк
type fakeTxManager struct {
	mu sync.Mutex
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx)
}

type fakeInvalidator struct {
	mu    sync.Mutex
	calls []int64
}

func (f *fakeInvalidator) InvalidateProvider(_ context.Context, providerID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, providerID)
}

func calendarService(id, providerID int64) *domain.Service {
	return &domain.Service{
		ID:                    id,
		ProviderID:            providerID,
		CategoryID:            1,
		SubcategoryID:         1,
		RequiresCalendar:      true,
		MaxConcurrentBookings: 10,
		IsVisible:             true,
	}
}

func TestCreateHold(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	type env struct {
		uc          *UseCase
		holdRepo    *fakeHoldRepo
		invalidator *fakeInvalidator
	}

	makeEnv := func(services map[int64]*domain.Service, slots []*domain.CalendarSlot, holds []*domain.SoftHold) env {
		holdRepo := &fakeHoldRepo{holds: holds}
		invalidator := &fakeInvalidator{}
		uc := NewUseCase(
			&fakeSlotRepo{slots: slots},
			holdRepo,
			&fakeServiceRepo{services: services},
			invalidator,
			&fakeTxManager{},
			clock.NewFixed(now),
			domain.DefaultHoldTTLSchedule(),
			NopMetrics{},
			nopLogger{},
		)
		return env{uc: uc, holdRepo: holdRepo, invalidator: invalidator}
	}

	t.Run("creates single hold with 15m ttl", func(t *testing.T) {
		e := makeEnv(
			map[int64]*domain.Service{10: calendarService(10, 1)},
			[]*domain.CalendarSlot{{ID: 100, ProviderID: 1, Date: tomorrow, MaxBookings: 2, CurrentBookings: 0}},
			nil,
		)

		resp, err := e.uc.Execute(context.Background(), &Request{
			ServiceID: 10, ProviderID: 1, HolderID: 7, PolicyClass: domain.HoldPolicySingle,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.HoldID)
		assert.Equal(t, int64(100), resp.SlotID)
		assert.Equal(t, now.Add(15*time.Minute), resp.ExpiresAt)
		assert.Equal(t, []int64{1}, e.invalidator.calls)
	})

	t.Run("bundle hold gets 60m ttl", func(t *testing.T) {
		e := makeEnv(
			map[int64]*domain.Service{10: calendarService(10, 1)},
			[]*domain.CalendarSlot{{ID: 100, ProviderID: 1, Date: tomorrow, MaxBookings: 2}},
			nil,
		)

		resp, err := e.uc.Execute(context.Background(), &Request{
			ServiceID: 10, ProviderID: 1, HolderID: 7, PolicyClass: domain.HoldPolicyBundle,
		})
		require.NoError(t, err)
		assert.Equal(t, now.Add(60*time.Minute), resp.ExpiresAt)
	})

	t.Run("active holds count against spare capacity", func(t *testing.T) {
		// max=2, current=1, один активный холд: spare = 0
		e := makeEnv(
			map[int64]*domain.Service{10: calendarService(10, 1)},
			[]*domain.CalendarSlot{{ID: 100, ProviderID: 1, Date: tomorrow, MaxBookings: 2, CurrentBookings: 1}},
			[]*domain.SoftHold{{
				ID: "h-1", SlotID: 100, Status: domain.HoldStatusActive, ExpiresAt: now.Add(5 * time.Minute),
			}},
		)

		_, err := e.uc.Execute(context.Background(), &Request{
			ServiceID: 10, ProviderID: 1, HolderID: 7, PolicyClass: domain.HoldPolicySingle,
		})
		assert.ErrorIs(t, err, ErrNoSpareCapacity)
		assert.Empty(t, e.invalidator.calls)
	})

	t.Run("expired hold frees its capacity", func(t *testing.T) {
		// Холд, созданный 15m01s назад с TTL 15m, уже не учитывается
		e := makeEnv(
			map[int64]*domain.Service{10: calendarService(10, 1)},
			[]*domain.CalendarSlot{{ID: 100, ProviderID: 1, Date: tomorrow, MaxBookings: 1}},
			[]*domain.SoftHold{{
				ID: "h-old", SlotID: 100, Status: domain.HoldStatusActive,
				ExpiresAt: now.Add(-1 * time.Second),
			}},
		)

		resp, err := e.uc.Execute(context.Background(), &Request{
			ServiceID: 10, ProviderID: 1, HolderID: 7, PolicyClass: domain.HoldPolicySingle,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(100), resp.SlotID)
	})

	t.Run("hold one second before expiry still blocks", func(t *testing.T) {
		// Холд, созданный 14m59s назад с TTL 15m, ещё активен
		e := makeEnv(
			map[int64]*domain.Service{10: calendarService(10, 1)},
			[]*domain.CalendarSlot{{ID: 100, ProviderID: 1, Date: tomorrow, MaxBookings: 1}},
			[]*domain.SoftHold{{
				ID: "h-edge", SlotID: 100, Status: domain.HoldStatusActive,
				ExpiresAt: now.Add(1 * time.Second),
			}},
		)

		_, err := e.uc.Execute(context.Background(), &Request{
			ServiceID: 10, ProviderID: 1, HolderID: 7, PolicyClass: domain.HoldPolicySingle,
		})
		assert.ErrorIs(t, err, ErrNoSpareCapacity)
	})

	t.Run("skips exhausted slot and takes the next one", func(t *testing.T) {
		e := makeEnv(
			map[int64]*domain.Service{10: calendarService(10, 1)},
			[]*domain.CalendarSlot{
				{ID: 100, ProviderID: 1, Date: tomorrow, MaxBookings: 1, CurrentBookings: 1},
				{ID: 101, ProviderID: 1, Date: tomorrow.AddDate(0, 0, 1), MaxBookings: 1},
			},
			nil,
		)

		resp, err := e.uc.Execute(context.Background(), &Request{
			ServiceID: 10, ProviderID: 1, HolderID: 7, PolicyClass: domain.HoldPolicySingle,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(101), resp.SlotID)
	})

	t.Run("slot earlier today is not a candidate", func(t *testing.T) {
		// now = 12:00; утренний слот уже начался и будущим не считается
		today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
		morning, _ := types.NewTimeStringFromString("09:00")
		evening, _ := types.NewTimeStringFromString("18:00")

		e := makeEnv(
			map[int64]*domain.Service{10: calendarService(10, 1)},
			[]*domain.CalendarSlot{
				{ID: 100, ProviderID: 1, Date: today, StartTime: morning, MaxBookings: 2},
				{ID: 101, ProviderID: 1, Date: today, StartTime: evening, MaxBookings: 2},
			},
			nil,
		)

		resp, err := e.uc.Execute(context.Background(), &Request{
			ServiceID: 10, ProviderID: 1, HolderID: 7, PolicyClass: domain.HoldPolicySingle,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(101), resp.SlotID)
	})

	t.Run("capacity three with one booked admits exactly two holds", func(t *testing.T) {
		e := makeEnv(
			map[int64]*domain.Service{10: calendarService(10, 1)},
			[]*domain.CalendarSlot{{ID: 100, ProviderID: 1, Date: tomorrow, MaxBookings: 3, CurrentBookings: 1}},
			nil,
		)

		req := &Request{ServiceID: 10, ProviderID: 1, HolderID: 7, PolicyClass: domain.HoldPolicySingle}

		_, err := e.uc.Execute(context.Background(), req)
		require.NoError(t, err)
		_, err = e.uc.Execute(context.Background(), req)
		require.NoError(t, err)
		_, err = e.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrNoSpareCapacity)

		assert.Len(t, e.holdRepo.holds, 2)
	})

	t.Run("two concurrent holders race for the last unit", func(t *testing.T) {
		e := makeEnv(
			map[int64]*domain.Service{10: calendarService(10, 1)},
			[]*domain.CalendarSlot{{ID: 100, ProviderID: 1, Date: tomorrow, MaxBookings: 1}},
			nil,
		)

		errs := make(chan error, 2)
		var wg sync.WaitGroup
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(holder int64) {
				defer wg.Done()
				_, err := e.uc.Execute(context.Background(), &Request{
					ServiceID: 10, ProviderID: 1, HolderID: holder, PolicyClass: domain.HoldPolicySingle,
				})
				errs <- err
			}(int64(i + 1))
		}
		wg.Wait()
		close(errs)

		var won, lost int
		for err := range errs {
			if err == nil {
				won++
			} else {
				require.ErrorIs(t, err, ErrNoSpareCapacity)
				lost++
			}
		}
		assert.Equal(t, 1, won)
		assert.Equal(t, 1, lost)
		assert.Len(t, e.holdRepo.holds, 1)
	})

	t.Run("service errors", func(t *testing.T) {
		slots := []*domain.CalendarSlot{{ID: 100, ProviderID: 1, Date: tomorrow, MaxBookings: 5}}

		hidden := calendarService(11, 1)
		hidden.IsVisible = false

		noCalendar := calendarService(12, 1)
		noCalendar.RequiresCalendar = false

		e := makeEnv(
			map[int64]*domain.Service{
				10: calendarService(10, 1),
				11: hidden,
				12: noCalendar,
			},
			slots,
			nil,
		)

		cases := []struct {
			name      string
			serviceID int64
			provider  int64
			wantErr   error
		}{
			{"unknown service", 99, 1, ErrServiceNotFound},
			{"foreign provider", 10, 2, ErrServiceNotFound},
			{"hidden service", 11, 1, ErrServiceNotBookable},
			{"service without calendar", 12, 1, ErrServiceWithoutCalendar},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := e.uc.Execute(context.Background(), &Request{
					ServiceID: tc.serviceID, ProviderID: tc.provider, HolderID: 7,
					PolicyClass: domain.HoldPolicySingle,
				})
				assert.ErrorIs(t, err, tc.wantErr)
			})
		}
	})

	t.Run("rejects unknown policy class", func(t *testing.T) {
		e := makeEnv(map[int64]*domain.Service{}, nil, nil)

		_, err := e.uc.Execute(context.Background(), &Request{
			ServiceID: 10, ProviderID: 1, HolderID: 7, PolicyClass: "weekly",
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
