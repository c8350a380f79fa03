package availability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
	availabilityCache "github.com/m04kA/EVM-AvailabilityService/internal/infra/cache/availability"
	catalogRepo "github.com/m04kA/EVM-AvailabilityService/internal/infra/storage/catalog"
	servicesRepo "github.com/m04kA/EVM-AvailabilityService/internal/infra/storage/services"
	"github.com/m04kA/EVM-AvailabilityService/pkg/clock"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeServiceRepo struct {
	services map[int64]*domain.Service
	calls    int
}

func (f *fakeServiceRepo) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	f.calls++
	svc, ok := f.services[id]
	if !ok {
		return nil, servicesRepo.ErrServiceNotFound
	}
	return svc, nil
}

type fakeSlotRepo struct {
	spareByProvider map[int64]bool
}

func (f *fakeSlotRepo) AnyWithSpareCapacity(_ context.Context, providerID int64, _, _ time.Time) (bool, error) {
	return f.spareByProvider[providerID], nil
}

type fakeHoldRepo struct {
	expiryByProvider map[int64]time.Time
}

func (f *fakeHoldRepo) EarliestActiveExpiry(_ context.Context, providerID int64, _ time.Time) (*time.Time, error) {
	expiry, ok := f.expiryByProvider[providerID]
	if !ok {
		return nil, nil
	}
	return &expiry, nil
}

type fakeCatalogRepo struct {
	providers map[int64]*domain.Provider
}

func (f *fakeCatalogRepo) GetProvider(_ context.Context, providerID int64) (*domain.Provider, error) {
	p, ok := f.providers[providerID]
	if !ok {
		return nil, catalogRepo.ErrProviderNotFound
	}
	return p, nil
}

func activeProviders(ids ...int64) *fakeCatalogRepo {
	providers := make(map[int64]*domain.Provider, len(ids))
	for _, id := range ids {
		providers[id] = &domain.Provider{ID: id, IsVerified: true, IsActive: true}
	}
	return &fakeCatalogRepo{providers: providers}
}

// memCache хранит решения в памяти, как Redis-кеш с явной инвалидацией.
// TTL записей запоминается для проверок, само истечение не моделируется.
type memCache struct {
	values map[string]bool
	ttls   map[string]time.Duration
}

func newMemCache() *memCache {
	return &memCache{
		values: make(map[string]bool),
		ttls:   make(map[string]time.Duration),
	}
}

func (c *memCache) key(serviceID, providerID int64) string {
	return fmt.Sprintf("%d:%d", serviceID, providerID)
}

func (c *memCache) Get(_ context.Context, serviceID, providerID int64) (*bool, error) {
	v, ok := c.values[c.key(serviceID, providerID)]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (c *memCache) Set(_ context.Context, serviceID, providerID int64, available bool, ttl time.Duration) error {
	key := c.key(serviceID, providerID)
	c.values[key] = available
	c.ttls[key] = ttl
	return nil
}

func (c *memCache) InvalidateProvider(_ context.Context, _ int64) error {
	c.values = make(map[string]bool)
	c.ttls = make(map[string]time.Duration)
	return nil
}

func svc(id, providerID int64, visible, calendar bool) *domain.Service {
	return &domain.Service{
		ID:               id,
		ProviderID:       providerID,
		RequiresCalendar: calendar,
		IsVisible:        visible,
	}
}

func TestIsServiceAvailable(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	makeService := func(services map[int64]*domain.Service, spare map[int64]bool, cache Cache) (*Service, *fakeServiceRepo) {
		repo := &fakeServiceRepo{services: services}
		s := NewService(repo, &fakeSlotRepo{spareByProvider: spare}, &fakeHoldRepo{}, activeProviders(1, 2), cache, clock.NewFixed(now), nopLogger{})
		return s, repo
	}

	t.Run("visible calendar service with spare capacity", func(t *testing.T) {
		s, _ := makeService(
			map[int64]*domain.Service{10: svc(10, 1, true, true)},
			map[int64]bool{1: true},
			availabilityCache.NewNoop(),
		)

		available, err := s.IsServiceAvailable(context.Background(), 10, 1)
		require.NoError(t, err)
		assert.True(t, available)
	})

	t.Run("fail closed on zero slots", func(t *testing.T) {
		s, _ := makeService(
			map[int64]*domain.Service{10: svc(10, 1, true, true)},
			map[int64]bool{},
			availabilityCache.NewNoop(),
		)

		available, err := s.IsServiceAvailable(context.Background(), 10, 1)
		require.NoError(t, err)
		assert.False(t, available)
	})

	t.Run("unregistered service is unavailable", func(t *testing.T) {
		s, _ := makeService(map[int64]*domain.Service{}, map[int64]bool{1: true}, availabilityCache.NewNoop())

		available, err := s.IsServiceAvailable(context.Background(), 99, 1)
		require.NoError(t, err)
		assert.False(t, available)
	})

	t.Run("provider mismatch is unavailable", func(t *testing.T) {
		s, _ := makeService(
			map[int64]*domain.Service{10: svc(10, 1, true, true)},
			map[int64]bool{1: true, 2: true},
			availabilityCache.NewNoop(),
		)

		available, err := s.IsServiceAvailable(context.Background(), 10, 2)
		require.NoError(t, err)
		assert.False(t, available)
	})

	t.Run("hidden service is unavailable", func(t *testing.T) {
		s, _ := makeService(
			map[int64]*domain.Service{10: svc(10, 1, false, true)},
			map[int64]bool{1: true},
			availabilityCache.NewNoop(),
		)

		available, err := s.IsServiceAvailable(context.Background(), 10, 1)
		require.NoError(t, err)
		assert.False(t, available)
	})

	t.Run("non calendar service skips slot check", func(t *testing.T) {
		s, _ := makeService(
			map[int64]*domain.Service{10: svc(10, 1, true, false)},
			map[int64]bool{},
			availabilityCache.NewNoop(),
		)

		available, err := s.IsServiceAvailable(context.Background(), 10, 1)
		require.NoError(t, err)
		assert.True(t, available)
	})

	t.Run("inactive provider is unavailable", func(t *testing.T) {
		repo := &fakeServiceRepo{services: map[int64]*domain.Service{10: svc(10, 1, true, true)}}
		catalog := &fakeCatalogRepo{providers: map[int64]*domain.Provider{
			1: {ID: 1, IsVerified: true, IsActive: false},
		}}
		s := NewService(repo, &fakeSlotRepo{spareByProvider: map[int64]bool{1: true}}, &fakeHoldRepo{}, catalog,
			availabilityCache.NewNoop(), clock.NewFixed(now), nopLogger{})

		available, err := s.IsServiceAvailable(context.Background(), 10, 1)
		require.NoError(t, err)
		assert.False(t, available)
	})

	t.Run("unknown provider is unavailable", func(t *testing.T) {
		repo := &fakeServiceRepo{services: map[int64]*domain.Service{10: svc(10, 1, true, true)}}
		s := NewService(repo, &fakeSlotRepo{spareByProvider: map[int64]bool{1: true}}, &fakeHoldRepo{}, &fakeCatalogRepo{providers: map[int64]*domain.Provider{}},
			availabilityCache.NewNoop(), clock.NewFixed(now), nopLogger{})

		available, err := s.IsServiceAvailable(context.Background(), 10, 1)
		require.NoError(t, err)
		assert.False(t, available)
	})

	t.Run("hold-bounded negative decision expires with the hold", func(t *testing.T) {
		// Вместимость разобрана холдом: запись false живёт не дольше
		// его expires_at, иначе после истечения услуга осталась бы
		// скрытой навсегда — истечение не даёт события инвалидации
		cache := newMemCache()
		repo := &fakeServiceRepo{services: map[int64]*domain.Service{10: svc(10, 1, true, true)}}
		holds := &fakeHoldRepo{expiryByProvider: map[int64]time.Time{1: now.Add(10 * time.Minute)}}
		s := NewService(repo, &fakeSlotRepo{spareByProvider: map[int64]bool{}}, holds, activeProviders(1),
			cache, clock.NewFixed(now), nopLogger{})

		available, err := s.IsServiceAvailable(context.Background(), 10, 1)
		require.NoError(t, err)
		assert.False(t, available)
		assert.Equal(t, 10*time.Minute, cache.ttls["10:1"])
	})

	t.Run("negative decision without holds is cached until invalidation", func(t *testing.T) {
		cache := newMemCache()
		s, _ := makeService(
			map[int64]*domain.Service{10: svc(10, 1, true, true)},
			map[int64]bool{},
			cache,
		)

		available, err := s.IsServiceAvailable(context.Background(), 10, 1)
		require.NoError(t, err)
		assert.False(t, available)
		assert.Equal(t, time.Duration(0), cache.ttls["10:1"])
	})

	t.Run("cached decision short-circuits computation", func(t *testing.T) {
		cache := newMemCache()
		s, repo := makeService(
			map[int64]*domain.Service{10: svc(10, 1, true, true)},
			map[int64]bool{1: true},
			cache,
		)

		_, err := s.IsServiceAvailable(context.Background(), 10, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, repo.calls)

		_, err = s.IsServiceAvailable(context.Background(), 10, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, repo.calls)

		// После инвалидации решение считается заново
		s.InvalidateProvider(context.Background(), 1)
		_, err = s.IsServiceAvailable(context.Background(), 10, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, repo.calls)
	})
}

func TestFilterAvailableServices(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	repo := &fakeServiceRepo{services: map[int64]*domain.Service{
		10: svc(10, 1, true, true),
		11: svc(11, 1, false, true),
		12: svc(12, 2, true, true),
		13: svc(13, 1, true, false),
	}}
	slots := &fakeSlotRepo{spareByProvider: map[int64]bool{1: true}}
	s := NewService(repo, slots, &fakeHoldRepo{}, activeProviders(1, 2), availabilityCache.NewNoop(), clock.NewFixed(now), nopLogger{})

	t.Run("drops unavailable and preserves order", func(t *testing.T) {
		candidates := []domain.ServiceRef{
			{ServiceID: 13, ProviderID: 1},
			{ServiceID: 11, ProviderID: 1}, // скрыта
			{ServiceID: 10, ProviderID: 1},
			{ServiceID: 12, ProviderID: 2}, // у поставщика 2 нет слотов
			{ServiceID: 99, ProviderID: 1}, // не зарегистрирована
		}

		filtered, err := s.FilterAvailableServices(context.Background(), candidates)
		require.NoError(t, err)

		assert.Equal(t, []domain.ServiceRef{
			{ServiceID: 13, ProviderID: 1},
			{ServiceID: 10, ProviderID: 1},
		}, filtered)
	})

	t.Run("empty candidate list yields empty result", func(t *testing.T) {
		filtered, err := s.FilterAvailableServices(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, filtered)
	})
}
