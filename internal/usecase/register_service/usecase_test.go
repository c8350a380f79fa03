package register_service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
	catalogRepo "github.com/m04kA/EVM-AvailabilityService/internal/infra/storage/catalog"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeServiceRepo struct {
	services map[int64]*domain.Service
}

func (f *fakeServiceRepo) Upsert(_ context.Context, svc *domain.Service) (*domain.Service, error) {
	if existing, ok := f.services[svc.ID]; ok {
		svc.CreatedAt = existing.CreatedAt
	} else {
		svc.CreatedAt = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	}
	svc.UpdatedAt = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	f.services[svc.ID] = svc
	return svc, nil
}

type fakeCatalogRepo struct {
	categories    map[int64]struct{}
	subcategories map[int64]*domain.Subcategory
	providers     map[int64]struct{}
}

func (f *fakeCatalogRepo) EnsureProvider(_ context.Context, providerID int64) error {
	f.providers[providerID] = struct{}{}
	return nil
}

func (f *fakeCatalogRepo) CategoryExists(_ context.Context, categoryID int64) (bool, error) {
	_, ok := f.categories[categoryID]
	return ok, nil
}

func (f *fakeCatalogRepo) GetSubcategory(_ context.Context, subcategoryID int64) (*domain.Subcategory, error) {
	sub, ok := f.subcategories[subcategoryID]
	if !ok {
		return nil, catalogRepo.ErrSubcategoryNotFound
	}
	return sub, nil
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

func TestRegisterService(t *testing.T) {
	t.Parallel()

	makeEnv := func() (*UseCase, *fakeServiceRepo, *fakeCatalogRepo, *fakeInvalidator) {
		serviceRepo := &fakeServiceRepo{services: map[int64]*domain.Service{}}
		catalog := &fakeCatalogRepo{
			categories: map[int64]struct{}{2: {}},
			subcategories: map[int64]*domain.Subcategory{
				20: {ID: 20, CategoryID: 2},
			},
			providers: map[int64]struct{}{},
		}
		invalidator := &fakeInvalidator{}
		uc := NewUseCase(serviceRepo, catalog, invalidator, &fakeTxManager{}, nopLogger{})
		return uc, serviceRepo, catalog, invalidator
	}

	validReq := func() *Request {
		return &Request{
			ServiceID:             10,
			ProviderID:            1,
			CategoryID:            2,
			SubcategoryID:         20,
			IsAvailable:           true,
			HasCalendar:           true,
			MaxConcurrentBookings: 5,
		}
	}

	t.Run("registers service and anchors provider", func(t *testing.T) {
		uc, repo, catalog, invalidator := makeEnv()

		resp, err := uc.Execute(context.Background(), validReq())
		require.NoError(t, err)

		assert.Equal(t, int64(10), resp.ServiceID)
		assert.True(t, resp.IsAvailable)
		assert.Contains(t, repo.services, int64(10))
		assert.Contains(t, catalog.providers, int64(1))
		assert.Equal(t, []int64{1}, invalidator.calls)
	})

	t.Run("re-registration replaces the policy", func(t *testing.T) {
		uc, repo, _, _ := makeEnv()

		_, err := uc.Execute(context.Background(), validReq())
		require.NoError(t, err)

		updated := validReq()
		updated.IsAvailable = false
		updated.MaxConcurrentBookings = 2

		resp, err := uc.Execute(context.Background(), updated)
		require.NoError(t, err)

		assert.False(t, resp.IsAvailable)
		assert.Equal(t, 2, resp.MaxConcurrentBookings)
		assert.False(t, repo.services[10].IsVisible)
	})

	t.Run("unknown category", func(t *testing.T) {
		uc, _, _, _ := makeEnv()

		req := validReq()
		req.CategoryID = 99

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})

	t.Run("unknown subcategory", func(t *testing.T) {
		uc, _, _, _ := makeEnv()

		req := validReq()
		req.SubcategoryID = 77

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrSubcategoryNotFound)
	})

	t.Run("subcategory under another category", func(t *testing.T) {
		uc, _, catalog, _ := makeEnv()
		catalog.categories[3] = struct{}{}

		req := validReq()
		req.CategoryID = 3

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrSubcategoryMismatch)
	})

	t.Run("validation failures", func(t *testing.T) {
		uc, _, _, _ := makeEnv()

		cases := []struct {
			name   string
			mutate func(*Request)
		}{
			{"zero service id", func(r *Request) { r.ServiceID = 0 }},
			{"zero provider id", func(r *Request) { r.ProviderID = 0 }},
			{"zero category id", func(r *Request) { r.CategoryID = 0 }},
			{"zero subcategory id", func(r *Request) { r.SubcategoryID = 0 }},
			{"zero concurrency", func(r *Request) { r.MaxConcurrentBookings = 0 }},
			{"excessive concurrency", func(r *Request) { r.MaxConcurrentBookings = domain.MaxConcurrentBookings + 1 }},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				req := validReq()
				tc.mutate(req)

				_, err := uc.Execute(context.Background(), req)
				assert.ErrorIs(t, err, ErrInvalidInput)
			})
		}
	})
}
