package hierarchy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
	"github.com/m04kA/EVM-AvailabilityService/internal/infra/storage/catalog"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeServiceRepo struct {
	services []*domain.Service
}

func (f *fakeServiceRepo) List(_ context.Context) ([]*domain.Service, error) {
	return f.services, nil
}

func (f *fakeServiceRepo) ReassignCategory(_ context.Context, serviceID, categoryID, subcategoryID int64) error {
	for _, svc := range f.services {
		if svc.ID == serviceID {
			svc.CategoryID = categoryID
			svc.SubcategoryID = subcategoryID
		}
	}
	return nil
}

type fakeCatalogRepo struct {
	categories    map[int64]struct{}
	subcategories []*domain.Subcategory
	refs          []catalog.ProviderSubcategoryRef
}

func (f *fakeCatalogRepo) ListCategoryIDs(_ context.Context) (map[int64]struct{}, error) {
	return f.categories, nil
}

func (f *fakeCatalogRepo) ListSubcategories(_ context.Context) ([]*domain.Subcategory, error) {
	return f.subcategories, nil
}

func (f *fakeCatalogRepo) ListProviderSubcategoryRefs(_ context.Context) ([]catalog.ProviderSubcategoryRef, error) {
	return f.refs, nil
}

func (f *fakeCatalogRepo) DeleteProviderSubcategoryRef(_ context.Context, providerID, subcategoryID int64) error {
	kept := f.refs[:0]
	for _, ref := range f.refs {
		if ref.ProviderID != providerID || ref.SubcategoryID != subcategoryID {
			kept = append(kept, ref)
		}
	}
	f.refs = kept
	return nil
}

func TestValidate(t *testing.T) {
	t.Parallel()

	// Граф: категории 1 (uncategorized) и 2; подкатегории 1 -> 1, 20 -> 2
	makeCatalog := func(refs ...catalog.ProviderSubcategoryRef) *fakeCatalogRepo {
		return &fakeCatalogRepo{
			categories: map[int64]struct{}{domain.UncategorizedID: {}, 2: {}},
			subcategories: []*domain.Subcategory{
				{ID: domain.UncategorizedID, CategoryID: domain.UncategorizedID},
				{ID: 20, CategoryID: 2},
			},
			refs: refs,
		}
	}

	t.Run("intact graph has nothing to repair", func(t *testing.T) {
		services := &fakeServiceRepo{services: []*domain.Service{
			{ID: 10, CategoryID: 2, SubcategoryID: 20},
		}}
		v := NewValidator(services, makeCatalog(catalog.ProviderSubcategoryRef{ProviderID: 1, SubcategoryID: 20}), NopMetrics{}, nopLogger{})

		report, err := v.Validate(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 1, report.ServicesChecked)
		assert.Zero(t, report.ServicesReassigned)
		assert.Zero(t, report.ProviderRefsPruned)
		assert.Empty(t, report.Repairs)
	})

	t.Run("dangling category reassigns service to uncategorized", func(t *testing.T) {
		services := &fakeServiceRepo{services: []*domain.Service{
			{ID: 10, CategoryID: 99, SubcategoryID: 20},
		}}
		v := NewValidator(services, makeCatalog(), NopMetrics{}, nopLogger{})

		report, err := v.Validate(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 1, report.ServicesReassigned)
		assert.Equal(t, domain.UncategorizedID, services.services[0].CategoryID)
		assert.Equal(t, domain.UncategorizedID, services.services[0].SubcategoryID)
		require.Len(t, report.Repairs, 1)
		assert.Equal(t, RepairServiceReassigned, report.Repairs[0].Kind)
	})

	t.Run("dangling subcategory reassigns service", func(t *testing.T) {
		services := &fakeServiceRepo{services: []*domain.Service{
			{ID: 10, CategoryID: 2, SubcategoryID: 77},
		}}
		v := NewValidator(services, makeCatalog(), NopMetrics{}, nopLogger{})

		report, err := v.Validate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, report.ServicesReassigned)
	})

	t.Run("subcategory under wrong parent reassigns service", func(t *testing.T) {
		// Подкатегория 20 принадлежит категории 2, услуга ссылается на 1
		services := &fakeServiceRepo{services: []*domain.Service{
			{ID: 10, CategoryID: domain.UncategorizedID, SubcategoryID: 20},
		}}
		v := NewValidator(services, makeCatalog(), NopMetrics{}, nopLogger{})

		report, err := v.Validate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, report.ServicesReassigned)
	})

	t.Run("provider ref to missing subcategory is pruned", func(t *testing.T) {
		catalogRepo := makeCatalog(
			catalog.ProviderSubcategoryRef{ProviderID: 1, SubcategoryID: 20},
			catalog.ProviderSubcategoryRef{ProviderID: 1, SubcategoryID: 55},
		)
		v := NewValidator(&fakeServiceRepo{}, catalogRepo, NopMetrics{}, nopLogger{})

		report, err := v.Validate(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 1, report.ProviderRefsPruned)
		require.Len(t, catalogRepo.refs, 1)
		assert.Equal(t, int64(20), catalogRepo.refs[0].SubcategoryID)
	})
}
