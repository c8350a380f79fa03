package hierarchy

import (
	"context"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
	"github.com/m04kA/EVM-AvailabilityService/internal/infra/storage/catalog"
)

// ServiceRepository интерфейс реестра услуг
type ServiceRepository interface {
	List(ctx context.Context) ([]*domain.Service, error)
	ReassignCategory(ctx context.Context, serviceID, categoryID, subcategoryID int64) error
}

// CatalogRepository интерфейс хранилища графа каталога
type CatalogRepository interface {
	ListCategoryIDs(ctx context.Context) (map[int64]struct{}, error)
	ListSubcategories(ctx context.Context) ([]*domain.Subcategory, error)
	ListProviderSubcategoryRefs(ctx context.Context) ([]catalog.ProviderSubcategoryRef, error)
	DeleteProviderSubcategoryRef(ctx context.Context, providerID, subcategoryID int64) error
}

// Metrics счётчики починок графа
type Metrics interface {
	IncHierarchyRepair(kind string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// NopMetrics заглушка метрик для конфигураций с выключенным prometheus
type NopMetrics struct{}

func (NopMetrics) IncHierarchyRepair(string) {}
