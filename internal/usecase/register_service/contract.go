package register_service

import (
	"context"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
)

// ServiceRepository интерфейс хранилища услуг
type ServiceRepository interface {
	Upsert(ctx context.Context, svc *domain.Service) (*domain.Service, error)
}

// CatalogRepository интерфейс хранилища каталога
type CatalogRepository interface {
	EnsureProvider(ctx context.Context, providerID int64) error
	CategoryExists(ctx context.Context, categoryID int64) (bool, error)
	GetSubcategory(ctx context.Context, subcategoryID int64) (*domain.Subcategory, error)
}

// AvailabilityInvalidator сброс кеша доступности поставщика
type AvailabilityInvalidator interface {
	InvalidateProvider(ctx context.Context, providerID int64)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
