package availability

import (
	"context"
	"time"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
)

// ServiceRepository интерфейс реестра услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// SlotRepository интерфейс хранилища слотов
type SlotRepository interface {
	AnyWithSpareCapacity(ctx context.Context, providerID int64, fromDate, now time.Time) (bool, error)
}

// HoldRepository интерфейс хранилища холдов
type HoldRepository interface {
	EarliestActiveExpiry(ctx context.Context, providerID int64, now time.Time) (*time.Time, error)
}

// CatalogRepository интерфейс хранилища каталога
type CatalogRepository interface {
	GetProvider(ctx context.Context, providerID int64) (*domain.Provider, error)
}

// Cache кеш вычисленной доступности с явной инвалидацией.
// ttl > 0 ограничивает жизнь записи, ttl == 0 — до инвалидации.
type Cache interface {
	Get(ctx context.Context, serviceID, providerID int64) (*bool, error)
	Set(ctx context.Context, serviceID, providerID int64, available bool, ttl time.Duration) error
	InvalidateProvider(ctx context.Context, providerID int64) error
}

// Clock интерфейс для получения текущего времени
type Clock interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
