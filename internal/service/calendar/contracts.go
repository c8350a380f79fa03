package calendar

import (
	"context"
	"time"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
)

// SlotRepository интерфейс хранилища слотов
type SlotRepository interface {
	Upsert(ctx context.Context, slot *domain.CalendarSlot) (*domain.CalendarSlot, error)
	GetByProvider(ctx context.Context, providerID int64, date *time.Time) ([]*domain.CalendarSlot, error)
}

// CatalogRepository интерфейс хранилища каталога
type CatalogRepository interface {
	EnsureProvider(ctx context.Context, providerID int64) error
}

// AvailabilityInvalidator сброс кеша доступности поставщика
type AvailabilityInvalidator interface {
	InvalidateProvider(ctx context.Context, providerID int64)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
