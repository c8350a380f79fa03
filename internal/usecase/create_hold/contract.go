package create_hold

import (
	"context"
	"time"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
)

// SlotRepository интерфейс хранилища слотов
type SlotRepository interface {
	ListUpcoming(ctx context.Context, providerID int64, now time.Time, limit uint64) ([]*domain.CalendarSlot, error)
}

// HoldRepository интерфейс хранилища холдов
type HoldRepository interface {
	Create(ctx context.Context, hold *domain.SoftHold) error
	CountActive(ctx context.Context, slotID int64, now time.Time) (int, error)
}

// ServiceRepository интерфейс реестра услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// AvailabilityInvalidator сброс кеша доступности поставщика
type AvailabilityInvalidator interface {
	InvalidateProvider(ctx context.Context, providerID int64)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Clock интерфейс для получения текущего времени
type Clock interface {
	Now() time.Time
}

// Metrics счётчики холдов
type Metrics interface {
	IncHoldCreated()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// NopMetrics заглушка метрик для конфигураций с выключенным prometheus
type NopMetrics struct{}

func (NopMetrics) IncHoldCreated() {}
