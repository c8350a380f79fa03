package commit_hold

import (
	"context"
	"time"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
)

// HoldRepository интерфейс хранилища холдов
type HoldRepository interface {
	GetByID(ctx context.Context, id string) (*domain.SoftHold, error)
	TransitionStatus(ctx context.Context, id string, from, to domain.HoldStatus) error
}

// SlotRepository интерфейс хранилища слотов
type SlotRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.CalendarSlot, error)
	TryIncrementOccupancy(ctx context.Context, id int64) (bool, error)
}

// BookingRepository интерфейс хранилища подтверждённых бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
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
	IncHoldCommitted()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// NopMetrics заглушка метрик для конфигураций с выключенным prometheus
type NopMetrics struct{}

func (NopMetrics) IncHoldCommitted() {}
