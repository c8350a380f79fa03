package cancel_booking

import (
	"context"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
)

// BookingRepository интерфейс хранилища бронирований
type BookingRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error)
	Delete(ctx context.Context, id int64) error
}

// SlotRepository интерфейс хранилища слотов
type SlotRepository interface {
	DecrementOccupancy(ctx context.Context, id int64) error
}

// AvailabilityInvalidator сброс кеша доступности поставщика
type AvailabilityInvalidator interface {
	InvalidateProvider(ctx context.Context, providerID int64)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счётчики бронирований
type Metrics interface {
	IncBookingCancelled()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// NopMetrics заглушка метрик для конфигураций с выключенным prometheus
type NopMetrics struct{}

func (NopMetrics) IncBookingCancelled() {}
