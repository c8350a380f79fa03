package bookings

import (
	"context"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
)

// BookingRepository интерфейс хранилища подтверждённых бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
