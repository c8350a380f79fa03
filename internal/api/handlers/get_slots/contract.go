package get_slots

import (
	"context"
	"time"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
)

type CalendarService interface {
	GetProviderSlots(ctx context.Context, providerID int64, date *time.Time) ([]*domain.CalendarSlot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
