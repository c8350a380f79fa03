package upsert_slot

import (
	"context"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
)

type CalendarService interface {
	UpsertSlot(ctx context.Context, slot *domain.CalendarSlot) (*domain.CalendarSlot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
