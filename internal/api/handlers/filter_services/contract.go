package filter_services

import (
	"context"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
)

type AvailabilityService interface {
	FilterAvailableServices(ctx context.Context, candidates []domain.ServiceRef) ([]domain.ServiceRef, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
