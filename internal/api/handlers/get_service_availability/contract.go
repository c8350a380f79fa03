package get_service_availability

import "context"

type AvailabilityService interface {
	IsServiceAvailable(ctx context.Context, serviceID, providerID int64) (bool, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
