package register_service

import (
	"context"

	registerService "github.com/m04kA/EVM-AvailabilityService/internal/usecase/register_service"
)

type RegisterServiceUseCase interface {
	Execute(ctx context.Context, req *registerService.Request) (*registerService.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
