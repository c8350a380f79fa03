package release_hold

import (
	"context"

	releaseHold "github.com/m04kA/EVM-AvailabilityService/internal/usecase/release_hold"
)

type ReleaseHoldUseCase interface {
	Execute(ctx context.Context, req *releaseHold.Request) (*releaseHold.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
