package commit_hold

import (
	"context"

	commitHold "github.com/m04kA/EVM-AvailabilityService/internal/usecase/commit_hold"
)

type CommitHoldUseCase interface {
	Execute(ctx context.Context, req *commitHold.Request) (*commitHold.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
