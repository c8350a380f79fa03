package availability

import (
	"context"
	"time"
)

// Noop заглушка кеша для конфигураций без Redis.
// Каждый вызов Get — cache miss, доступность считается заново.
type Noop struct{}

// NewNoop создает кеш-заглушку
func NewNoop() *Noop {
	return &Noop{}
}

func (*Noop) Get(_ context.Context, _, _ int64) (*bool, error) {
	return nil, nil
}

func (*Noop) Set(_ context.Context, _, _ int64, _ bool, _ time.Duration) error {
	return nil
}

func (*Noop) InvalidateProvider(_ context.Context, _ int64) error {
	return nil
}
