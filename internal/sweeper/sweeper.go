package sweeper

import (
	"context"
	"time"
)

// HoldRepository интерфейс хранилища холдов
type HoldRepository interface {
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// Clock интерфейс для получения текущего времени
type Clock interface {
	Now() time.Time
}

// Metrics счётчики холдов
type Metrics interface {
	AddHoldsExpired(n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// NopMetrics заглушка метрик для конфигураций с выключенным prometheus
type NopMetrics struct{}

func (NopMetrics) AddHoldsExpired(n int) {}

// Sweeper фоновая уборка давно истёкших холдов.
// Корректность от него не зависит: истечение учитывается лениво
// условием expires_at > now во всех выборках. Sweeper лишь возвращает
// строки, чтобы таблица не росла бесконечно.
type Sweeper struct {
	holdRepo HoldRepository
	clock    Clock
	interval time.Duration
	grace    time.Duration
	metrics  Metrics
	logger   Logger
}

// New создает новый экземпляр sweeper.
// grace — дополнительная задержка после истечения, чтобы не удалять
// холды, по которым ещё могут прийти запросы на commit/release.
func New(
	holdRepo HoldRepository,
	clk Clock,
	interval time.Duration,
	grace time.Duration,
	metrics Metrics,
	logger Logger,
) *Sweeper {
	return &Sweeper{
		holdRepo: holdRepo,
		clock:    clk,
		interval: interval,
		grace:    grace,
		metrics:  metrics,
		logger:   logger,
	}
}

// Run запускает цикл уборки до отмены контекста
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("Sweeper: started (interval=%s, grace=%s)", s.interval, s.grace)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Sweeper: stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	before := s.clock.Now().Add(-s.grace)

	deleted, err := s.holdRepo.DeleteExpired(ctx, before)
	if err != nil {
		s.logger.Error("Sweeper: failed to delete expired holds: %v", err)
		return
	}

	if deleted > 0 {
		s.metrics.AddHoldsExpired(int(deleted))
		s.logger.Info("Sweeper: reclaimed %d expired holds", deleted)
	}
}
