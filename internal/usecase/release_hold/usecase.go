package release_hold

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
	holdsRepo "github.com/m04kA/EVM-AvailabilityService/internal/infra/storage/holds"
)

// UseCase use case явного освобождения софт-холда.
// Операция идемпотентна: повторное освобождение, освобождение
// несуществующего или уже терминального холда не считаются ошибкой.
type UseCase struct {
	holdRepo    HoldRepository
	invalidator AvailabilityInvalidator
	txManager   TransactionManager
	clock       Clock
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	holdRepo HoldRepository,
	invalidator AvailabilityInvalidator,
	txManager TransactionManager,
	clk Clock,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		holdRepo:    holdRepo,
		invalidator: invalidator,
		txManager:   txManager,
		clock:       clk,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute выполняет use case освобождения холда
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReleaseHold: hold=%s, holder=%d", req.HoldID, req.HolderID)

	// 1. Валидация входных данных
	if req.HoldID == "" || req.HolderID <= 0 {
		uc.logger.Warn("ReleaseHold: invalid input: hold=%q, holder=%d", req.HoldID, req.HolderID)
		return nil, ErrInvalidInput
	}

	now := uc.clock.Now()
	released := false
	var providerID int64

	// 2. Переход статуса выполняется в serializable-транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Загружаем холд (FOR UPDATE внутри транзакции)
		hold, err := uc.holdRepo.GetByID(txCtx, req.HoldID)
		if err != nil {
			if errors.Is(err, holdsRepo.ErrHoldNotFound) {
				// Идемпотентность: неизвестный холд считается уже отпущенным
				return nil
			}
			uc.logger.Error("ReleaseHold: failed to get hold id=%s: %v", req.HoldID, err)
			return fmt.Errorf("%w: failed to get hold: %v", ErrInternal, err)
		}

		// 2.2. Отпускать может только создатель холда
		if !hold.IsOwnedBy(req.HolderID) {
			uc.logger.Warn("ReleaseHold: hold id=%s owned by holder=%d, requested by holder=%d",
				hold.ID, hold.HolderID, req.HolderID)
			return ErrHoldNotOwned
		}

		// 2.3. Просроченный холд уже терминален, даже если sweeper ещё не
		// убрал строку: его вместимость возвращена истечением, отпускать нечего
		if !hold.IsActiveAt(now) {
			return nil
		}

		providerID = hold.ProviderID

		// 2.4. Guarded-переход active -> released; конфликт статуса означает,
		// что холд уже терминален — для идемпотентности это не ошибка
		if err := uc.holdRepo.TransitionStatus(txCtx, hold.ID, domain.HoldStatusActive, domain.HoldStatusReleased); err != nil {
			if errors.Is(err, holdsRepo.ErrStatusConflict) {
				return nil
			}
			uc.logger.Error("ReleaseHold: failed to transition hold id=%s: %v", hold.ID, err)
			return fmt.Errorf("%w: failed to transition hold: %v", ErrInternal, err)
		}

		released = true
		return nil
	})

	if err != nil {
		return nil, err
	}

	// 3. Освобождённая единица вместимости снова видна — сбрасываем кеш
	if released {
		uc.invalidator.InvalidateProvider(ctx, providerID)
		uc.metrics.IncHoldReleased()
		uc.logger.Info("ReleaseHold: hold id=%s released", req.HoldID)
	}

	return &Response{Released: released}, nil
}
