package commit_hold

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
	holdsRepo "github.com/m04kA/EVM-AvailabilityService/internal/infra/storage/holds"
)

// UseCase use case коммита холда в подтверждённое бронирование.
// Весь переход атомарен: проверка владения и срока, инкремент занятости
// слота, смена статуса холда и запись бронирования выполняются в одной
// serializable-транзакции.
type UseCase struct {
	holdRepo    HoldRepository
	slotRepo    SlotRepository
	bookingRepo BookingRepository
	invalidator AvailabilityInvalidator
	txManager   TransactionManager
	clock       Clock
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	holdRepo HoldRepository,
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	invalidator AvailabilityInvalidator,
	txManager TransactionManager,
	clk Clock,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		holdRepo:    holdRepo,
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
		invalidator: invalidator,
		txManager:   txManager,
		clock:       clk,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute выполняет use case коммита холда
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CommitHold: hold=%s, holder=%d", req.HoldID, req.HolderID)

	// 1. Валидация входных данных
	if req.HoldID == "" || req.HolderID <= 0 {
		uc.logger.Warn("CommitHold: invalid input: hold=%q, holder=%d", req.HoldID, req.HolderID)
		return nil, ErrInvalidInput
	}

	// 2. Единый момент времени для проверки срока холда
	now := uc.clock.Now()

	var result *Response
	var providerID int64

	// 3. Выполняем переход в serializable-транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Загружаем холд (FOR UPDATE внутри транзакции)
		hold, err := uc.holdRepo.GetByID(txCtx, req.HoldID)
		if err != nil {
			if errors.Is(err, holdsRepo.ErrHoldNotFound) {
				return ErrHoldNotFound
			}
			uc.logger.Error("CommitHold: failed to get hold id=%s: %v", req.HoldID, err)
			return fmt.Errorf("%w: failed to get hold: %v", ErrInternal, err)
		}

		// 3.2. Коммитить может только создатель холда
		if !hold.IsOwnedBy(req.HolderID) {
			uc.logger.Warn("CommitHold: hold id=%s owned by holder=%d, requested by holder=%d",
				hold.ID, hold.HolderID, req.HolderID)
			return ErrHoldNotOwned
		}

		// 3.3. Коммит валиден только пока now < expires_at
		if !hold.CanCommitAt(now) {
			uc.logger.Warn("CommitHold: hold id=%s not committable: status=%s, expires_at=%s",
				hold.ID, hold.Status, hold.ExpiresAt)
			return ErrHoldExpired
		}

		providerID = hold.ProviderID

		// 3.4. Слот нужен для денормализации данных бронирования
		slot, err := uc.slotRepo.GetByIDForUpdate(txCtx, hold.SlotID)
		if err != nil {
			uc.logger.Error("CommitHold: failed to get slot id=%d: %v", hold.SlotID, err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		// 3.5. Защитная проверка: холд резервировал единицу, но вместимость
		// могла быть урезана администратором. Перебронирование недопустимо —
		// транзакция прерывается целиком.
		incremented, err := uc.slotRepo.TryIncrementOccupancy(txCtx, slot.ID)
		if err != nil {
			uc.logger.Error("CommitHold: failed to increment occupancy for slot=%d: %v", slot.ID, err)
			return fmt.Errorf("%w: failed to increment occupancy: %v", ErrInternal, err)
		}
		if !incremented {
			uc.logger.Error("CommitHold: capacity violated on slot=%d for hold=%s (current=%d, max=%d)",
				slot.ID, hold.ID, slot.CurrentBookings, slot.MaxBookings)
			return ErrCapacityViolated
		}

		// 3.6. Холд переходит в терминальный статус committed
		if err := uc.holdRepo.TransitionStatus(txCtx, hold.ID, domain.HoldStatusActive, domain.HoldStatusCommitted); err != nil {
			uc.logger.Error("CommitHold: failed to transition hold id=%s: %v", hold.ID, err)
			return fmt.Errorf("%w: failed to transition hold: %v", ErrInternal, err)
		}

		// 3.7. Создаем подтверждённое бронирование с денормализацией слота
		booking := &domain.Booking{
			HoldID:        hold.ID,
			ServiceID:     hold.ServiceID,
			ProviderID:    hold.ProviderID,
			SlotID:        slot.ID,
			HolderID:      hold.HolderID,
			SlotDate:      slot.Date,
			SlotStartTime: slot.StartTime,
			SlotEndTime:   slot.EndTime,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CommitHold: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = &Response{
			BookingID:  created.ID,
			HoldID:     hold.ID,
			ServiceID:  hold.ServiceID,
			ProviderID: hold.ProviderID,
			SlotID:     slot.ID,
			SlotDate:   slot.Date,
			StartTime:  slot.StartTime,
			EndTime:    slot.EndTime,
			CreatedAt:  created.CreatedAt,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	// 4. Занятость слота изменилась — сбрасываем кеш доступности
	uc.invalidator.InvalidateProvider(ctx, providerID)
	uc.metrics.IncHoldCommitted()

	uc.logger.Info("CommitHold: hold id=%s committed into booking id=%d", req.HoldID, result.BookingID)

	return result, nil
}
