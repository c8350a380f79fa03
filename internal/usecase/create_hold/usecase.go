package create_hold

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
	servicesRepo "github.com/m04kA/EVM-AvailabilityService/internal/infra/storage/services"
)

// Сколько ближайших слотов просматривается в поиске свободной вместимости
const candidateSlotLimit = 32

// UseCase use case для создания софт-холда.
// Проверка свободной вместимости и запись холда выполняются в одной
// serializable-транзакции с блокировкой строк слотов: два держателя не
// могут одновременно увидеть spare=1 и оба преуспеть.
type UseCase struct {
	slotRepo    SlotRepository
	holdRepo    HoldRepository
	serviceRepo ServiceRepository
	invalidator AvailabilityInvalidator
	txManager   TransactionManager
	clock       Clock
	ttl         domain.HoldTTLSchedule
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	holdRepo HoldRepository,
	serviceRepo ServiceRepository,
	invalidator AvailabilityInvalidator,
	txManager TransactionManager,
	clk Clock,
	ttl domain.HoldTTLSchedule,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:    slotRepo,
		holdRepo:    holdRepo,
		serviceRepo: serviceRepo,
		invalidator: invalidator,
		txManager:   txManager,
		clock:       clk,
		ttl:         ttl,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute выполняет use case создания холда.
// Отсутствие вместимости — ожидаемый исход (ErrNoSpareCapacity), не сбой.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateHold: service=%d, provider=%d, holder=%d, policy=%s",
		req.ServiceID, req.ProviderID, req.HolderID, req.PolicyClass)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateHold: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время (единый момент для выбора слота и expires_at)
	now := uc.clock.Now()

	// 3. Проверяем услугу
	svc, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, servicesRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateHold: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateHold: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if svc.ProviderID != req.ProviderID {
		uc.logger.Warn("CreateHold: service id=%d belongs to provider=%d, requested provider=%d",
			req.ServiceID, svc.ProviderID, req.ProviderID)
		return nil, ErrServiceNotFound
	}
	if !svc.IsBookable() {
		uc.logger.Warn("CreateHold: service id=%d is not visible", req.ServiceID)
		return nil, ErrServiceNotBookable
	}
	if !svc.NeedsSlotCheck() {
		uc.logger.Warn("CreateHold: service id=%d does not require calendar", req.ServiceID)
		return nil, ErrServiceWithoutCalendar
	}

	var result *Response

	// 4. Резервируем единицу вместимости в serializable-транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Ближайшие будущие слоты поставщика (FOR UPDATE)
		candidates, err := uc.slotRepo.ListUpcoming(txCtx, req.ProviderID, now, candidateSlotLimit)
		if err != nil {
			uc.logger.Error("CreateHold: failed to list slots: %v", err)
			return fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
		}

		// 4.2. Первый слот со свободной вместимостью (за вычетом активных холдов)
		for _, slot := range candidates {
			activeHolds, err := uc.holdRepo.CountActive(txCtx, slot.ID, now)
			if err != nil {
				uc.logger.Error("CreateHold: failed to count holds for slot=%d: %v", slot.ID, err)
				return fmt.Errorf("%w: failed to count holds: %v", ErrInternal, err)
			}

			if slot.SpareCapacity(activeHolds) <= 0 {
				continue
			}

			// 4.3. Регистрируем холд на найденном слоте
			hold := &domain.SoftHold{
				ID:          uuid.NewString(),
				ServiceID:   req.ServiceID,
				ProviderID:  req.ProviderID,
				SlotID:      slot.ID,
				HolderID:    req.HolderID,
				PolicyClass: req.PolicyClass,
				Status:      domain.HoldStatusActive,
				CreatedAt:   now,
				ExpiresAt:   now.Add(uc.ttl.TTL(req.PolicyClass)),
			}

			if err := uc.holdRepo.Create(txCtx, hold); err != nil {
				uc.logger.Error("CreateHold: failed to create hold: %v", err)
				return fmt.Errorf("%w: failed to create hold: %v", ErrInternal, err)
			}

			result = &Response{
				HoldID:      hold.ID,
				SlotID:      slot.ID,
				SlotDate:    slot.Date,
				PolicyClass: hold.PolicyClass,
				ExpiresAt:   hold.ExpiresAt,
			}
			return nil
		}

		// Вся вместимость разобрана — нормальный исход под конкуренцией
		return ErrNoSpareCapacity
	})

	if err != nil {
		if errors.Is(err, ErrNoSpareCapacity) {
			uc.logger.Info("CreateHold: no spare capacity for provider=%d", req.ProviderID)
		}
		return nil, err
	}

	// 5. Холд занял единицу вместимости — кеш доступности поставщика устарел
	uc.invalidator.InvalidateProvider(ctx, req.ProviderID)
	uc.metrics.IncHoldCreated()

	uc.logger.Info("CreateHold: hold id=%s created on slot=%d, expires_at=%s",
		result.HoldID, result.SlotID, result.ExpiresAt.Format(time.RFC3339))

	return result, nil
}
