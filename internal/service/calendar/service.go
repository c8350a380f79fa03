package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
)

// Service сервис управления календарём поставщика.
// Слоты пишет загрузчик данных; ключ слота — (provider, date, start).
type Service struct {
	slotRepo    SlotRepository
	catalogRepo CatalogRepository
	invalidator AvailabilityInvalidator
	logger      Logger
}

// NewService создает новый экземпляр сервиса календаря
func NewService(
	slotRepo SlotRepository,
	catalogRepo CatalogRepository,
	invalidator AvailabilityInvalidator,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:    slotRepo,
		catalogRepo: catalogRepo,
		invalidator: invalidator,
		logger:      logger,
	}
}

// UpsertSlot создает или обновляет слот поставщика.
// Повторный upsert с тем же ключом заменяет окно и вместимость,
// не трогая текущую занятость.
func (s *Service) UpsertSlot(ctx context.Context, slot *domain.CalendarSlot) (*domain.CalendarSlot, error) {
	if err := validateSlot(slot); err != nil {
		s.logger.Warn("UpsertSlot: validation failed for provider=%d: %v", slot.ProviderID, err)
		return nil, err
	}

	if err := s.catalogRepo.EnsureProvider(ctx, slot.ProviderID); err != nil {
		s.logger.Error("UpsertSlot: failed to ensure provider id=%d: %v", slot.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to ensure provider: %v", ErrInternal, err)
	}

	saved, err := s.slotRepo.Upsert(ctx, slot)
	if err != nil {
		s.logger.Error("UpsertSlot: failed to upsert slot for provider=%d: %v", slot.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to upsert slot: %v", ErrInternal, err)
	}

	// Вместимость могла измениться — сбрасываем кеш доступности
	s.invalidator.InvalidateProvider(ctx, saved.ProviderID)

	s.logger.Info("UpsertSlot: slot id=%d upserted for provider=%d (date=%s, start=%s)",
		saved.ID, saved.ProviderID, saved.Date.Format(domain.DateFormat), saved.StartTime)

	return saved, nil
}

// GetProviderSlots возвращает слоты поставщика, опционально за одну дату
func (s *Service) GetProviderSlots(ctx context.Context, providerID int64, date *time.Time) ([]*domain.CalendarSlot, error) {
	if providerID <= 0 {
		return nil, fmt.Errorf("%w: provider id must be positive", ErrInvalidInput)
	}

	result, err := s.slotRepo.GetByProvider(ctx, providerID, date)
	if err != nil {
		s.logger.Error("GetProviderSlots: failed to get slots for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: failed to get slots: %v", ErrInternal, err)
	}

	return result, nil
}

func validateSlot(slot *domain.CalendarSlot) error {
	if slot.ProviderID <= 0 {
		return fmt.Errorf("%w: provider id must be positive", ErrInvalidInput)
	}

	if slot.Date.IsZero() {
		return fmt.Errorf("%w: slot date is required", ErrInvalidInput)
	}

	if !slot.StartTime.IsBefore(slot.EndTime) {
		return fmt.Errorf("%w: start time must be before end time", ErrInvalidInput)
	}

	if slot.MaxBookings < domain.MinSlotCapacity || slot.MaxBookings > domain.MaxSlotCapacity {
		return fmt.Errorf("%w: max bookings must be between %d and %d",
			ErrInvalidInput, domain.MinSlotCapacity, domain.MaxSlotCapacity)
	}

	return nil
}
