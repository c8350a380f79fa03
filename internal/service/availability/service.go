package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
	catalogRepo "github.com/m04kA/EVM-AvailabilityService/internal/infra/storage/catalog"
	servicesRepo "github.com/m04kA/EVM-AvailabilityService/internal/infra/storage/services"
)

// Service единственная точка принятия решения о доступности услуги.
// Никакой другой компонент это решение не дублирует: каталог, поиск и
// детальные страницы ходят сюда.
//
// Решение считается заново на каждый вызов; кеш перед ним сбрасывается
// явной инвалидацией на каждой мутации холдов поставщика.
type Service struct {
	serviceRepo ServiceRepository
	slotRepo    SlotRepository
	holdRepo    HoldRepository
	catalogRepo CatalogRepository
	cache       Cache
	clock       Clock
	logger      Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(
	serviceRepo ServiceRepository,
	slotRepo SlotRepository,
	holdRepo HoldRepository,
	catalogRepo CatalogRepository,
	cache Cache,
	clk Clock,
	logger Logger,
) *Service {
	return &Service{
		serviceRepo: serviceRepo,
		slotRepo:    slotRepo,
		holdRepo:    holdRepo,
		catalogRepo: catalogRepo,
		cache:       cache,
		clock:       clk,
		logger:      logger,
	}
}

// IsServiceAvailable проверяет доступность услуги для бронирования.
// Правила (fail-closed):
//   - незарегистрированная или скрытая услуга недоступна;
//   - услуга, привязанная к чужому поставщику, недоступна;
//   - услуга деактивированного поставщика недоступна;
//   - услуга с requiresCalendar без единого будущего слота со свободной
//     вместимостью (за вычетом активных холдов) недоступна.
func (s *Service) IsServiceAvailable(ctx context.Context, serviceID, providerID int64) (bool, error) {
	// Быстрый путь: закешированное решение
	if cached, err := s.cache.Get(ctx, serviceID, providerID); err != nil {
		// Ошибка кеша не должна ронять проверку доступности
		s.logger.Warn("IsServiceAvailable: cache get failed for service=%d: %v", serviceID, err)
	} else if cached != nil {
		return *cached, nil
	}

	available, ttl, err := s.compute(ctx, serviceID, providerID)
	if err != nil {
		return false, err
	}

	if err := s.cache.Set(ctx, serviceID, providerID, available, ttl); err != nil {
		s.logger.Warn("IsServiceAvailable: cache set failed for service=%d: %v", serviceID, err)
	}

	return available, nil
}

// compute возвращает решение и предельное время его жизни в кеше.
// ttl == 0 означает, что решение не протухает само и живёт до инвалидации.
func (s *Service) compute(ctx context.Context, serviceID, providerID int64) (bool, time.Duration, error) {
	svc, err := s.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, servicesRepo.ErrServiceNotFound) {
			// Незарегистрированная услуга не показывается — fail-closed
			return false, 0, nil
		}
		return false, 0, fmt.Errorf("%w: compute - get service id=%d: %v", ErrInternal, serviceID, err)
	}

	if svc.ProviderID != providerID {
		s.logger.Warn("IsServiceAvailable: service=%d belongs to provider=%d, requested provider=%d",
			serviceID, svc.ProviderID, providerID)
		return false, 0, nil
	}

	if !svc.IsBookable() {
		return false, 0, nil
	}

	provider, err := s.catalogRepo.GetProvider(ctx, providerID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrProviderNotFound) {
			return false, 0, nil
		}
		return false, 0, fmt.Errorf("%w: compute - get provider id=%d: %v", ErrInternal, providerID, err)
	}

	if !provider.CanAcceptBookings() {
		return false, 0, nil
	}

	if !svc.NeedsSlotCheck() {
		return true, 0, nil
	}

	now := s.clock.Now()
	hasCapacity, err := s.slotRepo.AnyWithSpareCapacity(ctx, providerID, truncateToDate(now), now)
	if err != nil {
		return false, 0, fmt.Errorf("%w: compute - check slots for provider=%d: %v", ErrInternal, providerID, err)
	}

	if hasCapacity {
		return true, 0, nil
	}

	// Отрицательное решение, зависящее от активных холдов, протухает само:
	// истечение холда возвращает вместимость без мутации и, значит, без
	// инвалидации. Запись в кеше живёт не дольше ближайшего expires_at.
	expiry, err := s.holdRepo.EarliestActiveExpiry(ctx, providerID, now)
	if err != nil {
		return false, 0, fmt.Errorf("%w: compute - earliest hold expiry for provider=%d: %v", ErrInternal, providerID, err)
	}

	var ttl time.Duration
	if expiry != nil {
		ttl = expiry.Sub(now)
	}

	// Ноль слотов и исчерпанная вместимость неразличимы для каталога:
	// услуга просто не показывается
	return false, ttl, nil
}

// FilterAvailableServices отфильтровывает недоступные услуги из списка
// кандидатов, сохраняя исходный порядок. Недоступные не помечаются,
// а исключаются: покупателю нельзя показать непокупаемый инвентарь.
func (s *Service) FilterAvailableServices(ctx context.Context, candidates []domain.ServiceRef) ([]domain.ServiceRef, error) {
	result := make([]domain.ServiceRef, 0, len(candidates))

	for _, ref := range candidates {
		available, err := s.IsServiceAvailable(ctx, ref.ServiceID, ref.ProviderID)
		if err != nil {
			return nil, err
		}
		if available {
			result = append(result, ref)
		}
	}

	return result, nil
}

// InvalidateProvider сбрасывает кеш доступности поставщика.
// Вызывается usecase'ами холдов после каждой успешной мутации.
func (s *Service) InvalidateProvider(ctx context.Context, providerID int64) {
	if err := s.cache.InvalidateProvider(ctx, providerID); err != nil {
		s.logger.Error("InvalidateProvider: cache invalidation failed for provider=%d: %v", providerID, err)
	}
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
