package register_service

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
	catalogRepo "github.com/m04kA/EVM-AvailabilityService/internal/infra/storage/catalog"
)

// UseCase use case регистрации услуги в реестре доступности.
// Операция идемпотентна: повторная регистрация с тем же ID полностью
// заменяет политику доступности услуги.
type UseCase struct {
	serviceRepo ServiceRepository
	catalogRepo CatalogRepository
	invalidator AvailabilityInvalidator
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	serviceRepo ServiceRepository,
	catalogRepo CatalogRepository,
	invalidator AvailabilityInvalidator,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		serviceRepo: serviceRepo,
		catalogRepo: catalogRepo,
		invalidator: invalidator,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute выполняет use case регистрации услуги
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RegisterService: service=%d, provider=%d, category=%d/%d",
		req.ServiceID, req.ProviderID, req.CategoryID, req.SubcategoryID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RegisterService: validation failed for service=%d: %v", req.ServiceID, err)
		return nil, err
	}

	var registered *domain.Service

	// 2. Регистрация в serializable-транзакции: проверка ссылок каталога
	// и upsert услуги видят согласованный снимок
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Категория должна существовать
		exists, err := uc.catalogRepo.CategoryExists(txCtx, req.CategoryID)
		if err != nil {
			uc.logger.Error("RegisterService: failed to check category id=%d: %v", req.CategoryID, err)
			return fmt.Errorf("%w: failed to check category: %v", ErrInternal, err)
		}
		if !exists {
			return ErrCategoryNotFound
		}

		// 2.2. Подкатегория должна существовать и принадлежать категории
		sub, err := uc.catalogRepo.GetSubcategory(txCtx, req.SubcategoryID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrSubcategoryNotFound) {
				return ErrSubcategoryNotFound
			}
			uc.logger.Error("RegisterService: failed to get subcategory id=%d: %v", req.SubcategoryID, err)
			return fmt.Errorf("%w: failed to get subcategory: %v", ErrInternal, err)
		}
		if sub.CategoryID != req.CategoryID {
			uc.logger.Warn("RegisterService: subcategory=%d belongs to category=%d, requested category=%d",
				sub.ID, sub.CategoryID, req.CategoryID)
			return ErrSubcategoryMismatch
		}

		// 2.3. Якорная запись поставщика (онбординг внешний)
		if err := uc.catalogRepo.EnsureProvider(txCtx, req.ProviderID); err != nil {
			uc.logger.Error("RegisterService: failed to ensure provider id=%d: %v", req.ProviderID, err)
			return fmt.Errorf("%w: failed to ensure provider: %v", ErrInternal, err)
		}

		// 2.4. Идемпотентный upsert: политика заменяется целиком
		svc := &domain.Service{
			ID:                    req.ServiceID,
			ProviderID:            req.ProviderID,
			CategoryID:            req.CategoryID,
			SubcategoryID:         req.SubcategoryID,
			RequiresCalendar:      req.HasCalendar,
			MaxConcurrentBookings: req.MaxConcurrentBookings,
			IsVisible:             req.IsAvailable,
		}

		registered, err = uc.serviceRepo.Upsert(txCtx, svc)
		if err != nil {
			uc.logger.Error("RegisterService: failed to upsert service id=%d: %v", req.ServiceID, err)
			return fmt.Errorf("%w: failed to upsert service: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	// 3. Политика услуги могла измениться — сбрасываем кеш доступности
	uc.invalidator.InvalidateProvider(ctx, req.ProviderID)

	uc.logger.Info("RegisterService: service id=%d registered for provider=%d", registered.ID, registered.ProviderID)

	return &Response{
		ServiceID:             registered.ID,
		ProviderID:            registered.ProviderID,
		CategoryID:            registered.CategoryID,
		SubcategoryID:         registered.SubcategoryID,
		IsAvailable:           registered.IsVisible,
		HasCalendar:           registered.RequiresCalendar,
		MaxConcurrentBookings: registered.MaxConcurrentBookings,
		CreatedAt:             registered.CreatedAt,
		UpdatedAt:             registered.UpdatedAt,
	}, nil
}
