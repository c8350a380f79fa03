package hierarchy

import (
	"context"
	"fmt"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
)

// Виды починок для аудита и метрик
const (
	RepairServiceReassigned = "service_reassigned"
	RepairProviderRefPruned = "provider_ref_pruned"
)

// RepairRecord запись аудита об одной починке графа
type RepairRecord struct {
	Kind          string
	ServiceID     int64
	ProviderID    int64
	SubcategoryID int64
	Detail        string
}

// Report итог batch-прохода валидатора
type Report struct {
	ServicesChecked    int
	ServicesReassigned int
	ProviderRefsPruned int
	Repairs            []RepairRecord
}

// Validator batch-валидатор графа каталога.
// Запускается один раз при загрузке данных, до регистрации услуг в реестре:
// реестр не должен увидеть услугу с битой ссылкой на категорию, иначе она
// могла бы незаметно обойти гейт доступности.
//
// Починка вместо удаления: записи с битыми ссылками переводятся в
// зарезервированный bucket "uncategorized" и остаются в системе.
type Validator struct {
	serviceRepo ServiceRepository
	catalogRepo CatalogRepository
	metrics     Metrics
	logger      Logger
}

// NewValidator создает новый экземпляр валидатора
func NewValidator(
	serviceRepo ServiceRepository,
	catalogRepo CatalogRepository,
	metrics Metrics,
	logger Logger,
) *Validator {
	return &Validator{
		serviceRepo: serviceRepo,
		catalogRepo: catalogRepo,
		metrics:     metrics,
		logger:      logger,
	}
}

// Validate проверяет и чинит ссылки услуг и поставщиков на категории.
// Несогласованности не возвращаются как ошибки — они чинятся и
// записываются в отчёт для аудита.
func (v *Validator) Validate(ctx context.Context) (*Report, error) {
	report := &Report{Repairs: make([]RepairRecord, 0)}

	// 1. Загружаем справочники графа
	categoryIDs, err := v.catalogRepo.ListCategoryIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("hierarchy: load categories: %w", err)
	}

	subcategories, err := v.catalogRepo.ListSubcategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("hierarchy: load subcategories: %w", err)
	}

	subcategoryByID := make(map[int64]*domain.Subcategory, len(subcategories))
	for _, sub := range subcategories {
		subcategoryByID[sub.ID] = sub
	}

	// 2. Чиним услуги с битыми ссылками
	services, err := v.serviceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("hierarchy: load services: %w", err)
	}

	for _, svc := range services {
		report.ServicesChecked++

		reason := v.brokenServiceRef(svc, categoryIDs, subcategoryByID)
		if reason == "" {
			continue
		}

		if err := v.serviceRepo.ReassignCategory(ctx, svc.ID, domain.UncategorizedID, domain.UncategorizedID); err != nil {
			return nil, fmt.Errorf("hierarchy: reassign service id=%d: %w", svc.ID, err)
		}

		v.logger.Warn("hierarchy: service id=%d reassigned to uncategorized: %s", svc.ID, reason)
		v.metrics.IncHierarchyRepair(RepairServiceReassigned)

		report.ServicesReassigned++
		report.Repairs = append(report.Repairs, RepairRecord{
			Kind:      RepairServiceReassigned,
			ServiceID: svc.ID,
			Detail:    reason,
		})
	}

	// 3. Чистим ссылки поставщиков на несуществующие подкатегории
	refs, err := v.catalogRepo.ListProviderSubcategoryRefs(ctx)
	if err != nil {
		return nil, fmt.Errorf("hierarchy: load provider refs: %w", err)
	}

	for _, ref := range refs {
		if _, ok := subcategoryByID[ref.SubcategoryID]; ok {
			continue
		}

		if err := v.catalogRepo.DeleteProviderSubcategoryRef(ctx, ref.ProviderID, ref.SubcategoryID); err != nil {
			return nil, fmt.Errorf("hierarchy: prune provider=%d ref: %w", ref.ProviderID, err)
		}

		v.logger.Warn("hierarchy: provider id=%d reference to missing subcategory id=%d pruned",
			ref.ProviderID, ref.SubcategoryID)
		v.metrics.IncHierarchyRepair(RepairProviderRefPruned)

		report.ProviderRefsPruned++
		report.Repairs = append(report.Repairs, RepairRecord{
			Kind:          RepairProviderRefPruned,
			ProviderID:    ref.ProviderID,
			SubcategoryID: ref.SubcategoryID,
			Detail:        "subcategory does not exist",
		})
	}

	v.logger.Info("hierarchy: validation finished, checked=%d reassigned=%d pruned=%d",
		report.ServicesChecked, report.ServicesReassigned, report.ProviderRefsPruned)

	return report, nil
}

// brokenServiceRef возвращает причину несогласованности или пустую строку
func (v *Validator) brokenServiceRef(
	svc *domain.Service,
	categoryIDs map[int64]struct{},
	subcategoryByID map[int64]*domain.Subcategory,
) string {
	if _, ok := categoryIDs[svc.CategoryID]; !ok {
		return fmt.Sprintf("category id=%d does not exist", svc.CategoryID)
	}

	sub, ok := subcategoryByID[svc.SubcategoryID]
	if !ok {
		return fmt.Sprintf("subcategory id=%d does not exist", svc.SubcategoryID)
	}

	if sub.CategoryID != svc.CategoryID {
		return fmt.Sprintf("subcategory id=%d belongs to category id=%d, not id=%d",
			svc.SubcategoryID, sub.CategoryID, svc.CategoryID)
	}

	return ""
}
