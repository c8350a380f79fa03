package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
	"github.com/m04kA/EVM-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/EVM-AvailabilityService/pkg/psqlbuilder"
)

// Repository хранилище графа каталога: поставщики, категории, подкатегории.
// Используется валидатором иерархии при загрузке данных.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// EnsureProvider создает запись поставщика, если её ещё нет.
// Поставщики приходят из внешнего онбординга; движку достаточно строки-якоря.
func (r *Repository) EnsureProvider(ctx context.Context, providerID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("providers").
		Columns("id").
		Values(providerID).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: EnsureProvider - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: EnsureProvider - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetProvider получает поставщика по ID
func (r *Repository) GetProvider(ctx context.Context, providerID int64) (*domain.Provider, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "is_verified", "is_active", "service_areas", "created_at", "updated_at").
		From("providers").
		Where(squirrel.Eq{"id": providerID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetProvider - build select query: %v", ErrBuildQuery, err)
	}

	var provider domain.Provider
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&provider.ID,
		&provider.IsVerified,
		&provider.IsActive,
		pq.Array(&provider.ServiceAreas),
		&provider.CreatedAt,
		&provider.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrProviderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetProvider - scan row: %v", ErrScanRow, err)
	}

	return &provider, nil
}

// CategoryExists проверяет существование категории
func (r *Repository) CategoryExists(ctx context.Context, categoryID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("categories").
		Where(squirrel.Eq{"id": categoryID}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: CategoryExists - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: CategoryExists - execute query: %v", ErrExecQuery, err)
	}

	return true, nil
}

// GetSubcategory получает подкатегорию по ID
func (r *Repository) GetSubcategory(ctx context.Context, subcategoryID int64) (*domain.Subcategory, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "category_id", "name").
		From("subcategories").
		Where(squirrel.Eq{"id": subcategoryID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetSubcategory - build select query: %v", ErrBuildQuery, err)
	}

	var sub domain.Subcategory
	err = executor.QueryRowContext(ctx, query, args...).Scan(&sub.ID, &sub.CategoryID, &sub.Name)
	if err == sql.ErrNoRows {
		return nil, ErrSubcategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetSubcategory - scan row: %v", ErrScanRow, err)
	}

	return &sub, nil
}

// ListCategoryIDs возвращает множество существующих категорий
func (r *Repository) ListCategoryIDs(ctx context.Context) (map[int64]struct{}, error) {
	return r.listIDs(ctx, "categories", "ListCategoryIDs")
}

// ListSubcategories возвращает все подкатегории
func (r *Repository) ListSubcategories(ctx context.Context) ([]*domain.Subcategory, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "category_id", "name").
		From("subcategories").
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListSubcategories - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListSubcategories - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.Subcategory, 0)
	for rows.Next() {
		var sub domain.Subcategory
		if err := rows.Scan(&sub.ID, &sub.CategoryID, &sub.Name); err != nil {
			return nil, fmt.Errorf("%w: ListSubcategories - scan row: %v", ErrScanRow, err)
		}
		result = append(result, &sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListSubcategories - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// ProviderSubcategoryRef связь поставщик -> подкатегория
type ProviderSubcategoryRef struct {
	ProviderID    int64
	SubcategoryID int64
}

// ListProviderSubcategoryRefs возвращает все связи поставщиков с подкатегориями
func (r *Repository) ListProviderSubcategoryRefs(ctx context.Context) ([]ProviderSubcategoryRef, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("provider_id", "subcategory_id").
		From("provider_subcategories").
		OrderBy("provider_id ASC, subcategory_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListProviderSubcategoryRefs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListProviderSubcategoryRefs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]ProviderSubcategoryRef, 0)
	for rows.Next() {
		var ref ProviderSubcategoryRef
		if err := rows.Scan(&ref.ProviderID, &ref.SubcategoryID); err != nil {
			return nil, fmt.Errorf("%w: ListProviderSubcategoryRefs - scan row: %v", ErrScanRow, err)
		}
		result = append(result, ref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListProviderSubcategoryRefs - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// DeleteProviderSubcategoryRef удаляет связь поставщика с подкатегорией.
// Вызывается валидатором, когда подкатегория перестала существовать.
func (r *Repository) DeleteProviderSubcategoryRef(ctx context.Context, providerID, subcategoryID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("provider_subcategories").
		Where(squirrel.Eq{"provider_id": providerID, "subcategory_id": subcategoryID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteProviderSubcategoryRef - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteProviderSubcategoryRef - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) listIDs(ctx context.Context, table, method string) (map[int64]struct{}, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From(table).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, method, err)
	}
	defer rows.Close()

	result := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, method, err)
		}
		result[id] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, method, err)
	}

	return result, nil
}
