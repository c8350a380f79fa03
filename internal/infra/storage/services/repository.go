package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
	"github.com/m04kA/EVM-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/EVM-AvailabilityService/pkg/psqlbuilder"
)

var serviceColumns = []string{
	"id",
	"provider_id",
	"category_id",
	"subcategory_id",
	"requires_calendar",
	"max_concurrent_bookings",
	"is_visible",
	"created_at",
	"updated_at",
}

// Repository хранилище реестра услуг (Availability Registry)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория услуг
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert регистрирует услугу или заменяет её политику доступности.
// Повторная регистрация с тем же ID полностью перезаписывает политику.
func (r *Repository) Upsert(ctx context.Context, svc *domain.Service) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("services").
		Columns(
			"id",
			"provider_id",
			"category_id",
			"subcategory_id",
			"requires_calendar",
			"max_concurrent_bookings",
			"is_visible",
		).
		Values(
			svc.ID,
			svc.ProviderID,
			svc.CategoryID,
			svc.SubcategoryID,
			svc.RequiresCalendar,
			svc.MaxConcurrentBookings,
			svc.IsVisible,
		).
		Suffix(`ON CONFLICT (id)
			DO UPDATE SET provider_id = EXCLUDED.provider_id,
				category_id = EXCLUDED.category_id,
				subcategory_id = EXCLUDED.subcategory_id,
				requires_calendar = EXCLUDED.requires_calendar,
				max_concurrent_bookings = EXCLUDED.max_concurrent_bookings,
				is_visible = EXCLUDED.is_visible,
				updated_at = NOW()
			RETURNING created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	svc.CreatedAt = createdAt.Time
	svc.UpdatedAt = updatedAt.Time

	return svc, nil
}

// GetByID получает услугу по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	svc, err := scanService(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan service: %v", ErrScanRow, err)
	}

	return svc, nil
}

// List получает все зарегистрированные услуги (для batch-валидатора)
func (r *Repository) List(ctx context.Context) ([]*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("services").
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.Service, 0)
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		result = append(result, svc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// ReassignCategory переводит услугу в другой bucket каталога.
// Используется валидатором иерархии при починке битых ссылок.
func (r *Repository) ReassignCategory(ctx context.Context, serviceID, categoryID, subcategoryID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("services").
		Set("category_id", categoryID).
		Set("subcategory_id", subcategoryID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": serviceID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReassignCategory - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: ReassignCategory - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: ReassignCategory - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrServiceNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanService(row rowScanner) (*domain.Service, error) {
	var svc domain.Service
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&svc.ID,
		&svc.ProviderID,
		&svc.CategoryID,
		&svc.SubcategoryID,
		&svc.RequiresCalendar,
		&svc.MaxConcurrentBookings,
		&svc.IsVisible,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	svc.CreatedAt = createdAt.Time
	svc.UpdatedAt = updatedAt.Time

	return &svc, nil
}
