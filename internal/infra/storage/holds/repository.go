package holds

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/EVM-AvailabilityService/internal/domain"
	"github.com/m04kA/EVM-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/EVM-AvailabilityService/pkg/psqlbuilder"
)

var holdColumns = []string{
	"id",
	"service_id",
	"provider_id",
	"slot_id",
	"holder_id",
	"policy_class",
	"status",
	"created_at",
	"expires_at",
}

// Repository хранилище софт-холдов.
// Истечение холда нигде не материализуется заранее: все выборки активных
// холдов фильтруют по expires_at > now, поэтому корректность не зависит
// от своевременности sweeper'а.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория холдов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новый холд
func (r *Repository) Create(ctx context.Context, hold *domain.SoftHold) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("soft_holds").
		Columns(holdColumns...).
		Values(
			hold.ID,
			hold.ServiceID,
			hold.ProviderID,
			hold.SlotID,
			hold.HolderID,
			hold.PolicyClass,
			hold.Status,
			hold.CreatedAt,
			hold.ExpiresAt,
		).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetByID получает холд по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.SoftHold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(holdColumns...).
		From("soft_holds").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var hold domain.SoftHold
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&hold.ID,
		&hold.ServiceID,
		&hold.ProviderID,
		&hold.SlotID,
		&hold.HolderID,
		&hold.PolicyClass,
		&hold.Status,
		&hold.CreatedAt,
		&hold.ExpiresAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrHoldNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan hold: %v", ErrScanRow, err)
	}

	return &hold, nil
}

// CountActive подсчитывает активные холды слота на момент now.
// Холд считается активным только пока now < expires_at; просроченные
// исключаются из счёта, даже если ещё не убраны sweeper'ом.
func (r *Repository) CountActive(ctx context.Context, slotID int64, now time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("soft_holds").
		Where(squirrel.Eq{"slot_id": slotID, "status": domain.HoldStatusActive}).
		Where(squirrel.Gt{"expires_at": now}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountActive - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActive - execute query: %v", ErrExecQuery, err)
	}

	return count, nil
}

// EarliestActiveExpiry возвращает ближайший момент истечения активного
// холда поставщика, nil — если активных холдов нет. Используется кешем
// доступности: отрицательное решение живёт не дольше этого момента.
func (r *Repository) EarliestActiveExpiry(ctx context.Context, providerID int64, now time.Time) (*time.Time, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("MIN(expires_at)").
		From("soft_holds").
		Where(squirrel.Eq{"provider_id": providerID, "status": domain.HoldStatusActive}).
		Where(squirrel.Gt{"expires_at": now}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: EarliestActiveExpiry - build select query: %v", ErrBuildQuery, err)
	}

	var expiry sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&expiry); err != nil {
		return nil, fmt.Errorf("%w: EarliestActiveExpiry - execute query: %v", ErrExecQuery, err)
	}

	if !expiry.Valid {
		return nil, nil
	}

	return &expiry.Time, nil
}

// TransitionStatus переводит холд из from в to.
// Условие на текущий статус делает переход атомарным: из терминального
// состояния перейти нельзя, конкурентный переход увидит 0 строк.
func (r *Repository) TransitionStatus(ctx context.Context, id string, from, to domain.HoldStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("soft_holds").
		Set("status", to).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: TransitionStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: TransitionStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: TransitionStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStatusConflict
	}

	return nil
}

// DeleteExpired удаляет холды, просроченные до момента before.
// Вызывается только sweeper'ом для возврата места; на доступность
// не влияет — просроченные холды и так не учитываются.
func (r *Repository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("soft_holds").
		Where(squirrel.Eq{"status": domain.HoldStatusActive}).
		Where(squirrel.LtOrEq{"expires_at": before}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}
