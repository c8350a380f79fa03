package slots

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

var slotColumns = []string{
	"id",
	"provider_id",
	"slot_date",
	"start_time",
	"end_time",
	"max_bookings",
	"current_bookings",
	"created_at",
	"updated_at",
}

// Repository хранилище календарных слотов (Calendar Slot Store).
// Все мутации вместимости одного слота атомарны относительно конкурентных
// вызовов: инкремент выполняется одним UPDATE с условием, выборки под
// изменение — с блокировкой строки FOR UPDATE внутри транзакции.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert создает слот или обновляет его окно и вместимость.
// Ключ слота — (provider_id, slot_date, start_time); текущая занятость
// при обновлении не трогается.
func (r *Repository) Upsert(ctx context.Context, slot *domain.CalendarSlot) (*domain.CalendarSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("calendar_slots").
		Columns(
			"provider_id",
			"slot_date",
			"start_time",
			"end_time",
			"max_bookings",
		).
		Values(
			slot.ProviderID,
			slot.Date,
			slot.StartTime,
			slot.EndTime,
			slot.MaxBookings,
		).
		Suffix(`ON CONFLICT (provider_id, slot_date, start_time)
			DO UPDATE SET end_time = EXCLUDED.end_time,
				max_bookings = EXCLUDED.max_bookings,
				updated_at = NOW()
			RETURNING id, current_bookings, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&slot.ID,
		&slot.CurrentBookings,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return slot, nil
}

// GetByID получает слот по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.CalendarSlot, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate получает слот по ID с блокировкой строки.
// Вызывается только внутри транзакции; блокировка сериализует
// конкурентные операции над одним слотом, не трогая остальные.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.CalendarSlot, error) {
	return r.getByID(ctx, id, true)
}

func (r *Repository) getByID(ctx context.Context, id int64, forUpdate bool) (*domain.CalendarSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("calendar_slots").
		Where(squirrel.Eq{"id": id})

	if forUpdate && dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

// GetByProvider получает слоты поставщика, упорядоченные по дате и времени.
// Если date задан, возвращает только слоты на эту дату.
func (r *Repository) GetByProvider(ctx context.Context, providerID int64, date *time.Time) ([]*domain.CalendarSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("calendar_slots").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("slot_date ASC, start_time ASC")

	if date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"slot_date": *date})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProvider - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProvider - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// ListUpcoming получает будущие слоты поставщика, упорядоченные по
// близости (дата, время начала). Сегодняшние слоты, чьё начало уже
// прошло на момент now, будущими не считаются.
// Внутри транзакции строки блокируются FOR UPDATE — кандидаты для выдачи
// холда сериализуются по слоту.
func (r *Repository) ListUpcoming(ctx context.Context, providerID int64, now time.Time, limit uint64) ([]*domain.CalendarSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("calendar_slots").
		Where(squirrel.Eq{"provider_id": providerID}).
		Where(squirrel.Or{
			squirrel.Gt{"slot_date": today},
			squirrel.And{
				squirrel.Eq{"slot_date": today},
				squirrel.Gt{"start_time": now.Format("15:04:05")},
			},
		}).
		OrderBy("slot_date ASC, start_time ASC").
		Limit(limit)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListUpcoming - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListUpcoming - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// AnyWithSpareCapacity проверяет, есть ли у поставщика хотя бы один будущий
// слот со свободной вместимостью (за вычетом активных холдов).
// Сегодняшние слоты с уже прошедшим началом не считаются; просроченные
// холды исключаются условием expires_at > now прямо в запросе.
func (r *Repository) AnyWithSpareCapacity(ctx context.Context, providerID int64, fromDate, now time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	const query = `
		SELECT EXISTS (
			SELECT 1
			FROM calendar_slots cs
			WHERE cs.provider_id = $1
			  AND (cs.slot_date > $2 OR (cs.slot_date = $2 AND cs.start_time > $4))
			  AND cs.max_bookings - cs.current_bookings - (
					SELECT COUNT(*)
					FROM soft_holds h
					WHERE h.slot_id = cs.id
					  AND h.status = 'active'
					  AND h.expires_at > $3
			  ) > 0
		)`

	var exists bool
	if err := executor.QueryRowContext(ctx, query, providerID, fromDate, now, now.Format("15:04:05")).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: AnyWithSpareCapacity - execute query: %v", ErrExecQuery, err)
	}

	return exists, nil
}

// TryIncrementOccupancy атомарно увеличивает занятость слота на единицу.
// Возвращает false, если слот уже заполнен: проверка и инкремент выполняются
// одним UPDATE, гонка двух вызовов невозможна.
func (r *Repository) TryIncrementOccupancy(ctx context.Context, id int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("calendar_slots").
		Set("current_bookings", squirrel.Expr("current_bookings + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Expr("current_bookings < max_bookings")).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: TryIncrementOccupancy - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: TryIncrementOccupancy - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: TryIncrementOccupancy - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}

// DecrementOccupancy уменьшает занятость слота на единицу, не опускаясь ниже нуля.
// Используется при отмене подтверждённого бронирования.
func (r *Repository) DecrementOccupancy(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("calendar_slots").
		Set("current_bookings", squirrel.Expr("GREATEST(current_bookings - 1, 0)")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DecrementOccupancy - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DecrementOccupancy - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DecrementOccupancy - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.CalendarSlot, error) {
	var slot domain.CalendarSlot
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&slot.ID,
		&slot.ProviderID,
		&slot.Date,
		&slot.StartTime,
		&slot.EndTime,
		&slot.MaxBookings,
		&slot.CurrentBookings,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return &slot, nil
}

func scanSlots(rows *sql.Rows) ([]*domain.CalendarSlot, error) {
	result := make([]*domain.CalendarSlot, 0)

	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}
		result = append(result, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}
