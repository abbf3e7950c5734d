package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

const (
	intervalsTable = "working_intervals"
	blocksTable    = "blocks"
)

// Repository репозиторий рабочего расписания и блокировок специалистов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListWorkingIntervals получает рабочие интервалы специалиста.
// dayOfWeek == nil - все дни недели. Неактивные интервалы возвращаются только при includeInactive.
//
// Время начала и конца читается как есть: некорректные строки не ломают запрос,
// их отсеивает расчёт слотов.
func (r *Repository) ListWorkingIntervals(ctx context.Context, professionalID uuid.UUID, dayOfWeek *int, includeInactive bool) ([]domain.WorkingInterval, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"professional_id",
		"day_of_week",
		"start_time",
		"end_time",
		"active",
		"created_at",
		"updated_at",
	).
		From(intervalsTable).
		Where(squirrel.Eq{"professional_id": professionalID})

	if dayOfWeek != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"day_of_week": *dayOfWeek})
	}
	if !includeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"active": true})
	}

	query, args, err := selectBuilder.OrderBy("day_of_week ASC", "start_time ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListWorkingIntervals - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWorkingIntervals - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	intervals := make([]domain.WorkingInterval, 0)
	for rows.Next() {
		var interval domain.WorkingInterval
		var rawStart, rawEnd string
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&interval.ID,
			&interval.ProfessionalID,
			&interval.DayOfWeek,
			&rawStart,
			&rawEnd,
			&interval.Active,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListWorkingIntervals - scan row: %v", ErrScanRow, err)
		}

		interval.StartTime = lenientTime(rawStart)
		interval.EndTime = lenientTime(rawEnd)
		interval.CreatedAt = createdAt.Time
		interval.UpdatedAt = updatedAt.Time

		intervals = append(intervals, interval)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListWorkingIntervals - rows error: %w", ErrScanRow, err)
	}

	return intervals, nil
}

// CreateWorkingInterval создает рабочий интервал
func (r *Repository) CreateWorkingInterval(ctx context.Context, interval *domain.WorkingInterval) (*domain.WorkingInterval, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if interval.ID == uuid.Nil {
		interval.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert(intervalsTable).
		Columns("id", "professional_id", "day_of_week", "start_time", "end_time", "active").
		Values(
			interval.ID,
			interval.ProfessionalID,
			interval.DayOfWeek,
			interval.StartTime.String(),
			interval.EndTime.String(),
			interval.Active,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateWorkingInterval - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: CreateWorkingInterval - execute insert: %w", ErrExecQuery, err)
	}

	interval.CreatedAt = createdAt.Time
	interval.UpdatedAt = updatedAt.Time

	return interval, nil
}

// DeleteWorkingInterval удаляет рабочий интервал специалиста
func (r *Repository) DeleteWorkingInterval(ctx context.Context, professionalID, id uuid.UUID) error {
	query, args, err := psqlbuilder.Delete(intervalsTable).
		Where(squirrel.Eq{"id": id, "professional_id": professionalID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteWorkingInterval - build delete query: %v", ErrBuildQuery, err)
	}

	return r.deleteOne(ctx, "DeleteWorkingInterval", query, args, ErrIntervalNotFound)
}

// ListBlocks получает блокировки специалиста, пересекающиеся с [from, to)
func (r *Repository) ListBlocks(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]domain.Block, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"professional_id",
		"start_time",
		"end_time",
		"reason",
		"created_at",
	).
		From(blocksTable).
		Where(squirrel.Eq{"professional_id": professionalID}).
		Where(squirrel.Lt{"start_time": to}).
		Where(squirrel.Gt{"end_time": from}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListBlocks - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlocks - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	blocks := make([]domain.Block, 0)
	for rows.Next() {
		var block domain.Block
		var createdAt sql.NullTime

		err := rows.Scan(
			&block.ID,
			&block.ProfessionalID,
			&block.StartTime,
			&block.EndTime,
			&block.Reason,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListBlocks - scan row: %v", ErrScanRow, err)
		}
		block.CreatedAt = createdAt.Time

		blocks = append(blocks, block)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBlocks - rows error: %w", ErrScanRow, err)
	}

	return blocks, nil
}

// CreateBlock создает блокировку времени специалиста
func (r *Repository) CreateBlock(ctx context.Context, block *domain.Block) (*domain.Block, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if block.ID == uuid.Nil {
		block.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert(blocksTable).
		Columns("id", "professional_id", "start_time", "end_time", "reason").
		Values(block.ID, block.ProfessionalID, block.StartTime, block.EndTime, block.Reason).
		Suffix("RETURNING created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateBlock - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("%w: CreateBlock - execute insert: %w", ErrExecQuery, err)
	}
	block.CreatedAt = createdAt.Time

	return block, nil
}

// DeleteBlock удаляет блокировку специалиста
func (r *Repository) DeleteBlock(ctx context.Context, professionalID, id uuid.UUID) error {
	query, args, err := psqlbuilder.Delete(blocksTable).
		Where(squirrel.Eq{"id": id, "professional_id": professionalID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteBlock - build delete query: %v", ErrBuildQuery, err)
	}

	return r.deleteOne(ctx, "DeleteBlock", query, args, ErrBlockNotFound)
}

func (r *Repository) deleteOne(ctx context.Context, op, query string, args []interface{}, notFound error) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute delete: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return notFound
	}

	return nil
}

// lenientTime нормализует "HH:MM:SS" в "HH:MM", некорректное значение оставляет как есть
func lenientTime(raw string) types.TimeString {
	raw = strings.TrimSpace(raw)
	if ts, err := types.NewTimeStringFromString(raw); err == nil {
		return ts
	}
	return types.TimeString(raw)
}
