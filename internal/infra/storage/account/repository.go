package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/psqlbuilder"
)

// Repository репозиторий аккаунтов и их политики бронирования
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория аккаунтов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает аккаунт по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"timezone",
		"min_booking_hours",
		"min_cancel_hours",
		"created_at",
		"updated_at",
	).
		From("accounts").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var account domain.Account
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&account.ID,
		&account.Name,
		&account.Timezone,
		&account.MinBookingHours,
		&account.MinCancelHours,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("%w: GetByID - scan row: %w", ErrScanRow, err)
	}

	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updatedAt.Time

	return &account, nil
}

// UpdatePolicy обновляет часовой пояс и ограничения по времени бронирования/отмены.
// nil поля не изменяются.
func (r *Repository) UpdatePolicy(ctx context.Context, id uuid.UUID, update domain.AccountPolicyUpdate) (*domain.Account, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("accounts").
		Where(squirrel.Eq{"id": id}).
		Set("updated_at", squirrel.Expr("NOW()"))

	if update.Timezone != nil {
		updateBuilder = updateBuilder.Set("timezone", *update.Timezone)
	}
	if update.MinBookingHours != nil {
		updateBuilder = updateBuilder.Set("min_booking_hours", *update.MinBookingHours)
	}
	if update.MinCancelHours != nil {
		updateBuilder = updateBuilder.Set("min_cancel_hours", *update.MinCancelHours)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdatePolicy - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: UpdatePolicy - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdatePolicy - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return nil, ErrAccountNotFound
	}

	return r.GetByID(ctx, id)
}
