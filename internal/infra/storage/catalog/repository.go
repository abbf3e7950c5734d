package catalog

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

// Repository репозиторий каталога: услуги, специалисты и их связи
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetService получает услугу по ID
func (r *Repository) GetService(ctx context.Context, id uuid.UUID) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"account_id",
		"name",
		"duration_minutes",
		"price",
		"active",
	).
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	var service domain.Service
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.AccountID,
		&service.Name,
		&service.DurationMinutes,
		&service.Price,
		&service.Active,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("%w: GetService - scan row: %w", ErrScanRow, err)
	}

	return &service, nil
}

// GetProfessional получает специалиста по ID.
// Внутри транзакции строка специалиста блокируется (FOR UPDATE): это сериализует
// конкурентные бронирования к одному специалисту.
func (r *Repository) GetProfessional(ctx context.Context, id uuid.UUID) (*domain.Professional, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"account_id",
		"name",
		"email",
		"active",
	).
		From("professionals").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetProfessional - build select query: %v", ErrBuildQuery, err)
	}

	var professional domain.Professional
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&professional.ID,
		&professional.AccountID,
		&professional.Name,
		&professional.Email,
		&professional.Active,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfessionalNotFound
		}
		return nil, fmt.Errorf("%w: GetProfessional - scan row: %w", ErrScanRow, err)
	}

	return &professional, nil
}

// IsProfessionalAssigned проверяет, что специалист оказывает услугу
func (r *Repository) IsProfessionalAssigned(ctx context.Context, professionalID, serviceID uuid.UUID) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		Prefix("SELECT EXISTS (").
		From("professional_services").
		Where(squirrel.Eq{"professional_id": professionalID, "service_id": serviceID}).
		Suffix(")").
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: IsProfessionalAssigned - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: IsProfessionalAssigned - scan row: %w", ErrScanRow, err)
	}

	return exists, nil
}
