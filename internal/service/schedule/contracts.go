package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	ListWorkingIntervals(ctx context.Context, professionalID uuid.UUID, dayOfWeek *int, includeInactive bool) ([]domain.WorkingInterval, error)
	CreateWorkingInterval(ctx context.Context, interval *domain.WorkingInterval) (*domain.WorkingInterval, error)
	DeleteWorkingInterval(ctx context.Context, professionalID, id uuid.UUID) error
	ListBlocks(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]domain.Block, error)
	CreateBlock(ctx context.Context, block *domain.Block) (*domain.Block, error)
	DeleteBlock(ctx context.Context, professionalID, id uuid.UUID) error
}

// ProfessionalRepository интерфейс получения специалиста
type ProfessionalRepository interface {
	GetProfessional(ctx context.Context, id uuid.UUID) (*domain.Professional, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
