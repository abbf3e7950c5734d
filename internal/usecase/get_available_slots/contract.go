package get_available_slots

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// AccountRepository интерфейс репозитория аккаунтов
type AccountRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
}

// CatalogRepository интерфейс каталога услуг и специалистов
type CatalogRepository interface {
	GetService(ctx context.Context, id uuid.UUID) (*domain.Service, error)
	GetProfessional(ctx context.Context, id uuid.UUID) (*domain.Professional, error)
	IsProfessionalAssigned(ctx context.Context, professionalID, serviceID uuid.UUID) (bool, error)
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	ListWorkingIntervals(ctx context.Context, professionalID uuid.UUID, dayOfWeek *int, includeInactive bool) ([]domain.WorkingInterval, error)
	ListBlocks(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]domain.Block, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	List(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
}

// MetricsCollector счётчики, которые пишет use case
type MetricsCollector interface {
	AddSkippedScheduleRows(n int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
