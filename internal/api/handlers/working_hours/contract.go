package working_hours

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule/models"
)

type ScheduleService interface {
	ListWorkingIntervals(ctx context.Context, accountID, professionalID uuid.UUID) (*models.WorkingIntervalListResponse, error)
	CreateWorkingInterval(ctx context.Context, accountID, professionalID uuid.UUID, req *models.CreateWorkingIntervalRequest) (*models.WorkingIntervalResponse, error)
	DeleteWorkingInterval(ctx context.Context, accountID, professionalID, intervalID uuid.UUID) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
