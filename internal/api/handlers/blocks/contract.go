package blocks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule/models"
)

type ScheduleService interface {
	ListBlocks(ctx context.Context, accountID, professionalID uuid.UUID, from, to time.Time) (*models.BlockListResponse, error)
	CreateBlock(ctx context.Context, accountID, professionalID uuid.UUID, req *models.CreateBlockRequest) (*models.BlockResponse, error)
	DeleteBlock(ctx context.Context, accountID, professionalID, blockID uuid.UUID) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
