package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Request модели

// CreateWorkingIntervalRequest запрос на создание рабочего интервала.
// DayOfWeek: 0 - воскресенье ... 6 - суббота. Время "HH:MM", конец может быть "24:00"
type CreateWorkingIntervalRequest struct {
	DayOfWeek *int   `json:"dayOfWeek" validate:"required,min=0,max=6"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
	Active    *bool  `json:"active,omitempty"`
}

// CreateBlockRequest запрос на создание блокировки времени
type CreateBlockRequest struct {
	StartTime time.Time `json:"startTime" validate:"required"`
	EndTime   time.Time `json:"endTime" validate:"required"`
	Reason    *string   `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// Response модели

// WorkingIntervalResponse рабочий интервал специалиста
type WorkingIntervalResponse struct {
	ID             uuid.UUID        `json:"id"`
	ProfessionalID uuid.UUID        `json:"professionalId"`
	DayOfWeek      int              `json:"dayOfWeek"`
	StartTime      types.TimeString `json:"startTime"`
	EndTime        types.TimeString `json:"endTime"`
	Active         bool             `json:"active"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// WorkingIntervalListResponse список рабочих интервалов
type WorkingIntervalListResponse struct {
	Intervals []WorkingIntervalResponse `json:"intervals"`
}

// BlockResponse блокировка времени специалиста
type BlockResponse struct {
	ID             uuid.UUID `json:"id"`
	ProfessionalID uuid.UUID `json:"professionalId"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
	Reason         *string   `json:"reason,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// BlockListResponse список блокировок
type BlockListResponse struct {
	Blocks []BlockResponse `json:"blocks"`
}

// Методы конвертации

// FromDomainWorkingInterval конвертирует domain модель в DTO
func FromDomainWorkingInterval(w *domain.WorkingInterval) WorkingIntervalResponse {
	return WorkingIntervalResponse{
		ID:             w.ID,
		ProfessionalID: w.ProfessionalID,
		DayOfWeek:      w.DayOfWeek,
		StartTime:      w.StartTime,
		EndTime:        w.EndTime,
		Active:         w.Active,
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      w.UpdatedAt,
	}
}

// FromDomainBlock конвертирует domain модель в DTO
func FromDomainBlock(b *domain.Block) BlockResponse {
	return BlockResponse{
		ID:             b.ID,
		ProfessionalID: b.ProfessionalID,
		StartTime:      b.StartTime,
		EndTime:        b.EndTime,
		Reason:         b.Reason,
		CreatedAt:      b.CreatedAt,
	}
}
