package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Request модели

// ListReservationsRequest запрос на получение бронирований аккаунта.
// From/To задают период [From, To), бронирования отбираются по пересечению с ним.
type ListReservationsRequest struct {
	AccountID        uuid.UUID  `json:"accountId"`
	ProfessionalID   *uuid.UUID `json:"professionalId,omitempty"`
	From             *time.Time `json:"from,omitempty"`
	To               *time.Time `json:"to,omitempty"`
	Status           *string    `json:"status,omitempty"`
	IncludeCancelled bool       `json:"includeCancelled,omitempty"`
}

// CancelReservationRequest запрос на отмену бронирования.
// ByClient - отмена по инициативе клиента, на неё действует min_cancel_hours аккаунта
type CancelReservationRequest struct {
	Reason   *string `json:"reason,omitempty"`
	ByClient bool    `json:"byClient"`
}

// UpdateStatusRequest запрос на смену статуса бронирования
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Response модели

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID                 uuid.UUID       `json:"id"`
	AccountID          uuid.UUID       `json:"accountId"`
	ServiceID          uuid.UUID       `json:"serviceId"`
	ProfessionalID     uuid.UUID       `json:"professionalId"`
	ClientID           uuid.UUID       `json:"clientId"`
	StartTime          time.Time       `json:"startTime"`
	EndTime            time.Time       `json:"endTime"`
	Status             string          `json:"status"`
	TotalAmount        decimal.Decimal `json:"totalAmount"`
	Notes              *string         `json:"notes,omitempty"`
	CancellationReason *string         `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time      `json:"cancelledAt,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	return &ReservationResponse{
		ID:                 r.ID,
		AccountID:          r.AccountID,
		ServiceID:          r.ServiceID,
		ProfessionalID:     r.ProfessionalID,
		ClientID:           r.ClientID,
		StartTime:          r.StartTime,
		EndTime:            r.EndTime,
		Status:             string(r.Status),
		TotalAmount:        r.TotalAmount,
		Notes:              r.Notes,
		CancellationReason: r.CancellationReason,
		CancelledAt:        r.CancelledAt,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(list []*domain.Reservation) *ReservationListResponse {
	result := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(list)),
	}
	for _, r := range list {
		result.Reservations = append(result.Reservations, *FromDomainReservation(r))
	}
	return result
}
