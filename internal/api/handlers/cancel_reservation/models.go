package cancel_reservation

import (
	"github.com/m04kA/SMC-AvailabilityService/internal/service/reservations/models"
)

// CancelReservationRequest HTTP request model
type CancelReservationRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
	ByClient           bool    `json:"byClient"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelReservationRequest) ToServiceRequest() *models.CancelReservationRequest {
	return &models.CancelReservationRequest{
		Reason:   r.CancellationReason,
		ByClient: r.ByClient,
	}
}
