package create_reservation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/clients"
	createReservation "github.com/m04kA/SMC-AvailabilityService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// ClientInfo контактные данные клиента
type ClientInfo struct {
	Email string  `json:"email"`
	Name  string  `json:"name"`
	Phone *string `json:"phone,omitempty"`
}

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	ServiceID      uuid.UUID  `json:"serviceId"`
	ProfessionalID uuid.UUID  `json:"professionalId"`
	Client         ClientInfo `json:"client"`
	Date           string     `json:"date"`      // "2030-01-07"
	StartTime      string     `json:"startTime"` // "10:00"
	Notes          *string    `json:"notes,omitempty"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ReservationID uuid.UUID       `json:"reservationId"`
	ClientID      uuid.UUID       `json:"clientId"`
	StartTime     string          `json:"startTime"`
	EndTime       string          `json:"endTime"`
	Status        string          `json:"status"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
}

var (
	errInvalidDate = fmt.Errorf("invalid date")
	errInvalidTime = fmt.Errorf("invalid start time")
)

// ToUseCaseRequest конвертирует HTTP запрос в модель use case (с парсингом даты и времени)
func (r *CreateReservationRequest) ToUseCaseRequest(accountID uuid.UUID) (*createReservation.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidTime, err)
	}

	return &createReservation.Request{
		AccountID:      accountID,
		ServiceID:      r.ServiceID,
		ProfessionalID: r.ProfessionalID,
		Client: clients.ContactInfo{
			Email: r.Client.Email,
			Name:  r.Client.Name,
			Phone: r.Client.Phone,
		},
		Date:      date,
		StartTime: startTime,
		Notes:     r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	return &ReservationResponse{
		ReservationID: resp.ReservationID,
		ClientID:      resp.ClientID,
		StartTime:     resp.StartTime.Format(time.RFC3339),
		EndTime:       resp.EndTime.Format(time.RFC3339),
		Status:        resp.Status,
		TotalAmount:   resp.TotalAmount,
	}
}
