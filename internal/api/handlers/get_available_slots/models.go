package get_available_slots

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string    `json:"date"`     // "2030-01-07"
	Timezone        string    `json:"timezone"` // часовой пояс, в котором заданы слоты
	ProfessionalID  uuid.UUID `json:"professionalId"`
	ServiceID       uuid.UUID `json:"serviceId"`
	DurationMinutes int       `json:"durationMinutes"`
	Slots           []string  `json:"slots"` // ["09:00", "10:00"]
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]string, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, s.String())
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		Timezone:        resp.Timezone,
		ProfessionalID:  resp.ProfessionalID,
		ServiceID:       resp.ServiceID,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}
