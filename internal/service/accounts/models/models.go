package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Request модели

// UpdateSettingsRequest запрос на обновление политики бронирования аккаунта
// Все поля опциональны - обновляются только переданные значения
type UpdateSettingsRequest struct {
	Timezone        *string  `json:"timezone,omitempty"`        // IANA, например "Europe/Moscow"
	MinBookingHours *float64 `json:"minBookingHours,omitempty"` // Минимальное время до начала для записи
	MinCancelHours  *float64 `json:"minCancelHours,omitempty"`  // Минимальное время до начала для отмены клиентом
}

// IsEmpty проверяет, что не передано ни одного поля
func (r *UpdateSettingsRequest) IsEmpty() bool {
	return r.Timezone == nil && r.MinBookingHours == nil && r.MinCancelHours == nil
}

// Response модели

// SettingsResponse политика бронирования аккаунта
type SettingsResponse struct {
	AccountID       uuid.UUID `json:"accountId"`
	Name            string    `json:"name"`
	Timezone        string    `json:"timezone"`
	MinBookingHours float64   `json:"minBookingHours"`
	MinCancelHours  float64   `json:"minCancelHours"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Методы конвертации

// FromDomainAccount конвертирует domain модель в DTO
func FromDomainAccount(a *domain.Account) *SettingsResponse {
	if a == nil {
		return nil
	}

	return &SettingsResponse{
		AccountID:       a.ID,
		Name:            a.Name,
		Timezone:        a.Timezone,
		MinBookingHours: a.MinBookingHours,
		MinCancelHours:  a.MinCancelHours,
		UpdatedAt:       a.UpdatedAt,
	}
}
