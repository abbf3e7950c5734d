package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCompleted ReservationStatus = "completed"
	StatusCancelled ReservationStatus = "cancelled"
)

// Reservation represents a booked appointment of a client with a professional
type Reservation struct {
	ID             uuid.UUID
	AccountID      uuid.UUID
	ServiceID      uuid.UUID
	ProfessionalID uuid.UUID
	ClientID       uuid.UUID
	StartTime      time.Time
	EndTime        time.Time
	Status         ReservationStatus

	// Price snapshot taken at booking time
	TotalAmount decimal.Decimal
	Notes       *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OccupiesTime returns true if the reservation blocks its interval for other bookings
func (r *Reservation) OccupiesTime() bool {
	return r.Status != StatusCancelled
}

// IsCancelled returns true if the reservation has been cancelled
func (r *Reservation) IsCancelled() bool {
	return r.Status == StatusCancelled
}

// CanBeCancelled returns true if the reservation can still be cancelled
func (r *Reservation) CanBeCancelled() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// CanTransitionTo reports whether the status change is allowed
//
//	pending   -> confirmed | cancelled
//	confirmed -> completed | cancelled
func (r *Reservation) CanTransitionTo(next ReservationStatus) bool {
	switch r.Status {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}

// Duration returns the booked length
func (r *Reservation) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// ParseReservationStatus validates a raw status value
func ParseReservationStatus(raw string) (ReservationStatus, bool) {
	s := ReservationStatus(raw)
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return s, true
	default:
		return "", false
	}
}

// ReservationsFilter фильтр для выборки бронирований
type ReservationsFilter struct {
	AccountID        uuid.UUID          // Обязательный параметр
	ProfessionalID   *uuid.UUID         // Фильтр по специалисту (опционально)
	From             *time.Time         // Начало периода, включительно (опционально)
	To               *time.Time         // Конец периода, не включительно (опционально)
	Status           *ReservationStatus // Фильтр по статусу (опционально)
	IncludeCancelled bool               // Включать ли отменённые бронирования
}

// Client a person booking appointments. Identity is global and keyed by email.
type Client struct {
	ID        uuid.UUID
	Email     string
	Name      string
	Phone     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
