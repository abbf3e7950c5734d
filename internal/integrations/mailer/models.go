package mailer

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingConfirmation данные письма с подтверждением бронирования
type BookingConfirmation struct {
	ReservationID    uuid.UUID
	ClientEmail      string
	ClientName       string
	ServiceName      string
	ProfessionalName string
	StartTime        time.Time // во времени аккаунта
	EndTime          time.Time
	TotalAmount      decimal.Decimal
	Notes            *string
}
