package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is the tenant owning professionals, services and reservations.
// Its booking policy drives lead-time filtering.
type Account struct {
	ID              uuid.UUID
	Name            string
	Timezone        string  // IANA zone used to interpret calendar dates
	MinBookingHours float64 // minimum lead time before a slot may be booked
	MinCancelHours  float64 // minimum lead time before a client may cancel
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Location resolves the account timezone, falling back to fallback when unset or unknown
func (a *Account) Location(fallback *time.Location) *time.Location {
	if a.Timezone == "" {
		return fallback
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return fallback
	}
	return loc
}

// MinBookingLead returns the booking lead time as a duration
func (a *Account) MinBookingLead() time.Duration {
	return hoursToDuration(a.MinBookingHours)
}

// MinCancelLead returns the cancellation lead time as a duration
func (a *Account) MinCancelLead() time.Duration {
	return hoursToDuration(a.MinCancelHours)
}

// AccountPolicyUpdate partial update of the account booking policy, nil fields stay unchanged
type AccountPolicyUpdate struct {
	Timezone        *string
	MinBookingHours *float64
	MinCancelHours  *float64
}

// Professional performs services for an account
type Professional struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Name      string
	Email     *string
	Active    bool
}

// Service is a bookable offering. Duration is the sole driver of slot granularity.
type Service struct {
	ID              uuid.UUID
	AccountID       uuid.UUID
	Name            string
	DurationMinutes int
	Price           decimal.Decimal
	Active          bool
}

// Duration returns the service length
func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

func hoursToDuration(hours float64) time.Duration {
	if hours <= 0 {
		return 0
	}
	return time.Duration(hours * float64(time.Hour))
}
