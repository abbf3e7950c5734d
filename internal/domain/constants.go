package domain

import "errors"

// ErrMalformedInterval marks a working interval row with unparseable bounds or start >= end
var ErrMalformedInterval = errors.New("domain: malformed working interval")

// Business validation constants
const (
	MinServiceDurationMinutes   = 5
	MaxServiceDurationMinutes   = 24 * 60
	MaxNotesLength              = 1000
	MaxCancellationReasonLength = 500
	MaxClientNameLength         = 200
	MaxPhoneLength              = 32
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// DefaultTimezone used when an account has no timezone configured
const DefaultTimezone = "UTC"
