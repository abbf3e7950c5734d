package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// WorkingInterval is a recurring weekly period a professional is available.
// Several intervals per day are allowed (split shifts).
type WorkingInterval struct {
	ID             uuid.UUID
	ProfessionalID uuid.UUID
	DayOfWeek      int // 0 = Sunday ... 6 = Saturday
	StartTime      types.TimeString
	EndTime        types.TimeString
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Bounds returns start and end in minutes since midnight.
// It fails with ErrMalformedInterval when a bound cannot be parsed or start >= end.
func (w *WorkingInterval) Bounds() (int, int, error) {
	start, err := w.StartTime.Minutes()
	if err != nil {
		return 0, 0, ErrMalformedInterval
	}
	end, err := w.EndTime.Minutes()
	if err != nil {
		return 0, 0, ErrMalformedInterval
	}
	if start >= end {
		return 0, 0, ErrMalformedInterval
	}
	return start, end, nil
}

// Block is an explicit closed time range (vacation, leave) when no bookings are allowed
type Block struct {
	ID             uuid.UUID
	ProfessionalID uuid.UUID
	StartTime      time.Time
	EndTime        time.Time
	Reason         *string
	CreatedAt      time.Time
}

// Overlaps reports half-open overlap of the block with [start, end)
func (b *Block) Overlaps(start, end time.Time) bool {
	return start.Before(b.EndTime) && end.After(b.StartTime)
}
