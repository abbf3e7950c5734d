package availability

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// DayAgenda everything slot computation needs for one professional on one calendar day.
// Loaded in one go by the read side so that the computation itself does no I/O.
type DayAgenda struct {
	Date         time.Time      // calendar day, time of day is ignored
	Location     *time.Location // account presentation timezone, UTC when nil
	Intervals    []domain.WorkingInterval
	Blocks       []domain.Block
	Reservations []domain.Reservation
}

// SkippedInterval a working interval row ignored because of malformed data
type SkippedInterval struct {
	Interval domain.WorkingInterval
	Err      error
}

// Result output of ComputeSlots
type Result struct {
	Slots   []types.TimeString
	Skipped []SkippedInterval
}

type candidate struct {
	minute int
	start  time.Time
	end    time.Time
}

// ComputeSlots returns the ordered, de-duplicated start times bookable on agenda.Date
// for a service of durationMinutes.
//
// Candidates are generated per working interval in steps of the duration and must fit
// entirely inside the interval. A candidate is dropped when it starts before the current
// minute, when agenda.Date is today and it starts before now+minBookingHours, or when
// [start, start+duration) overlaps a block or a non-cancelled reservation.
func ComputeSlots(agenda DayAgenda, durationMinutes int, minBookingHours float64, now time.Time) Result {
	result := Result{Slots: []types.TimeString{}}
	if durationMinutes <= 0 {
		return result
	}

	candidates, skipped := generateCandidates(agenda, durationMinutes)
	result.Skipped = skipped
	if len(candidates) == 0 {
		return result
	}

	cutoff := leadCutoff(agenda, minBookingHours, now)
	seen := make(map[int]struct{}, len(candidates))
	minutes := make([]int, 0, len(candidates))

	for _, c := range candidates {
		if _, dup := seen[c.minute]; dup {
			continue
		}
		if rejectReason(c, agenda, cutoff, now) != nil {
			continue
		}
		seen[c.minute] = struct{}{}
		minutes = append(minutes, c.minute)
	}

	sort.Ints(minutes)
	for _, m := range minutes {
		ts, err := types.NewTimeStringFromMinutes(m)
		if err != nil {
			continue
		}
		result.Slots = append(result.Slots, ts)
	}

	return result
}

// CheckSlot re-runs the slot derivation for a single start time and reports why it is
// not bookable, or nil when ComputeSlots would return it.
func CheckSlot(agenda DayAgenda, start types.TimeString, durationMinutes int, minBookingHours float64, now time.Time) error {
	if durationMinutes <= 0 {
		return ErrInvalidDuration
	}
	minute, err := start.Minutes()
	if err != nil {
		return ErrInvalidStart
	}

	candidates, _ := generateCandidates(agenda, durationMinutes)
	cutoff := leadCutoff(agenda, minBookingHours, now)

	for _, c := range candidates {
		if c.minute == minute {
			return rejectReason(c, agenda, cutoff, now)
		}
	}

	return ErrOutsideWorkingHours
}

// Overlaps half-open interval overlap: touching ranges do not overlap
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// DayStart midnight of the calendar day of date, interpreted in loc
func DayStart(date time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DayBounds [midnight, next midnight) of the calendar day of date in loc
func DayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	start := DayStart(date, loc)
	return start, start.AddDate(0, 0, 1)
}

// IsToday reports whether the calendar day of date is the current day in loc
func IsToday(date time.Time, now time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	y1, m1, d1 := date.Date()
	y2, m2, d2 := now.In(loc).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (a DayAgenda) location() *time.Location {
	if a.Location == nil {
		return time.UTC
	}
	return a.Location
}

func generateCandidates(agenda DayAgenda, durationMinutes int) ([]candidate, []SkippedInterval) {
	loc := agenda.location()
	day := DayStart(agenda.Date, loc)
	weekday := int(day.Weekday())
	duration := time.Duration(durationMinutes) * time.Minute

	var (
		candidates []candidate
		skipped    []SkippedInterval
	)

	for _, interval := range agenda.Intervals {
		if !interval.Active || interval.DayOfWeek != weekday {
			continue
		}

		startMin, endMin, err := interval.Bounds()
		if err != nil {
			skipped = append(skipped, SkippedInterval{Interval: interval, Err: err})
			continue
		}

		for m := startMin; m+durationMinutes <= endMin; m += durationMinutes {
			y, mo, d := day.Date()
			slotStart := time.Date(y, mo, d, 0, m, 0, 0, loc)
			// wall time skipped by a DST transition is normalised to a later instant
			if slotStart.Hour()*60+slotStart.Minute() != m {
				continue
			}
			candidates = append(candidates, candidate{
				minute: m,
				start:  slotStart,
				end:    slotStart.Add(duration),
			})
		}
	}

	return candidates, skipped
}

// leadCutoff earliest allowed slot start, or zero time when no lead-time filter applies.
// Only today is lead-time filtered.
func leadCutoff(agenda DayAgenda, minBookingHours float64, now time.Time) time.Time {
	if !IsToday(agenda.Date, now, agenda.location()) {
		return time.Time{}
	}
	if minBookingHours < 0 {
		minBookingHours = 0
	}
	lead := time.Duration(minBookingHours * float64(time.Hour))
	return now.Add(lead).Truncate(time.Minute)
}

func rejectReason(c candidate, agenda DayAgenda, cutoff time.Time, now time.Time) error {
	if c.start.Before(now.Truncate(time.Minute)) {
		return ErrInPast
	}

	if !cutoff.IsZero() && c.start.Before(cutoff) {
		return ErrLeadTime
	}

	for i := range agenda.Blocks {
		if agenda.Blocks[i].Overlaps(c.start, c.end) {
			return ErrBlocked
		}
	}

	for i := range agenda.Reservations {
		r := &agenda.Reservations[i]
		if !r.OccupiesTime() {
			continue
		}
		if Overlaps(c.start, c.end, r.StartTime, r.EndTime) {
			return ErrOccupied
		}
	}

	return nil
}
