package blocks

import (
	"fmt"
	"net/url"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// defaultListDays период по умолчанию, если from/to не заданы
const defaultListDays = 30

// parsePeriod читает from/to (RFC3339 или YYYY-MM-DD). Без параметров - [now, now+30 дней)
func parsePeriod(query url.Values, now time.Time) (time.Time, time.Time, error) {
	from := now
	if raw := query.Get("from"); raw != "" {
		t, err := parseInstant(raw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid from: %w", err)
		}
		from = t
	}

	to := from.AddDate(0, 0, defaultListDays)
	if raw := query.Get("to"); raw != "" {
		t, err := parseInstant(raw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid to: %w", err)
		}
		to = t
	}

	return from, to, nil
}

func parseInstant(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse(domain.DateFormat, raw)
}
