package list_reservations

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/reservations/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// professionalId, from, to, status, includeCancelled
func ToServiceRequest(accountID uuid.UUID, query url.Values) (*models.ListReservationsRequest, error) {
	req := &models.ListReservationsRequest{AccountID: accountID}

	if raw := query.Get("professionalId"); raw != "" {
		professionalID, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid professionalId: %w", err)
		}
		req.ProfessionalID = &professionalID
	}

	if raw := query.Get("from"); raw != "" {
		from, err := parseInstant(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid from: %w", err)
		}
		req.From = &from
	}

	if raw := query.Get("to"); raw != "" {
		to, err := parseInstant(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid to: %w", err)
		}
		req.To = &to
	}

	if raw := query.Get("status"); raw != "" {
		req.Status = &raw
	}

	if raw := query.Get("includeCancelled"); raw != "" {
		includeCancelled, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid includeCancelled value: %w", err)
		}
		req.IncludeCancelled = includeCancelled
	}

	return req, nil
}

// parseInstant принимает RFC3339 или дату YYYY-MM-DD (начало суток UTC)
func parseInstant(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse(domain.DateFormat, raw)
}
