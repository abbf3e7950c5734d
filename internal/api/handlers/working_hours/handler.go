package working_hours

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule/models"
)

const (
	msgMissingAccountID      = "отсутствует ID аккаунта"
	msgInvalidProfessionalID = "некорректный ID специалиста"
	msgInvalidIntervalID     = "некорректный ID рабочего интервала"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgProfessionalNotFound  = "специалист не найден"
	msgIntervalNotFound      = "рабочий интервал не найден"
	msgInvalidTimeRange      = "время начала должно быть раньше времени окончания"
	msgInvalidData           = "некорректные данные рабочего интервала"
)

// Handler управление рабочими часами специалиста
type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List GET /api/v1/accounts/{accountId}/professionals/{professionalId}/working-hours
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	accountID, professionalID, ok := h.identify(w, r, "GET /working-hours")
	if !ok {
		return
	}

	result, err := h.service.ListWorkingIntervals(r.Context(), accountID, professionalID)
	if err != nil {
		h.respondError(w, "GET /working-hours", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Create POST /api/v1/accounts/{accountId}/professionals/{professionalId}/working-hours
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	accountID, professionalID, ok := h.identify(w, r, "POST /working-hours")
	if !ok {
		return
	}

	var req models.CreateWorkingIntervalRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /working-hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateWorkingInterval(r.Context(), accountID, professionalID, &req)
	if err != nil {
		h.respondError(w, "POST /working-hours", err)
		return
	}

	h.logger.Info("POST /working-hours - Interval created: interval_id=%s, professional_id=%s", result.ID, professionalID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Delete DELETE /api/v1/accounts/{accountId}/professionals/{professionalId}/working-hours/{intervalId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	accountID, professionalID, ok := h.identify(w, r, "DELETE /working-hours/{id}")
	if !ok {
		return
	}

	intervalID, err := handlers.PathUUID(r, "intervalId")
	if err != nil {
		h.logger.Warn("DELETE /working-hours/{id} - Invalid interval ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidIntervalID)
		return
	}

	if err := h.service.DeleteWorkingInterval(r.Context(), accountID, professionalID, intervalID); err != nil {
		h.respondError(w, "DELETE /working-hours/{id}", err)
		return
	}

	h.logger.Info("DELETE /working-hours/{id} - Interval deleted: interval_id=%s", intervalID)
	handlers.RespondNoContent(w)
}

func (h *Handler) identify(w http.ResponseWriter, r *http.Request, op string) (uuid.UUID, uuid.UUID, bool) {
	accountID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing account ID", op)
		handlers.RespondUnauthorized(w, msgMissingAccountID)
		return uuid.Nil, uuid.Nil, false
	}

	professionalID, err := handlers.PathUUID(r, "professionalId")
	if err != nil {
		h.logger.Warn("%s - Invalid professional ID: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return uuid.Nil, uuid.Nil, false
	}

	return accountID, professionalID, true
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, schedule.ErrProfessionalNotFound):
		h.logger.Warn("%s - Professional not found", op)
		handlers.RespondNotFound(w, msgProfessionalNotFound)

	case errors.Is(err, schedule.ErrIntervalNotFound):
		h.logger.Warn("%s - Interval not found", op)
		handlers.RespondNotFound(w, msgIntervalNotFound)

	case errors.Is(err, schedule.ErrInvalidTimeRange):
		h.logger.Warn("%s - Invalid time range: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidTimeRange)

	case errors.Is(err, schedule.ErrInvalidInput):
		h.logger.Warn("%s - Invalid data: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidData)

	default:
		h.logger.Error("%s - Failed: %v", op, err)
		handlers.RespondInternalError(w)
	}
}
