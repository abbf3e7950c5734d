package blocks

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule/models"
)

const (
	msgMissingAccountID      = "отсутствует ID аккаунта"
	msgInvalidProfessionalID = "некорректный ID специалиста"
	msgInvalidBlockID        = "некорректный ID блокировки"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidParams         = "некорректные параметры запроса"
	msgProfessionalNotFound  = "специалист не найден"
	msgBlockNotFound         = "блокировка не найдена"
	msgInvalidTimeRange      = "начало периода должно быть раньше окончания"
	msgInvalidData           = "некорректные данные блокировки"
)

// Handler управление блокировками времени специалиста
type Handler struct {
	service ScheduleService
	logger  Logger
	now     func() time.Time
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		now:     time.Now,
	}
}

// List GET /api/v1/accounts/{accountId}/professionals/{professionalId}/blocks
// Query params: from, to (опционально)
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	accountID, professionalID, ok := h.identify(w, r, "GET /blocks")
	if !ok {
		return
	}

	from, to, err := parsePeriod(r.URL.Query(), h.now().UTC())
	if err != nil {
		h.logger.Warn("GET /blocks - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListBlocks(r.Context(), accountID, professionalID, from, to)
	if err != nil {
		h.respondError(w, "GET /blocks", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Create POST /api/v1/accounts/{accountId}/professionals/{professionalId}/blocks
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	accountID, professionalID, ok := h.identify(w, r, "POST /blocks")
	if !ok {
		return
	}

	var req models.CreateBlockRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /blocks - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateBlock(r.Context(), accountID, professionalID, &req)
	if err != nil {
		h.respondError(w, "POST /blocks", err)
		return
	}

	h.logger.Info("POST /blocks - Block created: block_id=%s, professional_id=%s", result.ID, professionalID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Delete DELETE /api/v1/accounts/{accountId}/professionals/{professionalId}/blocks/{blockId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	accountID, professionalID, ok := h.identify(w, r, "DELETE /blocks/{id}")
	if !ok {
		return
	}

	blockID, err := handlers.PathUUID(r, "blockId")
	if err != nil {
		h.logger.Warn("DELETE /blocks/{id} - Invalid block ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBlockID)
		return
	}

	if err := h.service.DeleteBlock(r.Context(), accountID, professionalID, blockID); err != nil {
		h.respondError(w, "DELETE /blocks/{id}", err)
		return
	}

	h.logger.Info("DELETE /blocks/{id} - Block deleted: block_id=%s", blockID)
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

	case errors.Is(err, schedule.ErrBlockNotFound):
		h.logger.Warn("%s - Block not found", op)
		handlers.RespondNotFound(w, msgBlockNotFound)

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
