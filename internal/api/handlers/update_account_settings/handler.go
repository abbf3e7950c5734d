package update_account_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/accounts"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/accounts/models"
)

const (
	msgMissingAccountID   = "отсутствует ID аккаунта"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "аккаунт не найден"
	msgInvalidTimezone    = "неизвестный часовой пояс"
	msgInvalidLeadTime    = "некорректное минимальное время до записи или отмены"
	msgInvalidData        = "некорректные данные настроек"
)

type Handler struct {
	service AccountService
	logger  Logger
}

func NewHandler(service AccountService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/accounts/{accountId}/settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		h.logger.Warn("PUT /accounts/{id}/settings - Missing account ID")
		handlers.RespondUnauthorized(w, msgMissingAccountID)
		return
	}

	var req models.UpdateSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /accounts/{id}/settings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	settings, err := h.service.UpdateSettings(r.Context(), accountID, &req)
	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrAccountNotFound):
			h.logger.Warn("PUT /accounts/{id}/settings - Account not found: account_id=%s", accountID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, accounts.ErrInvalidTimezone):
			h.logger.Warn("PUT /accounts/{id}/settings - Invalid timezone: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTimezone)

		case errors.Is(err, accounts.ErrInvalidLeadTime):
			h.logger.Warn("PUT /accounts/{id}/settings - Invalid lead time: %v", err)
			handlers.RespondBadRequest(w, msgInvalidLeadTime)

		case errors.Is(err, accounts.ErrInvalidInput):
			h.logger.Warn("PUT /accounts/{id}/settings - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("PUT /accounts/{id}/settings - Failed to update settings: account_id=%s, error=%v", accountID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /accounts/{id}/settings - Settings updated: account_id=%s, timezone=%s", accountID, settings.Timezone)
	handlers.RespondJSON(w, http.StatusOK, settings)
}
