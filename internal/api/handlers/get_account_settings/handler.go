package get_account_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/accounts"
)

const (
	msgMissingAccountID = "отсутствует ID аккаунта"
	msgNotFound         = "аккаунт не найден"
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

// Handle GET /api/v1/accounts/{accountId}/settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		h.logger.Warn("GET /accounts/{id}/settings - Missing account ID")
		handlers.RespondUnauthorized(w, msgMissingAccountID)
		return
	}

	settings, err := h.service.GetSettings(r.Context(), accountID)
	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrAccountNotFound):
			h.logger.Warn("GET /accounts/{id}/settings - Account not found: account_id=%s", accountID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /accounts/{id}/settings - Failed to get settings: account_id=%s, error=%v", accountID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, settings)
}
