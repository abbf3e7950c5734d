package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	createReservation "github.com/m04kA/SMC-AvailabilityService/internal/usecase/create_reservation"
)

const (
	msgInvalidAccountID     = "некорректный ID аккаунта"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime          = "некорректный формат времени начала, ожидается HH:MM"
	msgInvalidRequest       = "некорректные данные бронирования"
	msgInvalidClientInfo    = "некорректные контактные данные клиента"
	msgSlotUnavailable      = "выбранное время уже недоступно, выберите другой слот"
	msgAccountNotFound      = "аккаунт не найден"
	msgServiceNotFound      = "услуга не найдена"
	msgProfessionalNotFound = "специалист не найден"
	msgServiceNotOffered    = "специалист не оказывает эту услугу"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/accounts/{accountId}/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	accountID, err := handlers.PathUUID(r, "accountId")
	if err != nil {
		h.logger.Warn("POST /reservations - Invalid account ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAccountID)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(accountID)
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrSlotUnavailable):
			h.logger.Warn("POST /reservations - Slot unavailable: professional_id=%s, date=%s, time=%s",
				req.ProfessionalID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, createReservation.ErrAccountNotFound):
			h.logger.Warn("POST /reservations - Account not found: account_id=%s", accountID)
			handlers.RespondNotFound(w, msgAccountNotFound)

		case errors.Is(err, createReservation.ErrServiceNotFound):
			h.logger.Warn("POST /reservations - Service not found: service_id=%s", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createReservation.ErrProfessionalNotFound):
			h.logger.Warn("POST /reservations - Professional not found: professional_id=%s", req.ProfessionalID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		case errors.Is(err, createReservation.ErrServiceNotOffered):
			h.logger.Warn("POST /reservations - Service not offered: professional_id=%s, service_id=%s",
				req.ProfessionalID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotOffered)

		case errors.Is(err, createReservation.ErrInvalidClientInfo):
			h.logger.Warn("POST /reservations - Invalid client info: %v", err)
			handlers.RespondBadRequest(w, msgInvalidClientInfo)

		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: account_id=%s, professional_id=%s, error=%v",
				accountID, req.ProfessionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Reservation created: reservation_id=%s, professional_id=%s",
		result.ReservationID, req.ProfessionalID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
