package create_reservation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	createReservation "github.com/m04kA/SMC-AvailabilityService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type stubUseCase struct {
	got  *createReservation.Request
	resp *createReservation.Response
	err  error
}

func (s *stubUseCase) Execute(_ context.Context, req *createReservation.Request) (*createReservation.Response, error) {
	s.got = req
	return s.resp, s.err
}

func serve(uc *stubUseCase, accountID, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/accounts/{accountId}/reservations", NewHandler(uc, nopLogger{}).Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/"+accountID+"/reservations", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validBody(serviceID, professionalID uuid.UUID) string {
	return fmt.Sprintf(`{
		"serviceId": %q,
		"professionalId": %q,
		"client": {"email": "anna@example.com", "name": "Анна"},
		"date": "2030-01-07",
		"startTime": "10:00",
		"notes": "первый визит"
	}`, serviceID, professionalID)
}

func TestHandle_Created(t *testing.T) {
	accountID, serviceID, professionalID := uuid.New(), uuid.New(), uuid.New()
	reservationID := uuid.New()
	uc := &stubUseCase{resp: &createReservation.Response{
		ReservationID: reservationID,
		ClientID:      uuid.New(),
		StartTime:     time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC),
		EndTime:       time.Date(2030, 1, 7, 11, 0, 0, 0, time.UTC),
		Status:        "pending",
		TotalAmount:   decimal.RequireFromString("1500"),
	}}

	w := serve(uc, accountID.String(), validBody(serviceID, professionalID))
	require.Equal(t, http.StatusCreated, w.Code)

	var body ReservationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, reservationID, body.ReservationID)
	assert.Equal(t, "2030-01-07T10:00:00Z", body.StartTime)

	require.NotNil(t, uc.got)
	assert.Equal(t, accountID, uc.got.AccountID)
	assert.Equal(t, types.TimeString("10:00"), uc.got.StartTime)
	assert.Equal(t, "anna@example.com", uc.got.Client.Email)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "slot unavailable", err: createReservation.ErrSlotUnavailable, wantStatus: http.StatusConflict},
		{name: "service not found", err: createReservation.ErrServiceNotFound, wantStatus: http.StatusNotFound},
		{name: "professional not found", err: createReservation.ErrProfessionalNotFound, wantStatus: http.StatusNotFound},
		{name: "service not offered", err: createReservation.ErrServiceNotOffered, wantStatus: http.StatusNotFound},
		{name: "invalid client", err: createReservation.ErrInvalidClientInfo, wantStatus: http.StatusBadRequest},
		{name: "invalid input", err: createReservation.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "internal", err: createReservation.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubUseCase{err: fmt.Errorf("%w: details", tt.err)}
			w := serve(uc, uuid.NewString(), validBody(uuid.New(), uuid.New()))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestHandle_BadRequest(t *testing.T) {
	accountID := uuid.NewString()
	serviceID, professionalID := uuid.New(), uuid.New()

	tests := []struct {
		name      string
		accountID string
		body      string
	}{
		{name: "invalid account id", accountID: "abc", body: validBody(serviceID, professionalID)},
		{name: "malformed json", accountID: accountID, body: `{"serviceId":`},
		{name: "bad date", accountID: accountID, body: strings.Replace(validBody(serviceID, professionalID), "2030-01-07", "07.01.2030", 1)},
		{name: "bad time", accountID: accountID, body: strings.Replace(validBody(serviceID, professionalID), `"10:00"`, `"10h"`, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubUseCase{}
			w := serve(uc, tt.accountID, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Nil(t, uc.got)
		})
	}
}
