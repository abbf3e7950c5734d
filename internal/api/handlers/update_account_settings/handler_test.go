package update_account_settings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/accounts"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/accounts/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type stubService struct {
	got *models.UpdateSettingsRequest
	err error
}

func (s *stubService) UpdateSettings(_ context.Context, accountID uuid.UUID, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.SettingsResponse{AccountID: accountID, Timezone: *req.Timezone}, nil
}

func serve(svc *stubService, accountID uuid.UUID, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	protected := r.PathPrefix("/api/v1/accounts/{accountId}").Subrouter()
	protected.Use(middleware.Auth)
	protected.HandleFunc("/settings", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodPut)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/accounts/"+accountID.String()+"/settings", strings.NewReader(body))
	req.Header.Set(middleware.AccountIDHeader, accountID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandle_Updated(t *testing.T) {
	svc := &stubService{}
	w := serve(svc, uuid.New(), `{"timezone":"Europe/Moscow","minBookingHours":2}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.got.MinBookingHours)
	assert.Equal(t, 2.0, *svc.got.MinBookingHours)
	assert.Nil(t, svc.got.MinCancelHours)
	assert.Contains(t, w.Body.String(), `"timezone":"Europe/Moscow"`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "timezone", err: accounts.ErrInvalidTimezone, wantStatus: http.StatusBadRequest},
		{name: "lead time", err: accounts.ErrInvalidLeadTime, wantStatus: http.StatusBadRequest},
		{name: "empty", err: accounts.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "not found", err: accounts.ErrAccountNotFound, wantStatus: http.StatusNotFound},
		{name: "internal", err: accounts.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(&stubService{err: tt.err}, uuid.New(), `{"timezone":"Mars/Olympus"}`)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}

	w := serve(&stubService{}, uuid.New(), `{"timezone":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
