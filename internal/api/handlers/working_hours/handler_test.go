package working_hours

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
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type stubService struct {
	created   *models.CreateWorkingIntervalRequest
	deletedID uuid.UUID
	err       error
}

func (s *stubService) ListWorkingIntervals(_ context.Context, _, professionalID uuid.UUID) (*models.WorkingIntervalListResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.WorkingIntervalListResponse{Intervals: []models.WorkingIntervalResponse{
		{ID: uuid.New(), ProfessionalID: professionalID, DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", Active: true},
	}}, nil
}

func (s *stubService) CreateWorkingInterval(_ context.Context, _, professionalID uuid.UUID, req *models.CreateWorkingIntervalRequest) (*models.WorkingIntervalResponse, error) {
	s.created = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.WorkingIntervalResponse{ID: uuid.New(), ProfessionalID: professionalID, DayOfWeek: *req.DayOfWeek}, nil
}

func (s *stubService) DeleteWorkingInterval(_ context.Context, _, _, intervalID uuid.UUID) error {
	s.deletedID = intervalID
	return s.err
}

func newRouter(svc *stubService) *mux.Router {
	h := NewHandler(svc, nopLogger{})
	r := mux.NewRouter()
	protected := r.PathPrefix("/accounts/{accountId}").Subrouter()
	protected.Use(middleware.Auth)
	protected.HandleFunc("/professionals/{professionalId}/working-hours", h.List).Methods(http.MethodGet)
	protected.HandleFunc("/professionals/{professionalId}/working-hours", h.Create).Methods(http.MethodPost)
	protected.HandleFunc("/professionals/{professionalId}/working-hours/{intervalId}", h.Delete).Methods(http.MethodDelete)
	return r
}

func do(r *mux.Router, method, path, body string, accountID uuid.UUID) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(middleware.AccountIDHeader, accountID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWorkingHours_Flow(t *testing.T) {
	svc := &stubService{}
	r := newRouter(svc)
	accountID, professionalID := uuid.New(), uuid.New()
	base := "/accounts/" + accountID.String() + "/professionals/" + professionalID.String() + "/working-hours"

	w := do(r, http.MethodGet, base, "", accountID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"startTime":"09:00"`)

	w = do(r, http.MethodPost, base, `{"dayOfWeek":0,"startTime":"10:00","endTime":"14:00"}`, accountID)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.created)
	require.NotNil(t, svc.created.DayOfWeek)
	assert.Equal(t, 0, *svc.created.DayOfWeek)

	intervalID := uuid.New()
	w = do(r, http.MethodDelete, base+"/"+intervalID.String(), "", accountID)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, intervalID, svc.deletedID)
}

func TestWorkingHours_Errors(t *testing.T) {
	accountID, professionalID := uuid.New(), uuid.New()
	base := "/accounts/" + accountID.String() + "/professionals/" + professionalID.String() + "/working-hours"

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "foreign professional", err: schedule.ErrProfessionalNotFound, wantStatus: http.StatusNotFound},
		{name: "start after end", err: schedule.ErrInvalidTimeRange, wantStatus: http.StatusBadRequest},
		{name: "bad day", err: schedule.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "internal", err: schedule.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&stubService{err: tt.err})
			w := do(r, http.MethodPost, base, `{"dayOfWeek":1,"startTime":"18:00","endTime":"09:00"}`, accountID)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}

	r := newRouter(&stubService{err: schedule.ErrIntervalNotFound})
	w := do(r, http.MethodDelete, base+"/"+uuid.NewString(), "", accountID)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodDelete, base+"/nope", "", accountID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
