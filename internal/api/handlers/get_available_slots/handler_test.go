package get_available_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	getAvailableSlots "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type stubUseCase struct {
	got *getAvailableSlots.Request
	err error
}

func (s *stubUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &getAvailableSlots.Response{
		Date:            req.Date,
		Timezone:        "Europe/Moscow",
		ProfessionalID:  req.ProfessionalID,
		ServiceID:       req.ServiceID,
		DurationMinutes: 60,
		Slots:           []types.TimeString{"09:00", "10:00"},
	}, nil
}

func serve(uc *stubUseCase, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/accounts/{accountId}/professionals/{professionalId}/available-slots",
		NewHandler(uc, nopLogger{}).Handle).Methods(http.MethodGet)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHandle_ReturnsSlots(t *testing.T) {
	accountID, professionalID, serviceID := uuid.New(), uuid.New(), uuid.New()
	uc := &stubUseCase{}

	w := serve(uc, "/api/v1/accounts/"+accountID.String()+"/professionals/"+professionalID.String()+
		"/available-slots?serviceId="+serviceID.String()+"&date=2030-01-07")
	require.Equal(t, http.StatusOK, w.Code)

	var body AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "2030-01-07", body.Date)
	assert.Equal(t, []string{"09:00", "10:00"}, body.Slots)
	assert.Equal(t, "Europe/Moscow", body.Timezone)

	require.NotNil(t, uc.got)
	assert.Equal(t, time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC), uc.got.Date)
	assert.Equal(t, accountID, uc.got.AccountID)
}

func TestHandle_Errors(t *testing.T) {
	base := "/api/v1/accounts/" + uuid.NewString() + "/professionals/" + uuid.NewString() + "/available-slots"
	serviceID := uuid.NewString()

	tests := []struct {
		name       string
		target     string
		err        error
		wantStatus int
	}{
		{name: "missing service", target: base + "?date=2030-01-07", wantStatus: http.StatusBadRequest},
		{name: "missing date", target: base + "?serviceId=" + serviceID, wantStatus: http.StatusBadRequest},
		{name: "bad date", target: base + "?serviceId=" + serviceID + "&date=07.01.2030", wantStatus: http.StatusBadRequest},
		{name: "bad professional", target: "/api/v1/accounts/" + uuid.NewString() + "/professionals/x/available-slots?serviceId=" + serviceID + "&date=2030-01-07", wantStatus: http.StatusBadRequest},
		{name: "not offered", target: base + "?serviceId=" + serviceID + "&date=2030-01-07", err: getAvailableSlots.ErrServiceNotOffered, wantStatus: http.StatusNotFound},
		{name: "professional not found", target: base + "?serviceId=" + serviceID + "&date=2030-01-07", err: getAvailableSlots.ErrProfessionalNotFound, wantStatus: http.StatusNotFound},
		{name: "internal", target: base + "?serviceId=" + serviceID + "&date=2030-01-07", err: getAvailableSlots.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(&stubUseCase{err: tt.err}, tt.target)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
