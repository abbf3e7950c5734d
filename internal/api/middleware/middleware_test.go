package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Warn(string, ...interface{}) {}

func newAuthRouter(seen *uuid.UUID) *mux.Router {
	r := mux.NewRouter()
	protected := r.PathPrefix("/accounts/{accountId}").Subrouter()
	protected.Use(Auth)
	protected.HandleFunc("/reservations", func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetAccountID(r.Context())
		if ok {
			*seen = id
		}
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func TestAuth(t *testing.T) {
	accountID := uuid.New()

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
	}{
		{name: "matching header", path: "/accounts/" + accountID.String() + "/reservations", header: accountID.String(), wantStatus: http.StatusOK},
		{name: "missing header", path: "/accounts/" + accountID.String() + "/reservations", wantStatus: http.StatusUnauthorized},
		{name: "malformed header", path: "/accounts/" + accountID.String() + "/reservations", header: "42", wantStatus: http.StatusUnauthorized},
		{name: "other account", path: "/accounts/" + uuid.NewString() + "/reservations", header: accountID.String(), wantStatus: http.StatusForbidden},
		{name: "malformed path id", path: "/accounts/abc/reservations", header: accountID.String(), wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen uuid.UUID
			router := newAuthRouter(&seen)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(AccountIDHeader, tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, accountID, seen)
			}
		})
	}
}

type recordingMetrics struct {
	mu     sync.Mutex
	routes []string
	codes  []string
}

func (m *recordingMetrics) ObserveHTTPRequest(_, route, status string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes = append(m.routes, route)
	m.codes = append(m.codes, status)
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	collector := &recordingMetrics{}
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(collector))
	r.HandleFunc("/reservations/{reservationId}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reservations/"+uuid.NewString(), nil))

	require.Len(t, collector.routes, 1)
	assert.Equal(t, "/reservations/{reservationId}", collector.routes[0])
	assert.Equal(t, "404", collector.codes[0])
}

func newTestLimiter(t *testing.T, rps float64, burst int, trusted ...string) (*RateLimiter, *time.Time) {
	t.Helper()
	rl, err := NewRateLimiter(rps, burst, trusted, nopLogger{})
	require.NoError(t, err)
	now := time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestRateLimiter(t *testing.T) {
	rl, now := newTestLimiter(t, 1, 2)

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":5555"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1"))

	// другой клиент не затронут
	assert.Equal(t, http.StatusOK, call("10.0.0.2"))

	// через секунду в корзине появляется токен
	*now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
}

func TestRateLimiter_IgnoresForwardedHeaderFromUntrustedPeer(t *testing.T) {
	rl, _ := newTestLimiter(t, 1, 1)

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	allowed := 0
	for i := 0; i < 1000; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.%d.%d", i/256, i%256))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code == http.StatusOK {
			allowed++
		}
	}

	assert.Equal(t, 1, allowed)
	assert.Len(t, rl.limiters, 1)
}

func TestRateLimiter_SweepsIdleClients(t *testing.T) {
	rl, now := newTestLimiter(t, 1, 1)

	require.True(t, rl.allow("10.0.0.1"))
	require.True(t, rl.allow("10.0.0.2"))
	assert.Len(t, rl.limiters, 2)

	*now = now.Add(idleLimiterTTL + time.Second)
	require.True(t, rl.allow("10.0.0.3"))

	assert.Len(t, rl.limiters, 1)
	assert.Contains(t, rl.limiters, "10.0.0.3")
}

func TestClientIP(t *testing.T) {
	rl, _ := newTestLimiter(t, 1, 1, "10.0.0.0/8", "192.168.1.10")

	tests := []struct {
		name      string
		remote    string
		forwarded string
		realIP    string
		want      string
	}{
		{"no headers", "192.168.1.10:1234", "", "", "192.168.1.10"},
		{"untrusted peer ignores headers", "203.0.113.9:1234", "198.51.100.1", "198.51.100.2", "203.0.113.9"},
		{"trusted peer uses forwarded", "192.168.1.10:1234", "203.0.113.5", "", "203.0.113.5"},
		{"rightmost untrusted hop wins", "10.0.0.1:1234", "198.51.100.7, 203.0.113.5, 10.0.0.2", "", "203.0.113.5"},
		{"trusted peer falls back to real ip", "10.0.0.1:1234", "", "203.0.113.8", "203.0.113.8"},
		{"garbage header keeps peer", "10.0.0.1:1234", "not-an-ip", "", "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			assert.Equal(t, tt.want, rl.clientIP(req))
		})
	}
}

func TestNewRateLimiter_InvalidTrustedProxy(t *testing.T) {
	_, err := NewRateLimiter(1, 1, []string{"10.0.0.0/33"}, nopLogger{})
	assert.Error(t, err)

	_, err = NewRateLimiter(1, 1, []string{"proxy.local"}, nopLogger{})
	assert.Error(t, err)
}
