package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
)

// AccountIDHeader заголовок с ID аккаунта, от имени которого выполняется запрос
const AccountIDHeader = "X-Account-ID"

const (
	msgMissingAccountID = "отсутствует заголовок X-Account-ID"
	msgInvalidAccountID = "некорректный ID аккаунта"
	msgForbidden        = "доступ запрещен"
)

type contextKey string

const accountIDKey contextKey = "account_id"

// Auth проверяет заголовок X-Account-ID и кладет ID аккаунта в контекст.
// Если маршрут содержит {accountId}, он должен совпадать с заголовком.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(AccountIDHeader))
		if raw == "" {
			handlers.RespondUnauthorized(w, msgMissingAccountID)
			return
		}

		accountID, err := uuid.Parse(raw)
		if err != nil {
			handlers.RespondUnauthorized(w, msgInvalidAccountID)
			return
		}

		if pathID, ok := mux.Vars(r)["accountId"]; ok {
			routeAccountID, err := uuid.Parse(pathID)
			if err != nil {
				handlers.RespondBadRequest(w, msgInvalidAccountID)
				return
			}
			if routeAccountID != accountID {
				handlers.RespondForbidden(w, msgForbidden)
				return
			}
		}

		ctx := context.WithValue(r.Context(), accountIDKey, accountID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetAccountID возвращает ID аккаунта из контекста запроса
func GetAccountID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(accountIDKey).(uuid.UUID)
	return id, ok
}
