package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ConsultBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
)

const (
	HeaderUserID    = "X-User-ID"
	HeaderActorRole = "X-Actor-Role"

	msgMissingUserID = "отсутствует заголовок X-User-ID"
	msgInvalidUserID = "некорректный X-User-ID"
	msgInvalidRole   = "некорректный X-Actor-Role"
)

type contextKey int

const (
	userIDKey contextKey = iota
	actorRoleKey
)

// Auth извлекает идентичность вызывающего из заголовков, выставленных шлюзом.
// X-User-ID обязателен, X-Actor-Role опционален и проверяется, если передан.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(HeaderUserID)
		if raw == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgInvalidUserID)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)

		if rawRole := r.Header.Get(HeaderActorRole); rawRole != "" {
			role, err := domain.ParseActorRole(rawRole)
			if err != nil {
				handlers.RespondBadRequest(w, msgInvalidRole)
				return
			}
			ctx = context.WithValue(ctx, actorRoleKey, role)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID возвращает ID пользователя, установленный Auth
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}

// GetActorRole возвращает роль вызывающего, если она была передана
func GetActorRole(ctx context.Context) (domain.ActorRole, bool) {
	role, ok := ctx.Value(actorRoleKey).(domain.ActorRole)
	return role, ok
}
