package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-CarReservation/internal/api/handlers"
	"github.com/m04kA/SMC-CarReservation/internal/service/users"
	"github.com/m04kA/SMC-CarReservation/pkg/token"
)

type contextKey string

const (
	userIDKey contextKey = "userID"
	emailKey  contextKey = "email"
	tokenKey  contextKey = "token"

	msgMissingToken = "требуется авторизация"
	msgInvalidToken = "недействительный токен"
)

// Authenticator проверяет токен доступа
type Authenticator interface {
	Authenticate(ctx context.Context, tokenString string) (*token.Claims, error)
}

// Auth пропускает только запросы с действительным Bearer токеном
func Auth(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}

			ctx, err := authenticate(r.Context(), authenticator, raw)
			if err != nil {
				respondAuthError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth определяет пользователя, если токен передан.
// Запрос без токена проходит анонимно, с недействительным токеном - отклоняется.
func OptionalAuth(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx, err := authenticate(r.Context(), authenticator, raw)
			if err != nil {
				respondAuthError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID возвращает ID пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}

// GetEmail возвращает email пользователя из контекста
func GetEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(emailKey).(string)
	return email, ok
}

// GetToken возвращает исходный токен запроса
func GetToken(ctx context.Context) (string, bool) {
	raw, ok := ctx.Value(tokenKey).(string)
	return raw, ok
}

// WithUser кладет пользователя в контекст
func WithUser(ctx context.Context, userID int64, email, raw string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, emailKey, email)
	return context.WithValue(ctx, tokenKey, raw)
}

func authenticate(ctx context.Context, authenticator Authenticator, raw string) (context.Context, error) {
	claims, err := authenticator.Authenticate(ctx, raw)
	if err != nil {
		return nil, err
	}
	return WithUser(ctx, claims.UserID, claims.Email, raw), nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, raw, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

func respondAuthError(w http.ResponseWriter, err error) {
	if errors.Is(err, users.ErrInternal) {
		handlers.RespondInternalError(w)
		return
	}
	handlers.RespondUnauthorized(w, msgInvalidToken)
}
