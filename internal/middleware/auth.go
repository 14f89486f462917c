package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/aidar/nexus-api/internal/domain"
	"github.com/aidar/nexus-api/internal/service"
)

// ContextKey это кастомный тип для ключей контекста
type ContextKey string

// UserIDKey ключ контекста для ID пользователя
const UserIDKey ContextKey = "user_id"

// TokenValidator проверяет JWT токен
type TokenValidator interface {
	ValidateToken(token string) (*service.Claims, error)
}

// AuthMiddleware создает middleware для валидации JWT токенов из заголовка Authorization
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return authenticate(validator, false)
}

// StreamAuthMiddleware как AuthMiddleware, но дополнительно принимает токен из параметра ?token=.
// Браузерный WebSocket API не умеет передавать заголовки.
func StreamAuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return authenticate(validator, true)
}

func authenticate(validator TokenValidator, allowQuery bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, msg := bearerToken(r, allowQuery)
			if token == "" {
				unauthorized(w, r, msg)
				return
			}

			// Валидируем токен
			claims, err := validator.ValidateToken(token)
			if err != nil {
				unauthorized(w, r, "invalid or expired token")
				return
			}

			// Добавляем ID пользователя в контекст
			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken извлекает токен; при неудаче возвращает пустую строку и причину
func bearerToken(r *http.Request, allowQuery bool) (string, string) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		if allowQuery {
			if token := r.URL.Query().Get("token"); token != "" {
				return token, ""
			}
		}
		return "", "missing authorization header"
	}

	// Проверяем формат Bearer
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", "invalid authorization header format"
	}

	return parts[1], ""
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, map[string]interface{}{
		"status":  "fail",
		"message": message,
		"error": map[string]string{
			"code":    string(domain.CodeUnauthorized),
			"message": message,
		},
	})
}

// GetUserIDFromContext извлекает ID пользователя из контекста
func GetUserIDFromContext(ctx context.Context) string {
	userID, ok := ctx.Value(UserIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}

// WithUserID кладет ID пользователя в контекст (используется в тестах обработчиков)
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}
