package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/groudina/competitions/internal/domain"
	"github.com/groudina/competitions/internal/service"
)

// ContextKey это кастомный тип для ключей контекста
type ContextKey string

const (
	// EmailKey ключ контекста для e-mail текущего пользователя (principal)
	EmailKey ContextKey = "email"
	// RoleKey ключ контекста для роли текущего пользователя
	RoleKey ContextKey = "role"
)

// TokenValidator проверяет JWT токен и возвращает claims
type TokenValidator interface {
	ValidateToken(token string) (*service.Claims, error)
}

// AuthMiddleware создает middleware для валидации JWT токенов
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Получаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, domain.CodeUnauthorized, "missing authorization header")
				return
			}

			// Проверяем формат Bearer
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeError(w, http.StatusUnauthorized, domain.CodeUnauthorized, "invalid authorization header format")
				return
			}

			// Валидируем токен
			claims, err := validator.ValidateToken(parts[1])
			if err != nil {
				writeError(w, http.StatusUnauthorized, domain.CodeUnauthorized, "invalid or expired token")
				return
			}

			// Добавляем principal в контекст
			ctx := WithPrincipal(r.Context(), claims.Email, claims.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole пропускает запрос только если роль пользователя входит в roles
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	allowed := make(map[domain.Role]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allowed[GetRoleFromContext(r.Context())] {
				writeError(w, http.StatusForbidden, domain.CodeForbidden, "access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithPrincipal кладет e-mail и роль пользователя в контекст
func WithPrincipal(ctx context.Context, email string, role domain.Role) context.Context {
	ctx = context.WithValue(ctx, EmailKey, email)
	return context.WithValue(ctx, RoleKey, role)
}

// GetEmailFromContext извлекает e-mail пользователя из контекста
func GetEmailFromContext(ctx context.Context) string {
	email, ok := ctx.Value(EmailKey).(string)
	if !ok {
		return ""
	}
	return email
}

// GetRoleFromContext извлекает роль пользователя из контекста
func GetRoleFromContext(ctx context.Context) domain.Role {
	role, ok := ctx.Value(RoleKey).(domain.Role)
	if !ok {
		return ""
	}
	return role
}

// writeError отправляет ошибку в том же формате, что и обработчики
func writeError(w http.ResponseWriter, status int, code domain.ErrorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":{"code":"` + string(code) + `","message":"` + message + `"}}`))
}
