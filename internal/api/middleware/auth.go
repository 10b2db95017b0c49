package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/salon-booking/internal/api/handlers"
	"github.com/m04kA/salon-booking/internal/service/auth"
)

const (
	msgMissingToken = "требуется авторизация администратора"
	msgInvalidToken = "недействительный токен"
	msgExpiredToken = "срок действия токена истек"
)

type claimsKey struct{}

// AdminAuth пропускает запрос только с валидным заголовком Authorization: Bearer <token>
func AdminAuth(verifier TokenVerifier, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				logger.Warn("%s %s - missing bearer token", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}

			claims, err := verifier.Verify(strings.TrimSpace(token))
			if err != nil {
				logger.Warn("%s %s - rejected token: %v", r.Method, r.URL.Path, err)
				if errors.Is(err, auth.ErrExpiredToken) {
					handlers.RespondUnauthorized(w, msgExpiredToken)
					return
				}
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAdminClaims возвращает данные токена, проверенного AdminAuth
func GetAdminClaims(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims, ok
}
