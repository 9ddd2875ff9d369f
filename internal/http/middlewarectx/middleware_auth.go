// Package middlewarectx содержит HTTP middleware для обработки и проверки JWT токенов
// и ограничения частоты запросов.
//
// JWTMiddleware проверяет наличие и валидность JWT токена в заголовке Authorization
// и в случае успеха добавляет в контекст владельца данных (subject токена)
// для дальнейшего использования в обработчиках.
//
// В случае ошибки проверки возвращает HTTP 401 Unauthorized с сообщением об ошибке.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-optimizer/internal/http/response"
	"github.com/magabrotheeeer/subscription-optimizer/internal/lib/jwt"
	"github.com/magabrotheeeer/subscription-optimizer/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// Owner — ключ для владельца данных в контексте.
const Owner Key = "owner"

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке Authorization.
func JWTMiddleware(maker jwt.Maker, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := maker.ParseToken(tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}
			ctx := WithOwner(r.Context(), claims.Owner())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithOwner кладёт владельца в контекст.
func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, Owner, owner)
}

// OwnerFromContext достаёт владельца из контекста.
func OwnerFromContext(ctx context.Context) (string, bool) {
	owner, ok := ctx.Value(Owner).(string)
	return owner, ok && owner != ""
}
