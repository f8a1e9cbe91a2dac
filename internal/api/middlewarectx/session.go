// Package middlewarectx содержит HTTP middleware сервиса: проверку сессии,
// ограничение частоты запросов и сбор метрик.
//
// SessionMiddleware берёт токен из заголовка Authorization, проверяет его через
// SessionGuard и кладёт сессию в контекст запроса. Обработчики получают её
// через SessionFrom. При ошибке отвечает 401 с перенаправлением на страницу входа.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/tutora24/internal/api/response"
	"github.com/magabrotheeeer/tutora24/internal/lib/sl"
	"github.com/magabrotheeeer/tutora24/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// SessionKey - ключ сессии в контексте.
const SessionKey Key = "session"

// LoginRedirect - страница входа, куда отправляется клиент без сессии.
const LoginRedirect = "/tutor-login"

// SessionGuard проверяет токен сессии.
type SessionGuard interface {
	RequireSession(ctx context.Context, token string) (models.Session, error)
}

// BearerToken возвращает токен из заголовка Authorization или пустую строку.
func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// WithSession кладёт сессию в контекст.
func WithSession(ctx context.Context, s models.Session) context.Context {
	return context.WithValue(ctx, SessionKey, s)
}

// SessionFrom достаёт сессию из контекста.
func SessionFrom(ctx context.Context) (models.Session, bool) {
	s, ok := ctx.Value(SessionKey).(models.Session)
	return s, ok
}

// SessionMiddleware возвращает middleware, пропускающий только запросы с живой сессией.
func SessionMiddleware(log *slog.Logger, guard SessionGuard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			session, err := guard.RequireSession(r.Context(), BearerToken(r))
			if err != nil {
				log.Info("request without valid session", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.ErrorWithRedirect("session expired, please log in again", LoginRedirect))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}
