// Package logout закрывает сессию пользователя.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/tutora24/internal/api/middlewarectx"
	"github.com/magabrotheeeer/tutora24/internal/api/response"
	"github.com/magabrotheeeer/tutora24/internal/lib/sl"
)

// HomeRedirect - страница после выхода.
const HomeRedirect = "/"

// Service закрывает сессию по токену.
type Service interface {
	Logout(ctx context.Context, token string) error
}

// Handler обрабатывает POST /logout.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Выход
// @Description Закрывает сессию. Запрос без сессии тоже успешен
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse "Сессия закрыта"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.service.Logout(r.Context(), middlewarectx.BearerToken(r)); err != nil {
		log.Error("logout failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to log out"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"message":  "logged out",
		"redirect": HomeRedirect,
	}))
}
