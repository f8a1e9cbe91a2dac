// Package dashboard отдаёт личный кабинет репетитора.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/tutora24/internal/api/middlewarectx"
	"github.com/magabrotheeeer/tutora24/internal/api/response"
	"github.com/magabrotheeeer/tutora24/internal/lib/sl"
	"github.com/magabrotheeeer/tutora24/internal/models"
	"github.com/magabrotheeeer/tutora24/internal/services/guard"
)

// Service собирает данные личного кабинета.
type Service interface {
	Dashboard(ctx context.Context, session models.Session) (guard.DashboardView, error)
}

// Handler обрабатывает GET /tutor/dashboard.
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
// @Summary Личный кабинет репетитора
// @Description Анкета, предметы и статус проверки текущего пользователя
// @Tags Tutor
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse "Личный кабинет"
// @Failure 401 {object} response.ErrorResponse "Сессия истекла"
// @Failure 404 {object} response.ErrorResponse "Анкета не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /tutor/dashboard [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tutor.dashboard"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	session, ok := middlewarectx.SessionFrom(r.Context())
	if !ok {
		log.Error("session missing in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.ErrorWithRedirect("session expired, please log in again", middlewarectx.LoginRedirect))
		return
	}

	view, err := h.service.Dashboard(r.Context(), session)
	switch {
	case errors.Is(err, guard.ErrProfileNotFound):
		log.Warn("session without tutor profile", slog.String("user_id", session.UserID))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("tutor profile not found"))
		return
	case err != nil:
		log.Error("failed to load dashboard", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load dashboard"))
		return
	}

	render.JSON(w, r, response.OKWithData(view))
}
