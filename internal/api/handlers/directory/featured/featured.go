// Package featured отдаёт подборку для главной страницы.
package featured

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/tutora24/internal/api/response"
	"github.com/magabrotheeeer/tutora24/internal/lib/sl"
	"github.com/magabrotheeeer/tutora24/internal/services/directory"
)

// Service собирает подборку.
type Service interface {
	Featured(ctx context.Context) (directory.Featured, error)
}

// Handler отвечает на GET /featured.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Главная страница
// @Description Лучшие одобренные репетиторы, справочник предметов и отзывы студентов
// @Tags Directory
// @Produce  json
// @Success 200 {object} response.OKResponse "Подборка"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /featured [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.directory.featured"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	feed, err := h.service.Featured(r.Context())
	if err != nil {
		log.Error("failed to load featured tutors", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load featured tutors"))
		return
	}

	render.JSON(w, r, response.OKWithData(feed))
}
