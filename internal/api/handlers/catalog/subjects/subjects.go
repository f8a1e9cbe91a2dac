// Package subjects отдаёт справочник предметов для формы регистрации и каталога.
package subjects

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/tutora24/internal/api/response"
	"github.com/magabrotheeeer/tutora24/internal/lib/sl"
	"github.com/magabrotheeeer/tutora24/internal/models"
)

// Service возвращает справочник предметов.
type Service interface {
	ListSubjects(ctx context.Context) ([]*models.Subject, error)
}

// Handler отвечает на GET /subjects.
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
// @Summary Справочник предметов
// @Description Возвращает все предметы по алфавиту
// @Tags Catalog
// @Produce  json
// @Success 200 {object} response.OKResponse "Список предметов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subjects [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.subjects"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	list, err := h.service.ListSubjects(r.Context())
	if err != nil {
		log.Error("failed to list subjects", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load subjects"))
		return
	}
	if list == nil {
		list = []*models.Subject{}
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"subjects": list,
	}))
}
