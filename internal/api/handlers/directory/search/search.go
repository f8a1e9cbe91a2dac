// Package search реализует поиск по каталогу одобренных репетиторов.
package search

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/tutora24/internal/api/response"
	"github.com/magabrotheeeer/tutora24/internal/lib/sl"
	"github.com/magabrotheeeer/tutora24/internal/services/directory"
)

// Service ищет анкеты в каталоге.
type Service interface {
	Search(ctx context.Context, q directory.Query) ([]directory.Listing, error)
}

// Handler отвечает на GET /tutors.
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
// @Summary Поиск репетиторов
// @Description Ищет одобренных репетиторов по имени, описанию, университету, предмету и ставке
// @Tags Directory
// @Produce  json
// @Param q query string false "Строка поиска"
// @Param subject query string false "Название предмета"
// @Param max_rate query number false "Максимальная ставка в час (по умолчанию 100)"
// @Success 200 {object} response.OKResponse "Найденные анкеты"
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /tutors [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.directory.search"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	params := r.URL.Query()
	q := directory.Query{
		Search:  params.Get("q"),
		Subject: params.Get("subject"),
	}
	if raw := params.Get("max_rate"); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil || rate < 0 {
			log.Info("invalid max_rate", slog.String("max_rate", raw))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.FieldError("max_rate", "max_rate must be a non-negative number"))
			return
		}
		q.MaxRate = rate
	}

	listings, err := h.service.Search(r.Context(), q)
	if err != nil {
		log.Error("failed to search tutors", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load tutors"))
		return
	}
	if listings == nil {
		listings = []directory.Listing{}
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"tutors": listings,
		"count":  len(listings),
	}))
}
