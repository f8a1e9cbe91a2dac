// Package register реализует HTTP-обработчик формы "Become a Tutor".
//
// Handler разбирает анкету и передаёт её в онбординг целиком: проверка полей,
// создание учётной записи, анкеты и связей с предметами выполняются там.
package register

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/tutora24/internal/api/response"
	"github.com/magabrotheeeer/tutora24/internal/lib/sl"
	"github.com/magabrotheeeer/tutora24/internal/models"
)

// Service подаёт анкету репетитора.
type Service interface {
	SubmitTutorApplication(ctx context.Context, app models.TutorApplication) (models.ApplicationResult, error)
}

// Handler обрабатывает POST /tutors/register.
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
// @Summary Регистрация репетитора
// @Description Создает учётную запись и анкету со статусом pending
// @Tags Tutor
// @Accept  json
// @Produce  json
// @Param request body models.TutorApplication true "Анкета репетитора"
// @Success 201 {object} response.OKResponse "Анкета отправлена на проверку"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или отказ в регистрации"
// @Failure 409 {object} response.ErrorResponse "Email уже зарегистрирован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации анкеты"
// @Failure 500 {object} response.ErrorResponse "Не удалось сохранить анкету"
// @Router /tutors/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tutor.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.TutorApplication
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log = log.With(slog.String("email", req.Email))

	res, err := h.service.SubmitTutorApplication(r.Context(), req)
	if err != nil {
		RespondError(w, r, log, err)
		return
	}

	log.Info("tutor application submitted", slog.String("tutor_id", res.TutorID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message":     "Application submitted! Your application is being reviewed.",
		"application": res,
	}))
}
