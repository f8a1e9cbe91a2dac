// Package resume завершает регистрацию, прерванную после создания учётной записи.
package resume

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/tutora24/internal/api/handlers/tutor/register"
	"github.com/magabrotheeeer/tutora24/internal/api/middlewarectx"
	"github.com/magabrotheeeer/tutora24/internal/api/response"
	"github.com/magabrotheeeer/tutora24/internal/lib/sl"
	"github.com/magabrotheeeer/tutora24/internal/models"
)

// Service создаёт недостающую анкету.
type Service interface {
	ResumeApplication(ctx context.Context, session models.Session, details models.ProfileDetails) (*models.TutorProfile, error)
}

// Handler обрабатывает POST /tutor/resume.
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
// @Summary Завершение регистрации
// @Description Создает анкету для учётной записи, оставшейся без неё. Повторный вызов возвращает существующую анкету
// @Tags Tutor
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.ProfileDetails true "Поля анкеты"
// @Success 200 {object} response.OKResponse "Анкета"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Сессия истекла"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Не удалось сохранить анкету"
// @Router /tutor/resume [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tutor.resume"
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
	log = log.With(slog.String("user_id", session.UserID))

	var req models.ProfileDetails
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	profile, err := h.service.ResumeApplication(r.Context(), session, req)
	if err != nil {
		register.RespondError(w, r, log, err)
		return
	}

	log.Info("tutor application resumed", slog.String("tutor_id", profile.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"profile": profile,
	}))
}
