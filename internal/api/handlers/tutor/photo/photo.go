// Package photo реализует загрузку фотографии профиля.
//
// POST выдаёт подписанную ссылку S3 для прямой загрузки, PUT сохраняет
// ключ загруженного объекта в анкете.
package photo

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/tutora24/internal/api/middlewarectx"
	"github.com/magabrotheeeer/tutora24/internal/api/response"
	"github.com/magabrotheeeer/tutora24/internal/lib/sl"
	"github.com/magabrotheeeer/tutora24/internal/models"
	"github.com/magabrotheeeer/tutora24/internal/services/guard"
	photoservice "github.com/magabrotheeeer/tutora24/internal/services/photo"
)

// Service выдаёт ссылки и сохраняет фото.
type Service interface {
	PresignUpload(ctx context.Context, userID string) (photoservice.Upload, error)
	AttachPhoto(ctx context.Context, userID, key string) (string, error)
}

// AttachRequest - ключ загруженного объекта.
type AttachRequest struct {
	Key string `json:"key" validate:"required"`
}

// Handler обрабатывает /tutor/photo.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: response.NewValidator(),
	}
}

// Presign godoc
// @Summary Ссылка для загрузки фото
// @Description Возвращает подписанный PUT URL и ключ объекта
// @Tags Tutor
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse "Ссылка для загрузки"
// @Failure 401 {object} response.ErrorResponse "Сессия истекла"
// @Failure 500 {object} response.ErrorResponse "Ошибка хранилища"
// @Router /tutor/photo [post]
func (h *Handler) Presign(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tutor.photo.Presign"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	session, ok := h.session(w, r, log)
	if !ok {
		return
	}

	upload, err := h.service.PresignUpload(r.Context(), session.UserID)
	if err != nil {
		log.Error("failed to presign upload", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not prepare photo upload"))
		return
	}
	render.JSON(w, r, response.OKWithData(upload))
}

// Attach godoc
// @Summary Сохранение фото
// @Description Сохраняет в анкете ссылку на загруженный объект
// @Tags Tutor
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body AttachRequest true "Ключ объекта"
// @Success 200 {object} response.OKResponse "Фото сохранено"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Сессия истекла"
// @Failure 403 {object} response.ErrorResponse "Чужой ключ объекта"
// @Failure 404 {object} response.ErrorResponse "Анкета не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /tutor/photo [put]
func (h *Handler) Attach(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tutor.photo.Attach"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	session, ok := h.session(w, r, log)
	if !ok {
		return
	}

	var req AttachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	url, err := h.service.AttachPhoto(r.Context(), session.UserID, req.Key)
	switch {
	case errors.Is(err, photoservice.ErrForeignKey):
		log.Warn("photo key of another user", slog.String("key", req.Key))
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.FieldError("key", "photo key does not belong to you"))
		return
	case errors.Is(err, guard.ErrProfileNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("tutor profile not found"))
		return
	case err != nil:
		log.Error("failed to attach photo", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not save photo"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"photo_url": url,
	}))
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request, log *slog.Logger) (models.Session, bool) {
	session, ok := middlewarectx.SessionFrom(r.Context())
	if !ok {
		log.Error("session missing in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.ErrorWithRedirect("session expired, please log in again", middlewarectx.LoginRedirect))
		return models.Session{}, false
	}
	return session, true
}
