package register

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/tutora24/internal/api/middlewarectx"
	"github.com/magabrotheeeer/tutora24/internal/api/response"
	"github.com/magabrotheeeer/tutora24/internal/lib/sl"
	"github.com/magabrotheeeer/tutora24/internal/services/identity"
	"github.com/magabrotheeeer/tutora24/internal/services/onboarding"
)

// RespondError переводит ошибку онбординга в HTTP‑ответ. Каждая категория
// ошибки даёт одно сообщение для пользователя.
func RespondError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var (
		ve *onboarding.ValidationError
		ce *onboarding.CredentialError
		pe *onboarding.ProfileError
		ae *onboarding.AssociationError
	)

	switch {
	case errors.As(err, &ve):
		log.Info("application rejected by validation", slog.String("field", ve.Field))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.FieldError(ve.Field, ve.Message))
	case errors.Is(err, onboarding.ErrSubmissionInFlight):
		log.Info("duplicate submission in flight")
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error(onboarding.ErrSubmissionInFlight.Error()))
	case errors.As(err, &ce) && errors.Is(err, identity.ErrDuplicateIdentity):
		log.Info("email already registered")
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.FieldError("email", ce.Message))
	case errors.As(err, &ce) && errors.Is(err, identity.ErrWeakPassword):
		log.Info("password refused by credential store")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.FieldError("password", ce.Message))
	case errors.As(err, &ce):
		log.Error("credential store failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(ce.Message))
	case errors.As(err, &pe):
		log.Error("failed to create tutor profile", slog.Bool("orphaned", pe.Orphaned), sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, orphanAware("could not create tutor profile", pe.Orphaned))
	case errors.As(err, &ae):
		log.Error("failed to save tutor subjects", slog.Bool("orphaned", ae.Orphaned), sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, orphanAware("could not save tutor subjects", ae.Orphaned))
	default:
		log.Error("application failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to submit application"))
	}
}

// Если учётная запись осталась без анкеты, клиента отправляют на вход,
// чтобы он мог завершить регистрацию.
func orphanAware(msg string, orphaned bool) response.ErrorResponse {
	if orphaned {
		return response.ErrorWithRedirect(msg, middlewarectx.LoginRedirect)
	}
	return response.Error(msg)
}
