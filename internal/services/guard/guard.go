// Package guard защищает личный кабинет репетитора: проверяет живую сессию,
// находит анкету по ID учётной записи и собирает данные для кабинета.
package guard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/tutora24/internal/lib/sl"
	"github.com/magabrotheeeer/tutora24/internal/models"
	"github.com/magabrotheeeer/tutora24/internal/services/verification"
	"github.com/magabrotheeeer/tutora24/internal/storage/repository"
)

var (
	// ErrSessionExpired - нет живой сессии, нужен повторный вход.
	ErrSessionExpired = errors.New("session expired")
	// ErrProfileNotFound - сессия есть, но анкеты для неё нет.
	ErrProfileNotFound = errors.New("tutor profile not found")
)

// CredentialStore проверяет и отзывает сессии.
type CredentialStore interface {
	CurrentSession(ctx context.Context, token string) (models.Session, error)
	InvalidateSession(ctx context.Context, token string) error
}

// ProfileReader читает анкету и её предметы.
type ProfileReader interface {
	GetTutorByUserID(ctx context.Context, userID string) (*models.TutorProfile, error)
	ListSubjectNamesForTutor(ctx context.Context, tutorID string) ([]string, error)
}

// DashboardView - данные личного кабинета.
type DashboardView struct {
	Profile  *models.TutorProfile `json:"profile"`
	Subjects []string             `json:"subjects"`
	Banner   verification.Banner  `json:"banner"`
}

// Guard проверяет доступ к кабинету.
type Guard struct {
	log      *slog.Logger
	creds    CredentialStore
	profiles ProfileReader
}

// New создает новый экземпляр Guard.
func New(log *slog.Logger, creds CredentialStore, profiles ProfileReader) *Guard {
	return &Guard{log: log, creds: creds, profiles: profiles}
}

// RequireSession возвращает живую сессию по токену. Любой отказ хранилища,
// включая его недоступность, даёт ErrSessionExpired.
func (g *Guard) RequireSession(ctx context.Context, token string) (models.Session, error) {
	const op = "guard.RequireSession"

	if token == "" {
		return models.Session{}, fmt.Errorf("%s: %w", op, ErrSessionExpired)
	}
	session, err := g.creds.CurrentSession(ctx, token)
	if err != nil {
		g.log.Debug("session rejected",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(ctx)),
			sl.Err(err),
		)
		return models.Session{}, fmt.Errorf("%s: %w: %w", op, ErrSessionExpired, err)
	}
	if session.UserID == "" {
		return models.Session{}, fmt.Errorf("%s: %w", op, ErrSessionExpired)
	}
	return session, nil
}

// Dashboard собирает кабинет для сессии.
func (g *Guard) Dashboard(ctx context.Context, session models.Session) (DashboardView, error) {
	const op = "guard.Dashboard"

	log := g.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(ctx)),
		slog.String("user_id", session.UserID),
	)

	if session.UserID == "" {
		return DashboardView{}, fmt.Errorf("%s: %w", op, ErrSessionExpired)
	}

	profile, err := g.profiles.GetTutorByUserID(ctx, session.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		log.Warn("session without tutor profile")
		return DashboardView{}, fmt.Errorf("%s: %w", op, ErrProfileNotFound)
	}
	if err != nil {
		log.Error("failed to load tutor profile", sl.Err(err))
		return DashboardView{}, fmt.Errorf("%s: %w", op, err)
	}

	subjects, err := g.profiles.ListSubjectNamesForTutor(ctx, profile.ID)
	if err != nil {
		log.Error("failed to load tutor subjects", sl.Err(err))
		return DashboardView{}, fmt.Errorf("%s: %w", op, err)
	}

	return DashboardView{
		Profile:  profile,
		Subjects: subjects,
		Banner:   verification.DashboardView(profile.VerificationStatus),
	}, nil
}

// Logout отзывает сессию. Отсутствие сессии ошибкой не считается.
func (g *Guard) Logout(ctx context.Context, token string) error {
	const op = "guard.Logout"

	if token == "" {
		return nil
	}
	if err := g.creds.InvalidateSession(ctx, token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
