// Package review применяет решения внешней проверки анкет, приходящие из очереди.
package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/tutora24/internal/lib/sl"
	"github.com/magabrotheeeer/tutora24/internal/models"
	"github.com/magabrotheeeer/tutora24/internal/services/verification"
	"github.com/magabrotheeeer/tutora24/internal/storage/repository"
)

// Repository читает и обновляет статус анкеты.
type Repository interface {
	GetTutorByID(ctx context.Context, tutorID string) (*models.TutorProfile, error)
	UpdateVerificationStatus(ctx context.Context, tutorID string, status models.VerificationStatus) error
}

// DirectoryCache сбрасывает закэшированный каталог.
type DirectoryCache interface {
	Invalidate(ctx context.Context) error
}

// Recorder учитывает применённые и отброшенные решения.
type Recorder interface {
	ReviewDecision(status string, applied bool)
}

// Service обрабатывает сообщения ReviewDecision.
type Service struct {
	log       *slog.Logger
	repo      Repository
	directory DirectoryCache
	metrics   Recorder
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, repo Repository, directory DirectoryCache, rec Recorder) *Service {
	return &Service{
		log:       log,
		repo:      repo,
		directory: directory,
		metrics:   rec,
	}
}

// HandleDecision - обработчик сообщений очереди tutors.review.
//
// Сообщения, которые невозможно применить (битый JSON, неизвестная анкета,
// запрещённый переход), подтверждаются и только логируются. Ошибка
// возвращается лишь при сбое хранилища, чтобы сообщение вернулось в очередь.
func (s *Service) HandleDecision(ctx context.Context, body []byte) error {
	const op = "review.HandleDecision"

	var msg models.ReviewDecision
	if err := json.Unmarshal(body, &msg); err != nil {
		s.log.Error("failed to unmarshal review decision", sl.Err(err))
		s.metrics.ReviewDecision("unknown", false)
		return nil
	}
	log := s.log.With(slog.String("tutor_id", msg.TutorID), slog.String("status", string(msg.Status)))

	if msg.TutorID == "" || !msg.Status.Valid() {
		log.Warn("malformed review decision dropped")
		s.metrics.ReviewDecision(string(msg.Status), false)
		return nil
	}

	applied, err := s.Apply(ctx, msg)
	if err != nil {
		log.Error("failed to apply review decision", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.ReviewDecision(string(msg.Status), applied)
	return nil
}

// Apply переводит анкету в новый статус. Возвращает false, если решение
// отброшено: анкеты нет или переход запрещён. Повторное решение с тем же
// статусом ничего не меняет.
func (s *Service) Apply(ctx context.Context, msg models.ReviewDecision) (bool, error) {
	const op = "review.Apply"
	log := s.log.With(slog.String("tutor_id", msg.TutorID), slog.String("status", string(msg.Status)))

	tutor, err := s.repo.GetTutorByID(ctx, msg.TutorID)
	if errors.Is(err, repository.ErrNotFound) {
		log.Warn("review decision for unknown tutor dropped")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if tutor.VerificationStatus == msg.Status {
		log.Info("review decision already applied")
		return false, nil
	}
	if err := verification.Transition(tutor.VerificationStatus, msg.Status); err != nil {
		log.Warn("review decision rejected", slog.String("from", string(tutor.VerificationStatus)), sl.Err(err))
		return false, nil
	}

	err = s.repo.UpdateVerificationStatus(ctx, msg.TutorID, msg.Status)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.directory.Invalidate(ctx); err != nil {
		log.Warn("failed to invalidate directory cache", sl.Err(err))
	}
	log.Info("verification status updated", slog.String("from", string(tutor.VerificationStatus)))
	return true, nil
}
