// Package onboarding реализует подачу анкеты репетитора: проверку формы,
// создание учётной записи, сохранение анкеты с предметами и компенсацию
// при сбое.
//
// Шаги выполняются строго по порядку, каждый следующий только после успеха
// предыдущего:
//
//	validate -> create_credential -> insert_profile -> (compensate) -> publish -> success
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/tutora24/internal/lib/sl"
	"github.com/magabrotheeeer/tutora24/internal/metrics"
	"github.com/magabrotheeeer/tutora24/internal/models"
	"github.com/magabrotheeeer/tutora24/internal/services/identity"
	"github.com/magabrotheeeer/tutora24/internal/storage/repository"
)

const compensationTimeout = 5 * time.Second

// CredentialStore создаёт и удаляет учётные записи.
type CredentialStore interface {
	CreateIdentity(ctx context.Context, email, password string) (string, error)
	DeleteIdentity(ctx context.Context, userID string) error
}

// ProfileStore сохраняет и читает анкеты.
type ProfileStore interface {
	CreateTutorWithSubjects(ctx context.Context, profile models.TutorProfile, subjectIDs []string) (string, error)
	GetTutorByUserID(ctx context.Context, userID string) (*models.TutorProfile, error)
}

// SubjectCatalog отдаёт справочник предметов.
type SubjectCatalog interface {
	ListSubjects(ctx context.Context) ([]*models.Subject, error)
}

// EventPublisher отправляет событие о поданной анкете.
type EventPublisher interface {
	PublishApplicationSubmitted(ctx context.Context, event models.ApplicationSubmitted) error
}

// Recorder учитывает исходы онбординга в метриках.
type Recorder interface {
	ApplicationOutcome(outcome string)
	Compensation(ok bool)
	PublishFailed()
}

// Service проводит анкету через все шаги регистрации.
type Service struct {
	log      *slog.Logger
	creds    CredentialStore
	profiles ProfileStore
	catalog  SubjectCatalog
	events   EventPublisher
	metrics  Recorder
	validate *validator.Validate

	inFlight sync.Map
}

// New создает новый экземпляр Service. events может быть nil: тогда
// событие о поданной анкете не публикуется.
func New(log *slog.Logger, creds CredentialStore, profiles ProfileStore, catalog SubjectCatalog,
	events EventPublisher, rec Recorder) *Service {
	return &Service{
		log:      log,
		creds:    creds,
		profiles: profiles,
		catalog:  catalog,
		events:   events,
		metrics:  rec,
		validate: newValidator(),
	}
}

// SubmitTutorApplication регистрирует репетитора по анкете.
//
// Возвращает *ValidationError, *CredentialError, *ProfileError,
// *AssociationError или ErrSubmissionInFlight.
func (s *Service) SubmitTutorApplication(ctx context.Context, app models.TutorApplication) (models.ApplicationResult, error) {
	const op = "onboarding.SubmitTutorApplication"

	log := s.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(ctx)),
	)

	// validate
	app = trimApplication(app)
	if err := s.validate.Struct(app); err != nil {
		s.metrics.ApplicationOutcome(metrics.OutcomeValidation)
		return models.ApplicationResult{}, validationError(err)
	}
	if app.Password != app.PasswordConfirmation {
		s.metrics.ApplicationOutcome(metrics.OutcomeValidation)
		return models.ApplicationResult{}, &ValidationError{Field: "password", Message: "Passwords do not match"}
	}
	email := strings.ToLower(strings.TrimSpace(app.Email))
	subjectIDs := uniqueIDs(app.SubjectIDs)
	if len(subjectIDs) == 0 {
		s.metrics.ApplicationOutcome(metrics.OutcomeValidation)
		return models.ApplicationResult{}, &ValidationError{Field: "subject_ids", Message: "select at least one subject"}
	}

	release, ok := s.acquire(email)
	if !ok {
		s.metrics.ApplicationOutcome(metrics.OutcomeInFlight)
		log.Warn("duplicate submission rejected")
		return models.ApplicationResult{}, ErrSubmissionInFlight
	}
	defer release()

	if err := s.checkSubjects(ctx, subjectIDs); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			s.metrics.ApplicationOutcome(metrics.OutcomeValidation)
			return models.ApplicationResult{}, ve
		}
		log.Error("failed to load subject catalog", sl.Err(err))
		return models.ApplicationResult{}, fmt.Errorf("%s: %w", op, err)
	}
	log.Debug("application validated", slog.Int("subjects", len(subjectIDs)))

	// create_credential
	userID, err := s.creds.CreateIdentity(ctx, email, app.Password)
	if err != nil {
		log.Error("failed to create credential", sl.Err(err))
		s.metrics.ApplicationOutcome(metrics.OutcomeCredential)
		return models.ApplicationResult{}, &CredentialError{Message: credentialMessage(err), Err: err}
	}
	log = log.With(slog.String("user_id", userID))
	log.Info("credential created")

	// insert_profile
	profile := newProfile(userID, email, app.Details())
	tutorID, err := s.profiles.CreateTutorWithSubjects(ctx, profile, subjectIDs)
	if err != nil {
		log.Error("failed to insert tutor profile", sl.Err(err))
		// compensate
		orphaned := !s.compensate(ctx, log, userID)
		return models.ApplicationResult{}, s.profileFailure(userID, orphaned, err)
	}
	log.Info("tutor profile created", slog.String("tutor_id", tutorID))

	// publish
	s.publish(ctx, log, models.ApplicationSubmitted{
		Email:      email,
		FullName:   profile.FullName,
		TutorID:    tutorID,
		UserID:     userID,
		SubjectIDs: subjectIDs,
	})

	s.metrics.ApplicationOutcome(metrics.OutcomeSubmitted)
	return models.ApplicationResult{
		Email:   email,
		TutorID: tutorID,
		UserID:  userID,
		Status:  models.StatusPending,
	}, nil
}

// ResumeApplication дозаполняет анкету для учётной записи, оставшейся без
// неё после сбоя регистрации. Если анкета уже есть, она возвращается без изменений.
func (s *Service) ResumeApplication(ctx context.Context, session models.Session, details models.ProfileDetails) (*models.TutorProfile, error) {
	const op = "onboarding.ResumeApplication"

	log := s.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(ctx)),
		slog.String("user_id", session.UserID),
	)

	existing, err := s.profiles.GetTutorByUserID(ctx, session.UserID)
	if err == nil {
		log.Info("profile already exists", slog.String("tutor_id", existing.ID))
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	details = trimDetails(details)
	if err := s.validate.Struct(details); err != nil {
		return nil, validationError(err)
	}
	subjectIDs := uniqueIDs(details.SubjectIDs)
	if len(subjectIDs) == 0 {
		return nil, &ValidationError{Field: "subject_ids", Message: "select at least one subject"}
	}

	email := strings.ToLower(session.Email)
	release, ok := s.acquire(email)
	if !ok {
		return nil, ErrSubmissionInFlight
	}
	defer release()

	if err := s.checkSubjects(ctx, subjectIDs); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return nil, ve
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	profile := newProfile(session.UserID, email, details)
	tutorID, err := s.profiles.CreateTutorWithSubjects(ctx, profile, subjectIDs)
	if errors.Is(err, repository.ErrDuplicate) {
		// параллельный запрос успел создать анкету
		existing, getErr := s.profiles.GetTutorByUserID(ctx, session.UserID)
		if getErr != nil {
			return nil, fmt.Errorf("%s: %w", op, getErr)
		}
		return existing, nil
	}
	if err != nil {
		log.Error("failed to insert tutor profile", sl.Err(err))
		if errors.Is(err, repository.ErrAssociationInsert) {
			return nil, &AssociationError{UserID: session.UserID, Orphaned: true, Err: err}
		}
		return nil, &ProfileError{UserID: session.UserID, Orphaned: true, Err: err}
	}
	log.Info("tutor profile created on resume", slog.String("tutor_id", tutorID))

	s.publish(ctx, log, models.ApplicationSubmitted{
		Email:      email,
		FullName:   profile.FullName,
		TutorID:    tutorID,
		UserID:     session.UserID,
		SubjectIDs: subjectIDs,
	})

	now := time.Now().UTC()
	profile.ID = tutorID
	profile.CreatedAt = now
	profile.UpdatedAt = now
	return &profile, nil
}

func (s *Service) acquire(email string) (func(), bool) {
	if _, loaded := s.inFlight.LoadOrStore(email, struct{}{}); loaded {
		return nil, false
	}
	return func() { s.inFlight.Delete(email) }, true
}

func (s *Service) checkSubjects(ctx context.Context, subjectIDs []string) error {
	subjects, err := s.catalog.ListSubjects(ctx)
	if err != nil {
		return err
	}
	known := make(map[string]struct{}, len(subjects))
	for _, subj := range subjects {
		known[subj.ID] = struct{}{}
	}
	for _, id := range subjectIDs {
		if _, ok := known[id]; !ok {
			return &ValidationError{Field: "subject_ids", Message: fmt.Sprintf("unknown subject %q", id)}
		}
	}
	return nil
}

// compensate удаляет только что созданную учётную запись. Работает и после
// отмены ctx запроса.
func (s *Service) compensate(ctx context.Context, log *slog.Logger, userID string) bool {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	if err := s.creds.DeleteIdentity(cctx, userID); err != nil {
		log.Error("compensation failed, credential left without profile", sl.Err(err))
		s.metrics.Compensation(false)
		return false
	}
	log.Info("credential deleted after failed profile insert")
	s.metrics.Compensation(true)
	return true
}

func (s *Service) profileFailure(userID string, orphaned bool, err error) error {
	if errors.Is(err, repository.ErrAssociationInsert) {
		s.metrics.ApplicationOutcome(metrics.OutcomeAssociation)
		return &AssociationError{UserID: userID, Orphaned: orphaned, Err: err}
	}
	s.metrics.ApplicationOutcome(metrics.OutcomeProfile)
	return &ProfileError{UserID: userID, Orphaned: orphaned, Err: err}
}

func (s *Service) publish(ctx context.Context, log *slog.Logger, event models.ApplicationSubmitted) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishApplicationSubmitted(ctx, event); err != nil {
		log.Warn("failed to publish application event", sl.Err(err))
		s.metrics.PublishFailed()
	}
}

func newProfile(userID, email string, d models.ProfileDetails) models.TutorProfile {
	return models.TutorProfile{
		UserID:             userID,
		FullName:           strings.TrimSpace(d.FullName),
		Email:              email,
		University:         strings.TrimSpace(d.University),
		Degree:             strings.TrimSpace(d.Degree),
		YearsExperience:    *d.YearsExperience,
		HourlyRate:         *d.HourlyRate,
		Bio:                strings.TrimSpace(d.Bio),
		VerificationStatus: models.StatusPending,
	}
}

func credentialMessage(err error) string {
	for _, known := range []error{identity.ErrDuplicateIdentity, identity.ErrWeakPassword} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "failed to create account"
}
