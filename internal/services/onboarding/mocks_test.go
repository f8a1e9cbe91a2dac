package onboarding

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/tutora24/internal/models"
)

type CredentialStoreMock struct {
	mock.Mock
}

func (m *CredentialStoreMock) CreateIdentity(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *CredentialStoreMock) DeleteIdentity(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type ProfileStoreMock struct {
	mock.Mock
}

func (m *ProfileStoreMock) CreateTutorWithSubjects(ctx context.Context, profile models.TutorProfile, subjectIDs []string) (string, error) {
	args := m.Called(ctx, profile, subjectIDs)
	return args.String(0), args.Error(1)
}

func (m *ProfileStoreMock) GetTutorByUserID(ctx context.Context, userID string) (*models.TutorProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TutorProfile), args.Error(1)
}

type CatalogMock struct {
	mock.Mock
}

func (m *CatalogMock) ListSubjects(ctx context.Context) ([]*models.Subject, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subject), args.Error(1)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) PublishApplicationSubmitted(ctx context.Context, event models.ApplicationSubmitted) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type recorderStub struct {
	mu            sync.Mutex
	outcomes      []string
	compensations []bool
	publishFailed int
}

func (r *recorderStub) ApplicationOutcome(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func (r *recorderStub) Compensation(ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.compensations = append(r.compensations, ok)
}

func (r *recorderStub) PublishFailed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.publishFailed++
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	creds     *CredentialStoreMock
	profiles  *ProfileStoreMock
	catalog   *CatalogMock
	publisher *PublisherMock
	recorder  *recorderStub
	svc       *Service
}

func newFixture() *fixture {
	f := &fixture{
		creds:     new(CredentialStoreMock),
		profiles:  new(ProfileStoreMock),
		catalog:   new(CatalogMock),
		publisher: new(PublisherMock),
		recorder:  &recorderStub{},
	}
	f.svc = New(newNoopLogger(), f.creds, f.profiles, f.catalog, f.publisher, f.recorder)
	return f
}

func (f *fixture) assertExpectations(t mock.TestingT) {
	f.creds.AssertExpectations(t)
	f.profiles.AssertExpectations(t)
	f.catalog.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func catalog() []*models.Subject {
	return []*models.Subject{
		{ID: "physics", Name: "Physics"},
		{ID: "maths", Name: "Mathematics"},
		{ID: "music", Name: "Music"},
	}
}

func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }

// validApplication - анкета из примера: a@b.com, физика и математика.
func validApplication() models.TutorApplication {
	return models.TutorApplication{
		Email:                "a@b.com",
		Password:             "x",
		PasswordConfirmation: "x",
		FullName:             "A B",
		University:           "X",
		Degree:               "MSc",
		YearsExperience:      intPtr(3),
		HourlyRate:           floatPtr(40),
		Bio:                  "…",
		SubjectIDs:           []string{"physics", "maths"},
	}
}
