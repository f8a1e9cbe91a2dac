package directory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/tutora24/internal/cache"
	"github.com/magabrotheeeer/tutora24/internal/config"
	"github.com/magabrotheeeer/tutora24/internal/metrics"
	"github.com/magabrotheeeer/tutora24/internal/models"
)

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) ListVerifiedTutors(ctx context.Context, limit int) ([]*models.TutorProfile, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TutorProfile), args.Error(1)
}

func (m *RepoMock) ListTutorSubjectNames(ctx context.Context) (map[string][]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]string), args.Error(1)
}

func (m *RepoMock) ListSubjects(ctx context.Context) ([]*models.Subject, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subject), args.Error(1)
}

func (m *RepoMock) ListTestimonials(ctx context.Context, limit int) ([]*models.Testimonial, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Testimonial), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, repo *RepoMock) (*Service, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c, err := cache.InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)

	return New(newNoopLogger(), repo, c, metrics.New(prometheus.NewRegistry()), time.Minute, 2), mr
}

func verified(id, name string, rate, rating float64) *models.TutorProfile {
	return &models.TutorProfile{
		ID:                 id,
		FullName:           name,
		HourlyRate:         rate,
		Rating:             rating,
		VerificationStatus: models.StatusVerified,
		Verified:           true,
	}
}

func TestService_Search(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ListVerifiedTutors", mock.Anything, 0).Return([]*models.TutorProfile{
		verified("t-1", "Ada", 45, 4.9),
		verified("t-2", "Grace", 90, 4.5),
		verified("t-3", "Alan", 150, 4.0),
	}, nil).Once()
	repo.On("ListTutorSubjectNames", mock.Anything).Return(map[string][]string{
		"t-1": {"Mathematics"},
		"t-2": {"Computer Science", "Mathematics"},
	}, nil).Once()
	svc, _ := newTestService(t, repo)

	tests := []struct {
		name    string
		query   Query
		wantIDs []string
	}{
		{name: "default cap keeps order", query: Query{}, wantIDs: []string{"t-1", "t-2"}},
		{name: "raised cap", query: Query{MaxRate: 200}, wantIDs: []string{"t-1", "t-2", "t-3"}},
		{name: "subject filter", query: Query{Subject: "computer"}, wantIDs: []string{"t-2"}},
		{name: "search filter", query: Query{Search: "ada"}, wantIDs: []string{"t-1"}},
		{name: "nothing matches", query: Query{Search: "zzz"}, wantIDs: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Search(context.Background(), tt.query)
			require.NoError(t, err)
			ids := make([]string, 0, len(got))
			for _, l := range got {
				ids = append(ids, l.Tutor.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}

	// список читается из базы один раз, дальше из кэша
	repo.AssertNumberOfCalls(t, "ListVerifiedTutors", 1)
	repo.AssertExpectations(t)
}

func TestService_VisibilityGating(t *testing.T) {
	pending := &models.TutorProfile{ID: "t-9", FullName: "Pending", HourlyRate: 30, VerificationStatus: models.StatusPending}
	approved := verified("t-9", "Pending", 30, 0)

	repo := new(RepoMock)
	repo.On("ListVerifiedTutors", mock.Anything, 0).Return([]*models.TutorProfile{pending}, nil).Once()
	repo.On("ListVerifiedTutors", mock.Anything, 0).Return([]*models.TutorProfile{approved}, nil).Once()
	repo.On("ListTutorSubjectNames", mock.Anything).Return(map[string][]string{}, nil)
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	got, err := svc.Search(ctx, Query{})
	require.NoError(t, err)
	assert.Empty(t, got, "pending tutor must not be listed")

	require.NoError(t, svc.Invalidate(ctx))

	got, err = svc.Search(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "t-9", got[0].Tutor.ID)
	assert.Equal(t, []string{}, got[0].Subjects)
}

func TestService_Featured(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ListVerifiedTutors", mock.Anything, 0).Return([]*models.TutorProfile{
		verified("t-1", "Ada", 45, 4.9),
		verified("t-2", "Grace", 90, 4.5),
		verified("t-3", "Alan", 60, 4.0),
	}, nil).Once()
	repo.On("ListTutorSubjectNames", mock.Anything).Return(map[string][]string{}, nil).Once()
	repo.On("ListSubjects", mock.Anything).Return([]*models.Subject{{ID: "s-1", Name: "Biology"}}, nil).Once()
	repo.On("ListTestimonials", mock.Anything, 4).Return([]*models.Testimonial{{ID: "r-1", StudentName: "Sam", Rating: 5}}, nil).Once()
	svc, _ := newTestService(t, repo)

	got, err := svc.Featured(context.Background())
	require.NoError(t, err)
	require.Len(t, got.Tutors, 2)
	assert.Equal(t, "t-1", got.Tutors[0].Tutor.ID)
	assert.Len(t, got.Subjects, 1)
	assert.Len(t, got.Testimonials, 1)
	repo.AssertExpectations(t)
}

func TestService_ListSubjects_Cached(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ListSubjects", mock.Anything).Return([]*models.Subject{
		{ID: "s-1", Name: "Biology"},
		{ID: "s-2", Name: "Chemistry"},
	}, nil).Once()
	svc, _ := newTestService(t, repo)

	for range 3 {
		got, err := svc.ListSubjects(context.Background())
		require.NoError(t, err)
		assert.Len(t, got, 2)
	}
	repo.AssertNumberOfCalls(t, "ListSubjects", 1)
}

func TestService_CacheFailureFallsBackToRepository(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ListSubjects", mock.Anything).Return([]*models.Subject{{ID: "s-1", Name: "Biology"}}, nil).Twice()
	svc, mr := newTestService(t, repo)
	mr.Close()

	for range 2 {
		got, err := svc.ListSubjects(context.Background())
		require.NoError(t, err)
		assert.Len(t, got, 1)
	}
	repo.AssertExpectations(t)
}

func TestService_RepositoryError(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ListVerifiedTutors", mock.Anything, 0).Return(nil, errors.New("db down")).Once()
	svc, _ := newTestService(t, repo)

	_, err := svc.Search(context.Background(), Query{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory.Search")
}
