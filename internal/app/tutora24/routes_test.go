package tutora24

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/tutora24/internal/api/handlers/health"
	"github.com/magabrotheeeer/tutora24/internal/config"
	"github.com/magabrotheeeer/tutora24/internal/metrics"
	"github.com/magabrotheeeer/tutora24/internal/models"
	"github.com/magabrotheeeer/tutora24/internal/services/directory"
	"github.com/magabrotheeeer/tutora24/internal/services/guard"
	"github.com/magabrotheeeer/tutora24/internal/services/photo"
	"github.com/magabrotheeeer/tutora24/internal/services/verification"
)

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

type fakeDirectory struct{}

func (fakeDirectory) ListSubjects(context.Context) ([]*models.Subject, error) {
	return []*models.Subject{{ID: "s-1", Name: "Biology"}}, nil
}

func (fakeDirectory) Search(context.Context, directory.Query) ([]directory.Listing, error) {
	return []directory.Listing{}, nil
}

func (fakeDirectory) Featured(context.Context) (directory.Featured, error) {
	return directory.Featured{}, nil
}

type fakeOnboarding struct{}

func (fakeOnboarding) SubmitTutorApplication(_ context.Context, app models.TutorApplication) (models.ApplicationResult, error) {
	return models.ApplicationResult{Email: app.Email, TutorID: "t-1", UserID: "u-1", Status: models.StatusPending}, nil
}

func (fakeOnboarding) ResumeApplication(_ context.Context, s models.Session, _ models.ProfileDetails) (*models.TutorProfile, error) {
	return &models.TutorProfile{ID: "t-1", UserID: s.UserID}, nil
}

type fakeIdentity struct{}

func (fakeIdentity) Authenticate(_ context.Context, email, _ string) (models.Session, error) {
	return models.Session{Token: "good", UserID: "u-1", Email: email}, nil
}

// fakeGuard пускает только токен "good".
type fakeGuard struct{}

func (fakeGuard) RequireSession(_ context.Context, token string) (models.Session, error) {
	if token != "good" {
		return models.Session{}, guard.ErrSessionExpired
	}
	return models.Session{Token: token, UserID: "u-1"}, nil
}

func (fakeGuard) Dashboard(_ context.Context, s models.Session) (guard.DashboardView, error) {
	return guard.DashboardView{
		Profile: &models.TutorProfile{ID: "t-1", UserID: s.UserID},
		Banner:  verification.DashboardView(models.StatusPending),
	}, nil
}

func (fakeGuard) Logout(context.Context, string) error { return nil }

type fakePhoto struct{}

func (fakePhoto) PresignUpload(_ context.Context, userID string) (photo.Upload, error) {
	return photo.Upload{URL: "http://s3/x", Key: photo.KeyPrefix(userID) + "x"}, nil
}

func (fakePhoto) AttachPhoto(_ context.Context, _, key string) (string, error) {
	return "http://s3/" + key, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	RegisterRoutes(r, slog.New(slog.NewTextHandler(io.Discard, nil)), Deps{
		Health:     map[string]health.Pinger{"postgres": okPinger{}},
		Directory:  fakeDirectory{},
		Onboarding: fakeOnboarding{},
		Identity:   fakeIdentity{},
		Guard:      fakeGuard{},
		Photo:      fakePhoto{},
		Metrics:    metrics.New(prometheus.NewRegistry()),
		RateLimit:  config.RateLimit{RPS: 100, Burst: 100},
	})
	return r
}

func TestRoutes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		token          string
		expectedStatus int
	}{
		{name: "health", method: http.MethodGet, path: "/api/v1/health", expectedStatus: http.StatusOK},
		{name: "subjects", method: http.MethodGet, path: "/api/v1/subjects", expectedStatus: http.StatusOK},
		{name: "search", method: http.MethodGet, path: "/api/v1/tutors?q=ada", expectedStatus: http.StatusOK},
		{name: "featured", method: http.MethodGet, path: "/api/v1/featured", expectedStatus: http.StatusOK},
		{name: "register", method: http.MethodPost, path: "/api/v1/tutors/register", body: `{"email":"a@b.co"}`, expectedStatus: http.StatusCreated},
		{name: "login", method: http.MethodPost, path: "/api/v1/login", body: `{"email":"a@b.co","password":"x"}`, expectedStatus: http.StatusOK},
		{name: "logout without session", method: http.MethodPost, path: "/api/v1/logout", expectedStatus: http.StatusOK},
		{name: "dashboard without session", method: http.MethodGet, path: "/api/v1/tutor/dashboard", expectedStatus: http.StatusUnauthorized},
		{name: "dashboard with bad token", method: http.MethodGet, path: "/api/v1/tutor/dashboard", token: "bad", expectedStatus: http.StatusUnauthorized},
		{name: "dashboard", method: http.MethodGet, path: "/api/v1/tutor/dashboard", token: "good", expectedStatus: http.StatusOK},
		{name: "resume", method: http.MethodPost, path: "/api/v1/tutor/resume", body: `{}`, token: "good", expectedStatus: http.StatusOK},
		{name: "presign photo", method: http.MethodPost, path: "/api/v1/tutor/photo", token: "good", expectedStatus: http.StatusOK},
		{name: "attach photo", method: http.MethodPut, path: "/api/v1/tutor/photo", body: `{"key":"tutors/u-1/x"}`, token: "good", expectedStatus: http.StatusOK},
		{name: "photo without session", method: http.MethodPost, path: "/api/v1/tutor/photo", expectedStatus: http.StatusUnauthorized},
		{name: "metrics", method: http.MethodGet, path: "/metrics", expectedStatus: http.StatusOK},
		{name: "unknown route", method: http.MethodGet, path: "/api/v1/nope", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestRoutes_UnauthorizedCarriesNoProfileData(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tutor/dashboard", nil)
	req.Header.Set("Authorization", "Bearer expired")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "/tutor-login", body["redirect"])
	assert.NotContains(t, body, "data")
}

func TestRoutes_LoginIsRateLimited(t *testing.T) {
	r := chi.NewRouter()
	RegisterRoutes(r, slog.New(slog.NewTextHandler(io.Discard, nil)), Deps{
		Directory:  fakeDirectory{},
		Onboarding: fakeOnboarding{},
		Identity:   fakeIdentity{},
		Guard:      fakeGuard{},
		Photo:      fakePhoto{},
		Metrics:    metrics.New(prometheus.NewRegistry()),
		RateLimit:  config.RateLimit{RPS: 0.001, Burst: 1},
	})

	codes := make([]int, 0, 2)
	for range 2 {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/login", strings.NewReader(`{"email":"a@b.co","password":"x"}`))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)

	// открытые маршруты лимит не затрагивает
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/subjects", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
