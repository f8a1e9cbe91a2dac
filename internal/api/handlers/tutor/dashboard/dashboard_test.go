package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/tutora24/internal/api/middlewarectx"
	"github.com/magabrotheeeer/tutora24/internal/models"
	"github.com/magabrotheeeer/tutora24/internal/services/guard"
	"github.com/magabrotheeeer/tutora24/internal/services/verification"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Dashboard(ctx context.Context, session models.Session) (guard.DashboardView, error) {
	args := m.Called(ctx, session)
	return args.Get(0).(guard.DashboardView), args.Error(1)
}

func TestDashboardHandler(t *testing.T) {
	session := models.Session{ID: "sid", UserID: "u-1", Email: "tutor@example.com"}
	view := guard.DashboardView{
		Profile:  &models.TutorProfile{ID: "t-1", UserID: "u-1", FullName: "Ada", VerificationStatus: models.StatusPending},
		Subjects: []string{"Mathematics"},
		Banner:   verification.DashboardView(models.StatusPending),
	}

	tests := []struct {
		name           string
		withSession    bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedError  string
		expectedRedir  string
	}{
		{
			name:        "pending dashboard",
			withSession: true,
			setupMock: func(m *MockService) {
				m.On("Dashboard", mock.Anything, session).Return(view, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "no session",
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "session expired, please log in again",
			expectedRedir:  "/tutor-login",
		},
		{
			name:        "profile missing",
			withSession: true,
			setupMock: func(m *MockService) {
				m.On("Dashboard", mock.Anything, session).Return(guard.DashboardView{}, guard.ErrProfileNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "tutor profile not found",
		},
		{
			name:        "storage error",
			withSession: true,
			setupMock: func(m *MockService) {
				m.On("Dashboard", mock.Anything, session).Return(guard.DashboardView{}, errors.New("db down")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "could not load dashboard",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/tutor/dashboard", nil)
			if tt.withSession {
				req = req.WithContext(middlewarectx.WithSession(req.Context(), session))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, got["error"])
				assert.Nil(t, got["data"])
				if tt.expectedRedir != "" {
					assert.Equal(t, tt.expectedRedir, got["redirect"])
				}
				return
			}
			data := got["data"].(map[string]any)
			assert.NotNil(t, data["profile"])
			assert.Equal(t, "advisory", data["banner"].(map[string]any)["kind"])
			svc.AssertExpectations(t)
		})
	}
}
