package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/tutora24/internal/migrations"
	"github.com/magabrotheeeer/tutora24/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, nat.Port("5432/tcp"))
	require.NoError(t, err, "failed to get port")

	connStr := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")
	t.Cleanup(func() { _ = storage.Close() })

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath))

	return storage
}

// TestDataFactory содержит методы для создания тестовых данных.
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных.
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateCredential создает учётную запись со случайным email.
func (f *TestDataFactory) CreateCredential(t *testing.T) string {
	t.Helper()
	email := uuid.NewString() + "@example.com"
	id, err := f.storage.CreateCredential(context.Background(), email, "hashed")
	require.NoError(t, err)
	return id
}

// SubjectIDs возвращает ID первых n предметов справочника.
func (f *TestDataFactory) SubjectIDs(t *testing.T, n int) []string {
	t.Helper()
	subjects, err := f.storage.ListSubjects(context.Background())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(subjects), n)
	ids := make([]string, 0, n)
	for _, s := range subjects[:n] {
		ids = append(ids, s.ID)
	}
	return ids
}

// CreateTutor создает учётную запись и анкету, возвращает ID анкеты и ID пользователя.
func (f *TestDataFactory) CreateTutor(t *testing.T, name string, rate float64, subjectIDs []string) (string, string) {
	t.Helper()
	userID := f.CreateCredential(t)
	id, err := f.storage.CreateTutorWithSubjects(context.Background(), testProfile(userID, name, rate), subjectIDs)
	require.NoError(t, err)
	return id, userID
}

// Verify переводит анкету в verified с заданным рейтингом.
func (f *TestDataFactory) Verify(t *testing.T, tutorID string, rating float64) {
	t.Helper()
	require.NoError(t, f.storage.UpdateVerificationStatus(context.Background(), tutorID, models.StatusVerified))
	_, err := f.storage.DB.Exec(`UPDATE tutors SET rating = $1 WHERE id = $2`, rating, tutorID)
	require.NoError(t, err)
}

// CreateTestimonial добавляет отзыв к анкете.
func (f *TestDataFactory) CreateTestimonial(t *testing.T, tutorID, student string, rating int) {
	t.Helper()
	_, err := f.storage.DB.Exec(`INSERT INTO testimonials (student_name, tutor_id, rating, comment)
		VALUES ($1, $2, $3, $4)`, student, tutorID, rating, "Great tutor")
	require.NoError(t, err)
}

func testProfile(userID, name string, rate float64) models.TutorProfile {
	return models.TutorProfile{
		UserID:          userID,
		FullName:        name,
		Email:           uuid.NewString() + "@uni.ac.uk",
		University:      "University of Oxford",
		Degree:          "MSc Mathematics",
		YearsExperience: 2,
		HourlyRate:      rate,
		Bio:             "I love teaching",
	}
}

func countRows(t *testing.T, s *Storage, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, s.DB.QueryRow(query, args...).Scan(&n))
	return n
}
