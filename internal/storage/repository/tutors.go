package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/tutora24/internal/models"
)

const tutorColumns = `id, user_id, full_name, email, university, degree, years_experience,
			      hourly_rate::float8, bio, photo_url, verification_status, verified,
			      rating::float8, total_sessions, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTutor(row rowScanner) (*models.TutorProfile, error) {
	t := &models.TutorProfile{}
	var photo sql.NullString
	if err := row.Scan(&t.ID, &t.UserID, &t.FullName, &t.Email, &t.University, &t.Degree,
		&t.YearsExperience, &t.HourlyRate, &t.Bio, &photo, &t.VerificationStatus, &t.Verified,
		&t.Rating, &t.TotalSessions, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if photo.Valid {
		t.PhotoURL = &photo.String
	}
	return t, nil
}

// CreateTutorWithSubjects в одной транзакции сохраняет анкету и её предметы
// и возвращает сгенерированный ID анкеты.
//
// Анкета всегда создаётся в статусе pending с нулевым рейтингом.
// Повторная анкета для того же user_id возвращает ErrDuplicate,
// сбой вставки предметов - ErrAssociationInsert; в обоих случаях транзакция откатывается.
func (s *Storage) CreateTutorWithSubjects(ctx context.Context, profile models.TutorProfile, subjectIDs []string) (string, error) {
	const op = "storage.CreateTutorWithSubjects"
	if err := checkCtx(ctx, op); err != nil {
		return "", err
	}

	var id string
	err := WithTx(ctx, s.DB, nil, func(ctx context.Context, tx DBTX) error {
		query := `INSERT INTO tutors (user_id, full_name, email, university, degree,
				      years_experience, hourly_rate, bio, photo_url, verification_status, verified)
				  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, FALSE)
				  RETURNING id;`
		err := tx.QueryRowContext(ctx, query,
			profile.UserID, profile.FullName, profile.Email, profile.University, profile.Degree,
			profile.YearsExperience, profile.HourlyRate, profile.Bio, profile.PhotoURL,
			models.StatusPending).Scan(&id)
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %w", ErrProfileInsert, ErrDuplicate)
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrProfileInsert, err)
		}
		return insertAssociations(ctx, tx, id, subjectIDs)
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// InsertAssociations добавляет предметы к существующей анкете.
// Уже существующие пары пропускаются.
func (s *Storage) InsertAssociations(ctx context.Context, tutorID string, subjectIDs []string) error {
	const op = "storage.InsertAssociations"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	err := WithTx(ctx, s.DB, nil, func(ctx context.Context, tx DBTX) error {
		return insertAssociations(ctx, tx, tutorID, subjectIDs)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func insertAssociations(ctx context.Context, tx DBTX, tutorID string, subjectIDs []string) error {
	query := `INSERT INTO tutor_subjects (tutor_id, subject_id)
			  VALUES ($1, $2)
			  ON CONFLICT (tutor_id, subject_id) DO NOTHING`
	for _, subjectID := range subjectIDs {
		if _, err := tx.ExecContext(ctx, query, tutorID, subjectID); err != nil {
			return fmt.Errorf("%w: subject %s: %w", ErrAssociationInsert, subjectID, err)
		}
	}
	return nil
}

// GetTutorByUserID возвращает анкету по ID учётной записи.
func (s *Storage) GetTutorByUserID(ctx context.Context, userID string) (*models.TutorProfile, error) {
	const op = "storage.GetTutorByUserID"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + tutorColumns + `
			  FROM tutors
			  WHERE user_id = $1`
	t, err := scanTutor(s.DB.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// GetTutorByID возвращает анкету по её ID.
func (s *Storage) GetTutorByID(ctx context.Context, tutorID string) (*models.TutorProfile, error) {
	const op = "storage.GetTutorByID"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + tutorColumns + `
			  FROM tutors
			  WHERE id = $1`
	t, err := scanTutor(s.DB.QueryRowContext(ctx, query, tutorID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// ListVerifiedTutors возвращает одобренные анкеты по убыванию рейтинга.
// limit <= 0 означает без ограничения.
func (s *Storage) ListVerifiedTutors(ctx context.Context, limit int) ([]*models.TutorProfile, error) {
	const op = "storage.ListVerifiedTutors"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + tutorColumns + `
			  FROM tutors
			  WHERE verified = TRUE
			  ORDER BY rating DESC, created_at ASC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.TutorProfile, 0)
	for rows.Next() {
		t, err := scanTutor(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateVerificationStatus меняет статус проверки; флаг verified
// выставляется только для статуса verified.
func (s *Storage) UpdateVerificationStatus(ctx context.Context, tutorID string, status models.VerificationStatus) error {
	const op = "storage.UpdateVerificationStatus"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `UPDATE tutors
			  SET verification_status = $1,
			      verified = $2,
			      updated_at = NOW()
			  WHERE id = $3`
	res, err := s.DB.ExecContext(ctx, query, status, status == models.StatusVerified, tutorID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// UpdatePhotoURL сохраняет ссылку на фотографию в анкете пользователя userID.
func (s *Storage) UpdatePhotoURL(ctx context.Context, userID, url string) error {
	const op = "storage.UpdatePhotoURL"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE tutors SET photo_url = $1, updated_at = NOW() WHERE user_id = $2`, url, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
