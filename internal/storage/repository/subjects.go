package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/tutora24/internal/models"
)

// ListSubjects возвращает справочник предметов по алфавиту.
func (s *Storage) ListSubjects(ctx context.Context) ([]*models.Subject, error) {
	const op = "storage.ListSubjects"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT id, name, icon, description FROM subjects ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Subject, 0)
	for rows.Next() {
		var subj models.Subject
		var description sql.NullString
		if err = rows.Scan(&subj.ID, &subj.Name, &subj.Icon, &description); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if description.Valid {
			subj.Description = &description.String
		}
		result = append(result, &subj)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListTutorSubjectNames возвращает соответствие ID анкеты -> названия её предметов.
func (s *Storage) ListTutorSubjectNames(ctx context.Context) (map[string][]string, error) {
	const op = "storage.ListTutorSubjectNames"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ts.tutor_id, s.name
			  FROM tutor_subjects ts
			  JOIN subjects s ON s.id = ts.subject_id
			  ORDER BY ts.tutor_id, s.name`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make(map[string][]string)
	for rows.Next() {
		var tutorID, name string
		if err = rows.Scan(&tutorID, &name); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result[tutorID] = append(result[tutorID], name)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListTestimonials возвращает отзывы студентов, новые первыми.
func (s *Storage) ListTestimonials(ctx context.Context, limit int) ([]*models.Testimonial, error) {
	const op = "storage.ListTestimonials"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, student_name, tutor_id, rating, comment
			  FROM testimonials
			  ORDER BY created_at DESC`
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

	result := make([]*models.Testimonial, 0)
	for rows.Next() {
		var tm models.Testimonial
		var comment sql.NullString
		if err = rows.Scan(&tm.ID, &tm.StudentName, &tm.TutorID, &tm.Rating, &comment); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if comment.Valid {
			tm.Comment = &comment.String
		}
		result = append(result, &tm)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListSubjectNamesForTutor возвращает названия предметов одной анкеты по алфавиту.
func (s *Storage) ListSubjectNamesForTutor(ctx context.Context, tutorID string) ([]string, error) {
	const op = "storage.ListSubjectNamesForTutor"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT s.name
			  FROM tutor_subjects ts
			  JOIN subjects s ON s.id = ts.subject_id
			  WHERE ts.tutor_id = $1
			  ORDER BY s.name`
	rows, err := s.DB.QueryContext(ctx, query, tutorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		names = append(names, name)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return names, nil
}
