package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/tutora24/internal/models"
)

// CreateCredential сохраняет учётную запись и возвращает её ID.
// Email хранится в нижнем регистре; повтор возвращает ErrDuplicate.
func (s *Storage) CreateCredential(ctx context.Context, email, passwordHash string) (string, error) {
	const op = "storage.CreateCredential"
	if err := checkCtx(ctx, op); err != nil {
		return "", err
	}

	var id string
	query := `INSERT INTO credentials (email, password_hash)
			  VALUES ($1, $2)
			  RETURNING id;`
	err := s.DB.QueryRowContext(ctx, query, strings.ToLower(email), passwordHash).Scan(&id)
	if isUniqueViolation(err) {
		return "", fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// GetCredentialByEmail возвращает учётную запись по email.
func (s *Storage) GetCredentialByEmail(ctx context.Context, email string) (*models.Credential, error) {
	const op = "storage.GetCredentialByEmail"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, email, password_hash, created_at
			  FROM credentials
			  WHERE email = $1`
	c := &models.Credential{}
	err := s.DB.QueryRowContext(ctx, query, strings.ToLower(email)).
		Scan(&c.ID, &c.Email, &c.PasswordHash, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// DeleteCredential удаляет учётную запись. Используется как компенсация
// при сбое регистрации, поэтому отсутствие записи ошибкой не считается.
func (s *Storage) DeleteCredential(ctx context.Context, id string) error {
	const op = "storage.DeleteCredential"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM credentials WHERE id = $1`, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
