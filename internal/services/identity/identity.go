// Package identity реализует хранилище учётных данных: регистрацию
// email+пароль, вход, проверку и отзыв сессий.
//
// Сессия - подписанный JWT с идентификатором сессии (jti). Живые сессии
// дополнительно регистрируются в Redis, чтобы выход из системы отзывал токен
// до истечения его срока.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/tutora24/internal/lib/jwt"
	"github.com/magabrotheeeer/tutora24/internal/lib/password"
	"github.com/magabrotheeeer/tutora24/internal/models"
	"github.com/magabrotheeeer/tutora24/internal/storage/repository"
)

var (
	// ErrDuplicateIdentity - email уже зарегистрирован.
	ErrDuplicateIdentity = errors.New("user already registered")
	// ErrWeakPassword - пароль короче minPasswordLength.
	ErrWeakPassword = errors.New("password should be at least 6 characters")
	// ErrInvalidCredentials - неверный email или пароль.
	ErrInvalidCredentials = errors.New("invalid login credentials")
	// ErrInvalidSession - токен пустой, повреждён, истёк или отозван.
	ErrInvalidSession = errors.New("session is not valid")
)

const minPasswordLength = 6

// CredentialRepository описывает хранение учётных записей.
type CredentialRepository interface {
	CreateCredential(ctx context.Context, email, passwordHash string) (string, error)
	GetCredentialByEmail(ctx context.Context, email string) (*models.Credential, error)
	DeleteCredential(ctx context.Context, id string) error
}

// SessionRegistry хранит живые сессии.
type SessionRegistry interface {
	StoreSession(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	SessionAlive(ctx context.Context, sessionID, userID string) (bool, error)
	RevokeSession(ctx context.Context, sessionID string) error
}

// Service отвечает за учётные записи и сессии.
type Service struct {
	creds    CredentialRepository
	sessions SessionRegistry
	jwtMaker jwt.Maker
	now      func() time.Time
}

// New создает новый экземпляр Service.
func New(creds CredentialRepository, sessions SessionRegistry, jwtMaker jwt.Maker) *Service {
	return &Service{
		creds:    creds,
		sessions: sessions,
		jwtMaker: jwtMaker,
		now:      time.Now,
	}
}

// CreateIdentity регистрирует email с паролем и возвращает ID пользователя.
func (s *Service) CreateIdentity(ctx context.Context, email, rawPassword string) (string, error) {
	const op = "identity.CreateIdentity"

	if len(rawPassword) < minPasswordLength {
		return "", fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	id, err := s.creds.CreateCredential(ctx, normalizeEmail(email), hashed)
	if errors.Is(err, repository.ErrDuplicate) {
		return "", fmt.Errorf("%s: %w", op, ErrDuplicateIdentity)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// Authenticate проверяет пароль и открывает новую сессию.
func (s *Service) Authenticate(ctx context.Context, email, rawPassword string) (models.Session, error) {
	const op = "identity.Authenticate"

	cred, err := s.creds.GetCredentialByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return models.Session{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(cred.PasswordHash, rawPassword); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return models.Session{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	sessionID := uuid.NewString()
	token, expires, err := s.jwtMaker.GenerateToken(cred.ID, cred.Email, sessionID)
	if err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.sessions.StoreSession(ctx, sessionID, cred.ID, expires.Sub(s.now())); err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	return models.Session{
		Token:     token,
		ID:        sessionID,
		UserID:    cred.ID,
		Email:     cred.Email,
		ExpiresAt: expires,
	}, nil
}

// CurrentSession возвращает сессию по токену. Любой непригодный токен
// даёт ErrInvalidSession.
func (s *Service) CurrentSession(ctx context.Context, token string) (models.Session, error) {
	const op = "identity.CurrentSession"

	if token == "" {
		return models.Session{}, fmt.Errorf("%s: %w", op, ErrInvalidSession)
	}
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return models.Session{}, fmt.Errorf("%s: %w: %w", op, ErrInvalidSession, err)
	}
	alive, err := s.sessions.SessionAlive(ctx, claims.SessionID(), claims.UserID())
	if err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	if !alive {
		return models.Session{}, fmt.Errorf("%s: %w", op, ErrInvalidSession)
	}

	session := models.Session{
		Token:  token,
		ID:     claims.SessionID(),
		UserID: claims.UserID(),
		Email:  claims.Email,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

// InvalidateSession отзывает сессию. Пустой, просроченный или уже
// отозванный токен ошибкой не считается.
func (s *Service) InvalidateSession(ctx context.Context, token string) error {
	const op = "identity.InvalidateSession"

	if token == "" {
		return nil
	}
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.RevokeSession(ctx, claims.SessionID()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteIdentity удаляет учётную запись. Используется для компенсации
// неудачной регистрации.
func (s *Service) DeleteIdentity(ctx context.Context, userID string) error {
	const op = "identity.DeleteIdentity"

	if err := s.creds.DeleteCredential(ctx, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
