package onboarding

import (
	"errors"
	"fmt"
)

// ErrSubmissionInFlight - анкета с тем же email уже обрабатывается.
var ErrSubmissionInFlight = errors.New("application for this email is already being submitted")

// ValidationError - ошибка ввода, найденная до обращения к внешним системам.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// CredentialError - хранилище учётных данных отказало в регистрации.
// Message - текст для пользователя.
type CredentialError struct {
	Message string
	Err     error
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("credential error: %s", e.Message)
}

func (e *CredentialError) Unwrap() error { return e.Err }

// ProfileError - не удалось сохранить анкету после создания учётной записи.
// Orphaned означает, что компенсация не удалась и учётная запись осталась без анкеты.
type ProfileError struct {
	UserID   string
	Orphaned bool
	Err      error
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("could not create tutor profile: %v", e.Err)
}

func (e *ProfileError) Unwrap() error { return e.Err }

// AssociationError - не удалось сохранить предметы анкеты. Анкета при этом
// тоже откатывается.
type AssociationError struct {
	UserID   string
	Orphaned bool
	Err      error
}

func (e *AssociationError) Error() string {
	return fmt.Sprintf("could not save tutor subjects: %v", e.Err)
}

func (e *AssociationError) Unwrap() error { return e.Err }

// IsOrphaned сообщает, что после ошибки осталась учётная запись без анкеты.
// Такую регистрацию можно завершить через ResumeApplication.
func IsOrphaned(err error) bool {
	var pe *ProfileError
	if errors.As(err, &pe) {
		return pe.Orphaned
	}
	var ae *AssociationError
	if errors.As(err, &ae) {
		return ae.Orphaned
	}
	return false
}
