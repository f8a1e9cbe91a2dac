package models

import "time"

// Credential - учётная запись (email + хэш пароля).
type Credential struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Session - открытая сессия пользователя.
// Token передаётся клиенту и возвращается им в заголовке Authorization.
type Session struct {
	Token     string    `json:"token"`
	ID        string    `json:"-"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}
