// Package models содержит доменные структуры сервиса: профиль репетитора,
// каталог предметов, учётные данные и сессии, а также структуры входящих
// запросов, которые валидируются до передачи в бизнес-логику.
package models

import "time"

// VerificationStatus - статус проверки анкеты репетитора.
type VerificationStatus string

const (
	// StatusPending - анкета ожидает проверки, начальное состояние.
	StatusPending VerificationStatus = "pending"
	// StatusVerified - анкета одобрена, репетитор виден в каталоге.
	StatusVerified VerificationStatus = "verified"
	// StatusRejected - анкета отклонена, конечное состояние.
	StatusRejected VerificationStatus = "rejected"
)

// Valid сообщает, является ли значение одним из известных статусов.
func (s VerificationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusRejected:
		return true
	}
	return false
}

// TutorProfile представляет сохранённую анкету репетитора.
// Profile связан с учётной записью один к одному через UserID.
type TutorProfile struct {
	ID                 string             `json:"id"`
	UserID             string             `json:"user_id"`
	FullName           string             `json:"full_name"`
	Email              string             `json:"email"`
	University         string             `json:"university"`
	Degree             string             `json:"degree"`
	YearsExperience    int                `json:"years_experience"`
	HourlyRate         float64            `json:"hourly_rate"`
	Bio                string             `json:"bio"`
	PhotoURL           *string            `json:"photo_url,omitempty"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	Verified           bool               `json:"verified"`
	Rating             float64            `json:"rating"`
	TotalSessions      int                `json:"total_sessions"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// SubjectAssociation - связь "репетитор преподаёт предмет".
type SubjectAssociation struct {
	TutorID   string
	SubjectID string
}
