package models

// ApplicationSubmitted публикуется после успешной регистрации репетитора.
// Письмо отправляет внешний сервис рассылки.
type ApplicationSubmitted struct {
	Email      string   `json:"email"`
	FullName   string   `json:"full_name"`
	TutorID    string   `json:"tutor_id"`
	UserID     string   `json:"user_id"`
	SubjectIDs []string `json:"subject_ids"`
}

// ReviewDecision приходит от внешнего процесса проверки анкет.
type ReviewDecision struct {
	TutorID string             `json:"tutor_id"`
	Status  VerificationStatus `json:"status"`
}
