package models

// TutorApplication - данные анкеты из формы "Become a Tutor".
//
// Теги validate проверяются до любого обращения к внешним системам.
type TutorApplication struct {
	Email                string   `json:"email" validate:"required,email"`
	Password             string   `json:"password" validate:"required"`
	PasswordConfirmation string   `json:"password_confirmation" validate:"required"`
	FullName             string   `json:"full_name" validate:"required"`
	University           string   `json:"university" validate:"required"`
	Degree               string   `json:"degree" validate:"required"`
	YearsExperience      *int     `json:"years_experience" validate:"required,gte=0"`
	HourlyRate           *float64 `json:"hourly_rate" validate:"required,gte=20,lte=200"`
	Bio                  string   `json:"bio" validate:"required"`
	SubjectIDs           []string `json:"subject_ids" validate:"required,min=1,dive,required"`
}

// ProfileDetails - поля анкеты без учётных данных.
// Используется при возобновлении прерванной регистрации.
type ProfileDetails struct {
	FullName        string   `json:"full_name" validate:"required"`
	University      string   `json:"university" validate:"required"`
	Degree          string   `json:"degree" validate:"required"`
	YearsExperience *int     `json:"years_experience" validate:"required,gte=0"`
	HourlyRate      *float64 `json:"hourly_rate" validate:"required,gte=20,lte=200"`
	Bio             string   `json:"bio" validate:"required"`
	SubjectIDs      []string `json:"subject_ids" validate:"required,min=1,dive,required"`
}

// Details возвращает поля профиля из анкеты.
func (a TutorApplication) Details() ProfileDetails {
	return ProfileDetails{
		FullName:        a.FullName,
		University:      a.University,
		Degree:          a.Degree,
		YearsExperience: a.YearsExperience,
		HourlyRate:      a.HourlyRate,
		Bio:             a.Bio,
		SubjectIDs:      a.SubjectIDs,
	}
}

// ApplicationResult - результат успешной подачи анкеты.
type ApplicationResult struct {
	Email   string             `json:"email"`
	TutorID string             `json:"tutor_id"`
	UserID  string             `json:"user_id"`
	Status  VerificationStatus `json:"verification_status"`
}
