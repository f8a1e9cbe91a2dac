package models

// Subject - запись справочника предметов. Справочник только читается.
type Subject struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Icon        string  `json:"icon"`
	Description *string `json:"description,omitempty"`
}

// Testimonial - отзыв студента, показывается на главной странице.
type Testimonial struct {
	ID          string  `json:"id"`
	StudentName string  `json:"student_name"`
	TutorID     string  `json:"tutor_id"`
	Rating      int     `json:"rating"`
	Comment     *string `json:"comment,omitempty"`
}
