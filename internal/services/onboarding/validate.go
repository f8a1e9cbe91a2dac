package onboarding

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/tutora24/internal/models"
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationError превращает первую ошибку validator в ValidationError.
func validationError(err error) *ValidationError {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return &ValidationError{Field: "request", Message: err.Error()}
	}
	fe := errs[0]
	field := fe.Field()
	// для элементов среза dive отдаёт имя вида subject_ids[0]
	if i := strings.IndexByte(field, '['); i > 0 {
		field = field[:i]
	}
	return &ValidationError{Field: field, Message: messageFor(field, fe.ActualTag(), fe.Param())}
}

func messageFor(field, tag, param string) string {
	switch {
	case field == "subject_ids" && (tag == "min" || tag == "required"):
		return "select at least one subject"
	case tag == "required":
		return fmt.Sprintf("%s is a required field", field)
	case tag == "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case tag == "gte" || tag == "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case tag == "lte" || tag == "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s is not valid", field)
	}
}

// trimApplication обрезает пробелы в текстовых полях, чтобы required
// отклонял строки из одних пробелов.
func trimApplication(a models.TutorApplication) models.TutorApplication {
	a.Email = strings.TrimSpace(a.Email)
	a.FullName = strings.TrimSpace(a.FullName)
	a.University = strings.TrimSpace(a.University)
	a.Degree = strings.TrimSpace(a.Degree)
	a.Bio = strings.TrimSpace(a.Bio)
	return a
}

func trimDetails(d models.ProfileDetails) models.ProfileDetails {
	d.FullName = strings.TrimSpace(d.FullName)
	d.University = strings.TrimSpace(d.University)
	d.Degree = strings.TrimSpace(d.Degree)
	d.Bio = strings.TrimSpace(d.Bio)
	return d
}

// uniqueIDs убирает повторы, сохраняя порядок.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
