package directory

import (
	"strings"

	"github.com/magabrotheeeer/tutora24/internal/models"
)

// DefaultMaxRate используется, когда верхняя граница ставки не задана.
const DefaultMaxRate = 100

// Query - параметры поиска по каталогу.
type Query struct {
	// Search ищется без учёта регистра в имени, описании и университете.
	Search string
	// Subject ищется без учёта регистра в названиях предметов.
	Subject string
	// MaxRate - максимальная ставка; 0 означает DefaultMaxRate.
	MaxRate float64
}

// Matches сообщает, подходит ли анкета под запрос. Все условия объединяются по И,
// пустые условия пропускают любую анкету.
func Matches(tutor *models.TutorProfile, subjects []string, q Query) bool {
	if tutor == nil {
		return false
	}

	if search := strings.ToLower(strings.TrimSpace(q.Search)); search != "" {
		if !strings.Contains(strings.ToLower(tutor.FullName), search) &&
			!strings.Contains(strings.ToLower(tutor.Bio), search) &&
			!strings.Contains(strings.ToLower(tutor.University), search) {
			return false
		}
	}

	if subject := strings.ToLower(strings.TrimSpace(q.Subject)); subject != "" {
		found := false
		for _, name := range subjects {
			if strings.Contains(strings.ToLower(name), subject) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	maxRate := q.MaxRate
	if maxRate <= 0 {
		maxRate = DefaultMaxRate
	}
	return tutor.HourlyRate <= maxRate
}
