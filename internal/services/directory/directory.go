// Package directory отдаёт публичный каталог одобренных репетиторов:
// поиск, подборку для главной страницы и справочник предметов.
//
// Списки кэшируются в Redis; решение модерации сбрасывает кэш.
package directory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/tutora24/internal/lib/sl"
	"github.com/magabrotheeeer/tutora24/internal/models"
	"github.com/magabrotheeeer/tutora24/internal/services/verification"
)

// Ключи кэша.
const (
	CacheKeyVerified = "directory:verified"
	CacheKeySubjects = "directory:subjects"
)

const testimonialsLimit = 4

// Repository читает данные каталога.
type Repository interface {
	ListVerifiedTutors(ctx context.Context, limit int) ([]*models.TutorProfile, error)
	ListTutorSubjectNames(ctx context.Context) (map[string][]string, error)
	ListSubjects(ctx context.Context) ([]*models.Subject, error)
	ListTestimonials(ctx context.Context, limit int) ([]*models.Testimonial, error)
}

// Cache хранит JSON‑значения с TTL.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// Recorder учитывает попадания в кэш.
type Recorder interface {
	CacheLookup(hit bool)
}

// Listing - анкета в каталоге вместе с названиями её предметов.
type Listing struct {
	Tutor    *models.TutorProfile `json:"tutor"`
	Subjects []string             `json:"subjects"`
}

// Featured - подборка для главной страницы.
type Featured struct {
	Tutors       []Listing             `json:"tutors"`
	Subjects     []*models.Subject     `json:"subjects"`
	Testimonials []*models.Testimonial `json:"testimonials"`
}

// Service реализует каталог.
type Service struct {
	log           *slog.Logger
	repo          Repository
	cache         Cache
	metrics       Recorder
	ttl           time.Duration
	featuredLimit int
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, repo Repository, cache Cache, rec Recorder, ttl time.Duration, featuredLimit int) *Service {
	return &Service{
		log:           log,
		repo:          repo,
		cache:         cache,
		metrics:       rec,
		ttl:           ttl,
		featuredLimit: featuredLimit,
	}
}

// Search возвращает одобренные анкеты, подходящие под запрос, по убыванию рейтинга.
func (s *Service) Search(ctx context.Context, q Query) ([]Listing, error) {
	const op = "directory.Search"

	listings, err := s.verifiedListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if Matches(l.Tutor, l.Subjects, q) {
			result = append(result, l)
		}
	}
	return result, nil
}

// Featured возвращает первые анкеты каталога, справочник и отзывы.
func (s *Service) Featured(ctx context.Context) (Featured, error) {
	const op = "directory.Featured"

	listings, err := s.verifiedListings(ctx)
	if err != nil {
		return Featured{}, fmt.Errorf("%s: %w", op, err)
	}
	if s.featuredLimit > 0 && len(listings) > s.featuredLimit {
		listings = listings[:s.featuredLimit]
	}
	subjects, err := s.ListSubjects(ctx)
	if err != nil {
		return Featured{}, fmt.Errorf("%s: %w", op, err)
	}
	testimonials, err := s.repo.ListTestimonials(ctx, testimonialsLimit)
	if err != nil {
		return Featured{}, fmt.Errorf("%s: %w", op, err)
	}
	return Featured{
		Tutors:       listings,
		Subjects:     subjects,
		Testimonials: testimonials,
	}, nil
}

// ListSubjects возвращает справочник предметов по алфавиту.
func (s *Service) ListSubjects(ctx context.Context) ([]*models.Subject, error) {
	const op = "directory.ListSubjects"

	var subjects []*models.Subject
	if s.fromCache(ctx, CacheKeySubjects, &subjects) {
		return subjects, nil
	}
	subjects, err := s.repo.ListSubjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.toCache(ctx, CacheKeySubjects, subjects)
	return subjects, nil
}

// Invalidate сбрасывает закэшированный список анкет.
func (s *Service) Invalidate(ctx context.Context) error {
	const op = "directory.Invalidate"
	if err := s.cache.Invalidate(ctx, CacheKeyVerified); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) verifiedListings(ctx context.Context) ([]Listing, error) {
	var listings []Listing
	if s.fromCache(ctx, CacheKeyVerified, &listings) {
		return listings, nil
	}

	tutors, err := s.repo.ListVerifiedTutors(ctx, 0)
	if err != nil {
		return nil, err
	}
	names, err := s.repo.ListTutorSubjectNames(ctx)
	if err != nil {
		return nil, err
	}

	listings = make([]Listing, 0, len(tutors))
	for _, t := range tutors {
		if !verification.VisibleInDirectory(t.VerificationStatus) {
			continue
		}
		subjects := names[t.ID]
		if subjects == nil {
			subjects = []string{}
		}
		listings = append(listings, Listing{Tutor: t, Subjects: subjects})
	}
	s.toCache(ctx, CacheKeyVerified, listings)
	return listings, nil
}

// fromCache читает ключ; ошибки кэша логируются, и чтение идёт из базы.
func (s *Service) fromCache(ctx context.Context, key string, result any) bool {
	found, err := s.cache.Get(ctx, key, result)
	if err != nil {
		s.log.Warn("directory cache read failed", slog.String("key", key), sl.Err(err))
		return false
	}
	s.metrics.CacheLookup(found)
	return found
}

func (s *Service) toCache(ctx context.Context, key string, value any) {
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.log.Warn("directory cache write failed", slog.String("key", key), sl.Err(err))
	}
}
