// Package tutora24 собирает HTTP‑приложение сервиса регистрации репетиторов.
package tutora24

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/tutora24/internal/api/handlers/auth/login"
	"github.com/magabrotheeeer/tutora24/internal/api/handlers/auth/logout"
	"github.com/magabrotheeeer/tutora24/internal/api/handlers/catalog/subjects"
	"github.com/magabrotheeeer/tutora24/internal/api/handlers/directory/featured"
	"github.com/magabrotheeeer/tutora24/internal/api/handlers/directory/search"
	"github.com/magabrotheeeer/tutora24/internal/api/handlers/health"
	"github.com/magabrotheeeer/tutora24/internal/api/handlers/tutor/dashboard"
	"github.com/magabrotheeeer/tutora24/internal/api/handlers/tutor/photo"
	"github.com/magabrotheeeer/tutora24/internal/api/handlers/tutor/register"
	"github.com/magabrotheeeer/tutora24/internal/api/handlers/tutor/resume"
	"github.com/magabrotheeeer/tutora24/internal/api/middlewarectx"
	"github.com/magabrotheeeer/tutora24/internal/config"
	_ "github.com/magabrotheeeer/tutora24/internal/docs"
	"github.com/magabrotheeeer/tutora24/internal/metrics"
)

// DirectoryService - каталог и справочник предметов.
type DirectoryService interface {
	subjects.Service
	search.Service
	featured.Service
}

// OnboardingService - подача и возобновление анкеты.
type OnboardingService interface {
	register.Service
	resume.Service
}

// GuardService - проверка сессии, личный кабинет и выход.
type GuardService interface {
	middlewarectx.SessionGuard
	dashboard.Service
	logout.Service
}

// Deps - зависимости обработчиков.
type Deps struct {
	Health     map[string]health.Pinger
	Directory  DirectoryService
	Onboarding OnboardingService
	Identity   login.Service
	Guard      GuardService
	Photo      photo.Service
	Metrics    *metrics.Metrics
	RateLimit  config.RateLimit
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, d Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.MetricsMiddleware(d.Metrics),
	)

	limiter := middlewarectx.NewClientLimiters(d.RateLimit.RPS, d.RateLimit.Burst)
	photoHandler := photo.New(logger, d.Photo)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/health", health.New(logger, d.Health).ServeHTTP)
		r.Get("/subjects", subjects.New(logger, d.Directory).ServeHTTP)
		r.Get("/tutors", search.New(logger, d.Directory).ServeHTTP)
		r.Get("/featured", featured.New(logger, d.Directory).ServeHTTP)
		r.Post("/logout", logout.New(logger, d.Guard).ServeHTTP)

		// Регистрация и вход с ограничением частоты
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))
			r.Post("/tutors/register", register.New(logger, d.Onboarding).ServeHTTP)
			r.Post("/login", login.New(logger, d.Identity).ServeHTTP)
		})

		// Группа с проверкой сессии
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(logger, d.Guard))
			r.Get("/tutor/dashboard", dashboard.New(logger, d.Guard).ServeHTTP)
			r.Post("/tutor/resume", resume.New(logger, d.Onboarding).ServeHTTP)
			r.Post("/tutor/photo", photoHandler.Presign)
			r.Put("/tutor/photo", photoHandler.Attach)
		})
	})

	r.Handle("/metrics", d.Metrics.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
