package tutora24

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/tutora24/internal/api/handlers/health"
	"github.com/magabrotheeeer/tutora24/internal/cache"
	"github.com/magabrotheeeer/tutora24/internal/config"
	"github.com/magabrotheeeer/tutora24/internal/lib/jwt"
	"github.com/magabrotheeeer/tutora24/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/tutora24/internal/lib/sl"
	"github.com/magabrotheeeer/tutora24/internal/metrics"
	"github.com/magabrotheeeer/tutora24/internal/migrations"
	"github.com/magabrotheeeer/tutora24/internal/services/directory"
	"github.com/magabrotheeeer/tutora24/internal/services/guard"
	"github.com/magabrotheeeer/tutora24/internal/services/identity"
	"github.com/magabrotheeeer/tutora24/internal/services/onboarding"
	"github.com/magabrotheeeer/tutora24/internal/services/photo"
	"github.com/magabrotheeeer/tutora24/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

// App - HTTP‑сервер со всеми зависимостями.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New подключается к базе, применяет миграции, поднимает Redis и RabbitMQ
// и собирает маршруты. Пустой rabbitmq.url отключает публикацию событий.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.tutora24.New"

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.Redis)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	app := &App{
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}

	var events onboarding.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.Retries, cfg.RabbitMQ.Delay)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.conn = conn
		ch, err := rabbitmq.SetupChannel(conn, rabbitmq.ExchangeTutors, rabbitmq.GetTutorQueues())
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.ch = ch
		events = rabbitmq.NewPublisher(ch, rabbitmq.ExchangeTutors)
	} else {
		logger.Warn("rabbitmq url is empty, application events are disabled")
	}

	m := metrics.New(nil)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.TokenTTL)
	identityService := identity.New(db, cacheRedis, jwtMaker)
	directoryService := directory.New(logger, db, cacheRedis, m, cfg.Directory.CacheTTL, cfg.Directory.FeaturedLimit)
	onboardingService := onboarding.New(logger, identityService, db, directoryService, events, m)
	guardService := guard.New(logger, identityService, db)
	photoService := photo.New(logger, db, cfg.S3)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Deps{
		Health: map[string]health.Pinger{
			"postgres": db,
			"redis":    cacheRedis,
		},
		Directory:  directoryService,
		Onboarding: onboardingService,
		Identity:   identityService,
		Guard:      guardService,
		Photo:      photoService,
		Metrics:    m,
		RateLimit:  cfg.RateLimit,
	})

	app.server = &http.Server{
		Addr:         cfg.HTTPServer.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.TimeoutHTTP,
		WriteTimeout: cfg.HTTPServer.TimeoutHTTP,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}
	return app, nil
}

// Run запускает сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close redis", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
