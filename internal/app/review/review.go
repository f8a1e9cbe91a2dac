// Package review собирает процесс, применяющий решения модерации из очереди.
package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/tutora24/internal/cache"
	"github.com/magabrotheeeer/tutora24/internal/config"
	"github.com/magabrotheeeer/tutora24/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/tutora24/internal/lib/sl"
	"github.com/magabrotheeeer/tutora24/internal/metrics"
	"github.com/magabrotheeeer/tutora24/internal/services/directory"
	reviewservice "github.com/magabrotheeeer/tutora24/internal/services/review"
	"github.com/magabrotheeeer/tutora24/internal/storage/repository"
)

const (
	dbReadyRetries = 10
	dbReadyDelay   = 3 * time.Second
)

// App - потребитель очереди tutors.review.
type App struct {
	conn    *amqp.Connection
	ch      *amqp.Channel
	db      *repository.Storage
	cache   *cache.Cache
	service *reviewservice.Service
	metrics *http.Server
	logger  *slog.Logger
}

func waitForDB(ctx context.Context, db *repository.Storage) error {
	for range dbReadyRetries {
		if err := db.CheckDatabaseReady(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dbReadyDelay):
		}
	}
	return errors.New("database not ready after retries")
}

// New подключается к базе, Redis и RabbitMQ. Миграции применяет HTTP‑сервис,
// поэтому здесь только ожидается готовность схемы.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.review.New"

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := waitForDB(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.Redis)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.Retries, cfg.RabbitMQ.Delay)
	if err != nil {
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.ExchangeTutors, rabbitmq.GetTutorQueues())
	if err != nil {
		_ = conn.Close()
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m := metrics.New(nil)
	dir := directory.New(logger, db, cacheRedis, m, cfg.Directory.CacheTTL, cfg.Directory.FeaturedLimit)

	router := chi.NewRouter()
	router.Handle("/metrics", m.Handler())

	return &App{
		conn:    conn,
		ch:      ch,
		db:      db,
		cache:   cacheRedis,
		service: reviewservice.New(logger, db, dir, m),
		metrics: &http.Server{
			Addr:              cfg.HTTPServer.AddressHTTP,
			Handler:           router,
			ReadHeaderTimeout: cfg.HTTPServer.TimeoutHTTP,
		},
		logger: logger,
	}, nil
}

// Run потребляет решения до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.logger, a.ch, rabbitmq.QueueReview, a.service.HandleDecision)
	if err != nil {
		a.logger.Error("failed to start tutors.review consumer", sl.Err(err))
		return err
	}

	go func() {
		a.logger.Info("metrics server starting on", slog.String("address", a.metrics.Addr))
		if err := a.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server stopped", sl.Err(err))
		}
	}()

	<-ctx.Done()
	a.logger.Info("review consumer shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.metrics.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("failed to stop metrics server", sl.Err(err))
	}
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close redis", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
	return nil
}
