package writeitdown

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/writeitdown/internal/cache"
	"github.com/magabrotheeeer/writeitdown/internal/config"
	"github.com/magabrotheeeer/writeitdown/internal/http/middlewarectx"
	"github.com/magabrotheeeer/writeitdown/internal/lib/jwt"
	"github.com/magabrotheeeer/writeitdown/internal/lib/password"
	"github.com/magabrotheeeer/writeitdown/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/writeitdown/internal/lib/sl"
	"github.com/magabrotheeeer/writeitdown/internal/migrations"
	authservice "github.com/magabrotheeeer/writeitdown/internal/services/auth"
	entryservice "github.com/magabrotheeeer/writeitdown/internal/services/entry"
	"github.com/magabrotheeeer/writeitdown/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

type closer func() error

// App: HTTP-сервер дневника со всеми зависимостями.
type App struct {
	server  *http.Server
	logger  *slog.Logger
	closers []closer
}

// New подключает хранилище, применяет миграции и собирает сервисы и маршруты.
// Redis и RabbitMQ необязательны: без адреса используются заглушки.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (app *App, err error) {
	const op = "app.New"

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	closers := []closer{db.Close}
	defer func() {
		if err != nil {
			closeAll(logger, closers)
		}
	}()

	if err = migrations.Run(db.DB); err != nil {
		return nil, err
	}

	var entryCache entryservice.Cache = cache.Noop{}
	if cfg.AddressRedis != "" {
		redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, err
		}
		closers = append(closers, redisCache.Close)
		entryCache = redisCache
	} else {
		logger.Info("redis address is not set, entry cache disabled", sl.Op(op))
	}

	var publisher authservice.Publisher = rabbitmq.Noop{}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.Exchange, cfg.ConnectRetries, cfg.RetryDelay)
		if err != nil {
			return nil, err
		}
		closers = append(closers, amqpPublisher.Close)
		publisher = amqpPublisher
	} else {
		logger.Info("amqp url is not set, account events disabled", sl.Op(op))
	}

	jwtMaker, err := jwt.NewJWTMaker(cfg.JWTSecretKey, jwt.TokenTTL)
	if err != nil {
		return nil, err
	}

	authService := authservice.NewAuthService(db, password.NewHasher(password.DefaultParams), jwtMaker, publisher, logger)
	entryService := entryservice.NewEntryService(db, entryCache, logger)
	limiter := middlewarectx.NewClientLimiter(rate.Limit(cfg.RPS), cfg.Burst)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, entryService, db, limiter)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:  srv,
		logger:  logger,
		closers: closers,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
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
		closeAll(a.logger, a.closers)
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		closeAll(a.logger, a.closers)
		return err
	}
}

// closeAll закрывает ресурсы в обратном порядке открытия.
func closeAll(logger *slog.Logger, closers []closer) {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			logger.Warn("failed to close resource", sl.Err(err))
		}
	}
}
