package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/notifyhub/modules/notifications"
	"github.com/dmitrymomot/notifyhub/notification"
	"github.com/dmitrymomot/notifyhub/pkg/broadcast"
	"github.com/dmitrymomot/notifyhub/pkg/config"
	"github.com/dmitrymomot/notifyhub/pkg/httpserver"
	"github.com/dmitrymomot/notifyhub/pkg/jwt"
	"github.com/dmitrymomot/notifyhub/pkg/logger"
	"github.com/dmitrymomot/notifyhub/pkg/pg"
	redispkg "github.com/dmitrymomot/notifyhub/pkg/redis"
	"github.com/dmitrymomot/notifyhub/pkg/requestid"
)

type appConfig struct {
	ServiceName   string `env:"SERVICE_NAME" envDefault:"notifyhub"`
	Environment   string `env:"APP_ENV" envDefault:"development"`
	HTTPAddr      string `env:"HTTP_ADDR" envDefault:":8080"`
	JWTSigningKey string `env:"JWT_SIGNING_KEY,required"`

	// RedisFanout enables the cross-instance relay; leave off for a
	// single-instance deployment.
	RedisFanout bool `env:"REDIS_FANOUT_ENABLED" envDefault:"false"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var cfg appConfig
	config.MustLoad(&cfg)
	var pgCfg pg.Config
	config.MustLoad(&pgCfg)
	var streamCfg notifications.StreamConfig
	config.MustLoad(&streamCfg)

	logOpt := logger.WithDevelopment(cfg.ServiceName)
	if cfg.Environment == "production" {
		logOpt = logger.WithProduction(cfg.ServiceName)
	}
	log := logger.New(logOpt, logger.WithContextExtractors(requestid.LoggerExtractor()))
	logger.SetAsDefault(log)

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		return err
	}

	jwtService, err := jwt.NewFromString(cfg.JWTSigningKey)
	if err != nil {
		return err
	}

	// The registry is the single process-wide connection table; everything
	// that touches live connections gets this one handle.
	registry := broadcast.NewRegistry()
	defer registry.Close()

	var publisher broadcast.Publisher = registry
	healthchecks := []func(context.Context) error{pg.Healthcheck(pool)}

	if cfg.RedisFanout {
		var redisCfg redispkg.Config
		config.MustLoad(&redisCfg)

		redisClient, err := redispkg.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer func() { _ = redisClient.Close() }()

		bridge := broadcast.NewRedisBridge(registry, redisClient, broadcast.WithBridgeLogger(log))
		go func() { _ = bridge.Run(ctx) }()

		publisher = bridge
		healthchecks = append(healthchecks, redispkg.Healthcheck(redisClient))
	}

	storage := notification.NewPostgresStorage(pool)
	recipients := notification.NewPostgresRecipientSource(pool)
	broadcaster := notification.NewBroadcaster(storage, recipients, publisher,
		notification.WithLogger(log),
	)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", httpserver.HealthCheckHandler(ctx, log, healthchecks...))
	r.Mount("/api/v1/notifications", notifications.Router(notifications.RouterConfig{
		JWT:         jwtService,
		Registry:    registry,
		Storage:     storage,
		Broadcaster: broadcaster,
		Stream:      streamCfg,
		Logger:      log,
	}))

	// No write timeout: the stream endpoint holds connections open for
	// minutes to hours.
	srv := httpserver.New(
		httpserver.WithAddr(cfg.HTTPAddr),
		httpserver.WithReadTimeout(10*time.Second),
		httpserver.WithIdleTimeout(2*time.Minute),
		httpserver.WithLogger(log),
	)
	return srv.Run(ctx, r)
}
