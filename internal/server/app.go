// Package server wires configuration, storage and services into the HTTP
// API and runs it until interrupted.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/eventaura/internal/logging"
	"github.com/dmitrijs2005/eventaura/internal/server/auth"
	"github.com/dmitrijs2005/eventaura/internal/server/config"
	"github.com/dmitrijs2005/eventaura/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/eventaura/internal/server/repositories/revocations"
	"github.com/dmitrijs2005/eventaura/internal/server/rest"
	"github.com/dmitrijs2005/eventaura/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	redis  *redis.Client
	server *rest.HTTPServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewDefault(c.LogLevel).With("app", "eventaura")

	db, m, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}

	var rs revocations.Store = revocations.NoopStore{}
	if c.RedisURL != "" {
		client, err := revocations.Connect(ctx, c.RedisURL)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		app.redis = client
		rs = revocations.NewRedisStore(client)
		logger.Info(ctx, "logout revocation enabled")
	}

	codec := auth.NewCodec([]byte(c.SecretKey), c.TokenValidityDuration)

	photos := services.NewPhotoService(c)
	if !photos.Enabled() {
		logger.Warn(ctx, "photo storage not configured, uploads disabled")
	}

	handler := rest.NewHandler(rest.Deps{
		Users:        services.NewUserService(db, m, codec, rs),
		Events:       services.NewEventService(db, m),
		Photos:       photos,
		DB:           db,
		Logger:       logger,
		Registry:     prometheus.NewRegistry(),
		SessionTTL:   c.TokenValidityDuration,
		CookieSecure: c.CookieSecure,
	})

	app.server = rest.NewHTTPServer(c.EndpointAddrHTTP, rest.NewRouter(handler), logger.With("module", "http"))
	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until a termination signal arrives or ctx is cancelled, then
// releases the store connections.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	err := app.server.Run(ctx)
	app.close(ctx)
	return err
}

func (app *App) close(ctx context.Context) {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Warn(ctx, "redis close error", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "Stopped")
}
