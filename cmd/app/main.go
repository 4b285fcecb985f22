package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bagpub/cmd"
	"bagpub/internal/adapters/out/filestore"
	"bagpub/internal/adapters/out/notifications"
	"bagpub/internal/adapters/out/postgres"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs, err := cmd.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	logger := cmd.NewLogger(configs, os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := gorm.Open(gormpostgres.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err = postgres.Migrate(ctx, gormDB); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	assets, err := filestore.NewLocalStore(configs.AssetDir)
	if err != nil {
		log.Fatalf("Error preparing asset store: %v", err)
	}

	clock := clockwork.NewRealClock()
	sender, closeSender := newSender(configs, clock, logger)
	defer closeSender()

	dispatcher := notifications.NewDispatcher(sender, clock, logger, notifications.Config{
		Workers:     configs.NotificationWorkers,
		QueueSize:   configs.NotificationQueueSize,
		MaxAttempts: configs.NotificationMaxAttempts,
		Backoff:     configs.NotificationBackoff,
	})
	dispatcher.Start()

	app := cmd.NewCompositionRoot(configs, gormDB, assets, dispatcher, clock, logger)

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}

	e := newEcho(logger)
	app.CreateHTTPServer().Register(e)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.InfoContext(gCtx, "HTTP server listening", "port", configs.HTTPPort)
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), configs.ShutdownTimeout)
		defer cancel()

		jobManager.StopAll()
		return errors.Join(
			e.Shutdown(shutdownCtx),
			dispatcher.Shutdown(shutdownCtx),
		)
	})

	if err = g.Wait(); err != nil {
		log.Fatalf("Server stopped with error: %v", err)
	}
	logger.Info("Server stopped")
}

// newSender publishes to RabbitMQ when AMQP_URL is set and logs notifications otherwise.
func newSender(configs cmd.Config, clock clockwork.Clock, logger *slog.Logger) (notifications.Sender, func()) {
	if configs.AMQPURL == "" {
		logger.Warn("AMQP_URL is empty, notifications are only logged")
		return notifications.NewLogSender(logger), func() {}
	}

	sender, err := notifications.DialAMQP(configs.AMQPURL, configs.AMQPQueue, clock)
	if err != nil {
		log.Fatalf("Error connecting to message broker: %v", err)
	}
	return sender, func() { _ = sender.Close() }
}

func newEcho(logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				logger.ErrorContext(c.Request().Context(), "request", append(attrs, "error", v.Error)...)
				return nil
			}
			logger.InfoContext(c.Request().Context(), "request", attrs...)
			return nil
		},
	}))
	return e
}
