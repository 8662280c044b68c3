package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticket-booking/internal/checkout"
	"github.com/iliyamo/cinema-ticket-booking/internal/config"
	"github.com/iliyamo/cinema-ticket-booking/internal/database"
	"github.com/iliyamo/cinema-ticket-booking/internal/handler"
	"github.com/iliyamo/cinema-ticket-booking/internal/pending"
	"github.com/iliyamo/cinema-ticket-booking/internal/queue"
	"github.com/iliyamo/cinema-ticket-booking/internal/reconcile"
	"github.com/iliyamo/cinema-ticket-booking/internal/repository"
	"github.com/iliyamo/cinema-ticket-booking/internal/router"
	"github.com/iliyamo/cinema-ticket-booking/internal/service"
	"github.com/iliyamo/cinema-ticket-booking/internal/views"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(database.Options{
		User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
	})
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal("migrate database", zap.Error(err))
	}

	shows := repository.NewShowRepo(db)
	bookings := repository.NewBookingRepo(db)

	// Without Redis the pending bookings live in this process only.
	rdb := config.NewRedisClient()
	var store pending.Store
	if rdb != nil {
		defer rdb.Close()
		store = pending.NewRedisStore(rdb, cfg.PendingPrefix, cfg.PendingTTL)
	} else {
		logger.Warn("redis unavailable: pending bookings kept in memory, rate limiting and caching disabled")
		store = pending.NewMemoryStore()
	}

	var publisher reconcile.Publisher
	if cfg.RabbitURL != "" {
		p := service.NewPublisher(cfg.RabbitURL, logger.Named("publisher"))
		defer p.Close()
		publisher = p
		go func() {
			c := queue.NewConsumer(cfg.RabbitURL, cfg.BookingLogPath, logger.Named("booking-consumer"))
			if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("booking consumer stopped", zap.Error(err))
			}
		}()
	} else {
		logger.Info("RABBITMQ_URL not set: booking events disabled")
	}

	renderer, err := views.New()
	if err != nil {
		logger.Fatal("load templates", zap.Error(err))
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	orch := checkout.New(store, checkout.Config{
		Merchant:   cfg.ESewa.Merchant(),
		SuccessURL: cfg.SuccessURL(),
		FailureURL: cfg.FailureURL(),
	}, logger.Named("checkout"))
	rec := reconcile.New(shows, bookings, store, cfg.ESewa.Merchant().SecretKey, publisher, logger.Named("reconcile"))

	router.RegisterRoutes(e)
	router.RegisterBooking(e, router.Deps{
		Shows:        &handler.ShowHandler{Shows: shows, DefaultPrice: cfg.DefaultSeatPrice, Logger: logger},
		Checkout:     &handler.CheckoutHandler{Shows: shows, Orchestrator: orch, DefaultPrice: cfg.DefaultSeatPrice, Logger: logger},
		Payment:      &handler.PaymentHandler{Reconciler: rec, Logger: logger},
		Bookings:     &handler.BookingHandler{Bookings: bookings, Logger: logger},
		JWTSecret:    cfg.JWTSecret,
		HandoffTTL:   cfg.PendingTTL,
		SecureCookie: cfg.Production(),
		Redis:        rdb,
		RateLimit:    config.LoadRateLimitConfig(),
		Cache:        config.LoadCacheConfig(),
		Logger:       logger.Named("http"),
	})

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("esewa", cfg.ESewa.FormURL))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.Production() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
