package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nicoreyes-dev/airgo/internal/config"
	"github.com/nicoreyes-dev/airgo/internal/domain"
	"github.com/nicoreyes-dev/airgo/internal/postgres"
	redisx "github.com/nicoreyes-dev/airgo/internal/redis"
	postgresrepo "github.com/nicoreyes-dev/airgo/internal/repository/postgres"
	redisrepo "github.com/nicoreyes-dev/airgo/internal/repository/redis"
	"github.com/nicoreyes-dev/airgo/internal/seatmap"
	"github.com/nicoreyes-dev/airgo/internal/service"
	"github.com/nicoreyes-dev/airgo/internal/service/flights"
	"github.com/nicoreyes-dev/airgo/internal/service/reservations"
	httpgin "github.com/nicoreyes-dev/airgo/internal/transport/http/gin"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	services   *service.Services
	pubsub     *redisx.FlightsPubSub
	httpServer *http.Server
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	pgxPool, err := postgres.New(context.Background(), postgres.Config{DSN: cfg.Postgres.DSN()})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	rdb, err := redisx.New(context.Background(), redisx.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	store := postgresrepo.NewStore(pgxPool)
	cache := redisrepo.New(rdb)
	pubsub := redisx.NewFlightsPubSub(rdb)
	limiter := redisrepo.NewSlidingWindowLimiter(
		rdb,
		redisx.KeyRateLimit("booking", "create"),
		cfg.Booking.RateLimit,
		cfg.Booking.RateWindow,
	)
	idempotencyStore := redisrepo.NewIdempotencyStore(rdb, cfg.Booking.IdemTTL)

	services := service.NewServices(store, cache, pubsub, limiter, service.Config{
		Flights: flights.Config{
			CacheTTL:       cfg.Booking.CacheTTL,
			SearchCacheTTL: cfg.Booking.SearchCacheTTL,
		},
		Reservations: reservations.Config{
			HoldTTL: cfg.Booking.HoldTTL,
		},
		Seating: seatmap.Policy{
			Bands: []seatmap.Band{
				{Type: domain.SeatFirst, ThroughRow: cfg.Seating.FirstThroughRow, ExtraPriceCents: cfg.Seating.FirstExtraCents},
				{Type: domain.SeatBusiness, ThroughRow: cfg.Seating.BusinessThroughRow, ExtraPriceCents: cfg.Seating.BusinessExtraCents},
				{Type: domain.SeatEconomy},
			},
		},
	})

	router := httpgin.NewRouter(services, idempotencyStore, logger)

	return &App{
		cfg:      cfg,
		logger:   logger,
		services: services,
		pubsub:   pubsub,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Drop cached flight projections changed by other instances.
	g.Go(func() error {
		err := a.pubsub.Subscribe(gCtx, func(ctx context.Context, flightID int64) {
			a.services.Flights.Invalidate(ctx, flightID)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}
