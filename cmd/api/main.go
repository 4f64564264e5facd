// Package main is the entry point for the Spoedpakketjes delivery API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spoedpakketjes/backend/internal/cache"
	"github.com/spoedpakketjes/backend/internal/config"
	"github.com/spoedpakketjes/backend/internal/domain"
	"github.com/spoedpakketjes/backend/internal/handler"
	"github.com/spoedpakketjes/backend/internal/middleware"
	"github.com/spoedpakketjes/backend/internal/repo"
	"github.com/spoedpakketjes/backend/internal/repo/mem"
	"github.com/spoedpakketjes/backend/internal/service"
	"github.com/spoedpakketjes/backend/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// log/slog is the stdlib structured logger introduced in Go 1.21.
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Storage ----------------------------------------------------------
	var (
		userRepo     repo.UserRepo
		addressRepo  repo.AddressRepo
		driverRepo   repo.DriverRepo
		deliveryRepo repo.DeliveryRepo
	)

	switch cfg.StorageBackend {
	case config.BackendPostgres:
		// Apply pending migrations before accepting traffic. goose needs a
		// database/sql handle; the pool below is what the repos use.
		if err := migrateUp(cfg.DatabaseURL); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		// pgxpool manages a pool of Postgres connections.
		// New() does not open connections immediately — the first query does.
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to create database pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		// Verify the DB is reachable before accepting traffic.
		if err := pool.Ping(context.Background()); err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		slog.Info("database connection established")

		userRepo = repo.NewUserRepo(pool)
		addressRepo = repo.NewAddressRepo(pool)
		driverRepo = repo.NewDriverRepo(pool)
		deliveryRepo = repo.NewDeliveryRepo(pool)

	case config.BackendMemory:
		store := mem.NewStore()
		userRepo = store.Users()
		addressRepo = store.Addresses()
		driverRepo = store.Drivers()
		deliveryRepo = store.Deliveries()
		seedDrivers(driverRepo)
		slog.Info("using in-memory storage")
	}

	// --- Cache ------------------------------------------------------------
	var deliveryCache service.DeliveryCache
	if cfg.RedisAddr != "" {
		c, err := cache.NewDeliveryCache(cfg.RedisAddr)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer c.Close()
		deliveryCache = c
		slog.Info("delivery cache enabled", "addr", cfg.RedisAddr)
	}

	// --- Services ---------------------------------------------------------
	var sim *service.Simulator
	if cfg.SimulateDispatch {
		sim = service.NewSimulator(cfg.SimulatePickupDelay, cfg.SimulateTransitDelay)
		defer sim.Close()
		slog.Info("lifecycle simulator enabled",
			"pickup_delay", cfg.SimulatePickupDelay,
			"transit_delay", cfg.SimulateTransitDelay,
		)
	}

	estimator := service.NewEstimator()
	deliveryService := service.NewDeliveryService(deliveryRepo, driverRepo, estimator, deliveryCache, sim)
	userService := service.NewUserService(userRepo)
	addressService := service.NewAddressService(addressRepo, userRepo)
	driverService := service.NewDriverService(driverRepo)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Metrics →
	// Recoverer → CORS → body-size cap. RequestID generates a unique trace ID
	// per request; RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP
	// (safe behind a proxy); SlogLogger writes one structured JSON log line
	// per request; Recoverer catches panics and returns HTTP 500 instead of
	// crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(middleware.NewMetrics())
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(1 << 20)) // 1 MiB

	srv := handler.NewServer(deliveryService, estimator, userService, addressService, driverService)
	r.Mount("/", srv.Routes())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr, "backend", cfg.StorageBackend)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// migrateUp applies all pending goose migrations from the embedded FS.
func migrateUp(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	_, err = provider.Up(context.Background())
	return err
}

// seedDrivers populates the in-memory store with a couple of active drivers
// so delivery auto-assignment has someone to pick. Memory mode starts empty
// otherwise, which would leave every delivery stuck in pending.
func seedDrivers(drivers repo.DriverRepo) {
	for _, d := range []struct {
		name, vehicle, vehicleType, rating string
	}{
		{"Jan de Vries", "Witte bestelbus", "van", "4.8"},
		{"Fatima el Idrissi", "Elektrische bakfiets", "cargo_bike", "4.9"},
	} {
		if _, err := drivers.Create(context.Background(), domainDriver(d.name, d.vehicle, d.vehicleType, d.rating)); err != nil {
			slog.Warn("failed to seed driver", "name", d.name, "error", err)
		}
	}
}

func domainDriver(name, vehicle, vehicleType, rating string) domain.Driver {
	return domain.Driver{
		Name:        name,
		Vehicle:     vehicle,
		VehicleType: vehicleType,
		Rating:      rating,
		IsActive:    true,
	}
}
