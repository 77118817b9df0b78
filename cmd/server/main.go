package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"triproute/internal/app"
	"triproute/internal/config"
	"triproute/internal/directions"
	"triproute/internal/handler"
	internalRedis "triproute/internal/redis"
	"triproute/internal/repository/postgres"
	"triproute/internal/service"
	"triproute/internal/tracking"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic first so the database driver can be instrumented.
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s", cfg.NewRelic.AppName)
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	server := wireServer(db, redisClient, nrApp, cfg)

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Redis-backed stores.
	locationStore := internalRedis.NewVehicleLocationStore(redisClient)
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewRouteCacheStore(redisClient, cfg.Engine.FetchWindow)

	// Repositories.
	tripRepo := postgres.NewTripRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)

	// Directions provider and services.
	provider := directions.NewClient(cfg.Directions.BaseURL, cfg.Directions.APIKey, cfg.Directions.Mode, cfg.Directions.Timeout)

	routeService := service.NewRouteService(provider, cacheStore, lockStore)
	routeService.SetFetchWindow(cfg.Engine.FetchWindow)
	routeService.SetSimplifyMaxPoints(cfg.Engine.SimplifyMaxPoints)

	etaService := service.NewETAService(routeService, locationStore)
	etaService.SetDebounce(cfg.Engine.ETADebounce)

	tripService := service.NewTripService(db, tripRepo, bookingRepo, routeService, etaService, locationStore)
	bookingService := service.NewBookingService(bookingRepo, tripRepo, routeService)

	// Live tracking hub and handlers.
	hub := tracking.NewHub()

	tripHandler := handler.NewTripHandler(tripService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	trackHandler := handler.NewTrackHandler(tripService, etaService, hub, cfg.Engine.LocationPollInterval)

	router := app.NewRouter(app.RouterDeps{
		TripHandler:    tripHandler,
		BookingHandler: bookingHandler,
		TrackHandler:   trackHandler,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
	})

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
