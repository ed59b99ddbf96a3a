// Package main provides the entrypoint for the SwiftCab API server.
package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"googlemaps.github.io/maps"

	"github.com/swiftcab/swiftcab/internal/api"
	"github.com/swiftcab/swiftcab/internal/api/middleware"
	"github.com/swiftcab/swiftcab/internal/booking"
	"github.com/swiftcab/swiftcab/internal/database"
	"github.com/swiftcab/swiftcab/internal/fleet"
	"github.com/swiftcab/swiftcab/internal/geocoding"
	geocodingmaps "github.com/swiftcab/swiftcab/internal/geocoding/googlemaps"
	"github.com/swiftcab/swiftcab/internal/provider/resilience"
	"github.com/swiftcab/swiftcab/internal/quote"
	"github.com/swiftcab/swiftcab/internal/routing"
	routingmaps "github.com/swiftcab/swiftcab/internal/routing/googlemaps"
	"github.com/swiftcab/swiftcab/internal/telemetry"
	"github.com/swiftcab/swiftcab/internal/weather"
	"github.com/swiftcab/swiftcab/internal/weather/googleweather"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

const providerTimeout = 10 * time.Second

func main() {
	const serviceName = "swiftcab-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting SwiftCab API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// One Google Maps Platform key gates geocoding, distance matrix and
	// weather. Without it no quote can be priced, so fail fast.
	apiKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if apiKey == "" {
		log.Fatal().Msg("GOOGLE_MAPS_API_KEY is required")
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Stores: in-memory by default, Postgres when STORE_BACKEND=postgres.
	// The in-memory store loses state on restart, which the product accepts.
	var (
		fleetRepo   fleet.Repository
		bookingRepo booking.Repository
		storeCheck  func(context.Context) error
	)
	if os.Getenv("STORE_BACKEND") == "postgres" {
		dbConfig := database.ConfigFromEnv()
		pool, err := database.Connect(ctx, dbConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("database connected")

		fleetRepo = fleet.NewPostgresRepository(pool)
		bookingRepo = booking.NewPostgresRepository(pool)
		storeCheck = pingPool(pool)
	} else {
		fleetRepo = fleet.NewInMemoryRepository(fleet.DefaultFleet())
		bookingRepo = booking.NewInMemoryRepository()
		log.Info().Msg("using in-memory stores")
	}

	// Shared Google Maps client for geocoding and distance matrix
	mapsClient, err := maps.NewClient(
		maps.WithAPIKey(apiKey),
		maps.WithHTTPClient(&http.Client{Timeout: providerTimeout}),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Google Maps client")
	}

	geocodingService := geocoding.NewService(geocoding.ServiceConfig{
		Provider: geocodingmaps.NewClient(geocodingmaps.ClientConfig{
			MapsClient: mapsClient,
			Region:     os.Getenv("GEOCODING_REGION"),
			Logger:     log,
		}),
		Logger: log,
	})
	log.Info().Msg("geocoding service initialized")

	routingService := routing.NewService(routing.ServiceConfig{
		Provider: routingmaps.NewClient(routingmaps.ClientConfig{
			MapsClient: mapsClient,
			Logger:     log,
		}),
		Logger: log,
	})
	log.Info().Msg("routing service initialized")

	weatherHTTP := resilience.NewClient(resilience.DefaultClientConfig(googleweather.ProviderName))
	resilience.GlobalRegistry.Register(googleweather.ProviderName, weatherHTTP)
	weatherService := weather.NewService(weather.ServiceConfig{
		Provider: googleweather.NewClient(googleweather.ClientConfig{
			APIKey:     apiKey,
			HTTPClient: weatherHTTP,
			Logger:     log,
		}),
		Logger: log,
	})
	log.Info().Msg("weather service initialized")

	locator := fleet.NewLocator(fleet.LocatorConfig{
		Repository: fleetRepo,
		Rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
		Logger:     log,
	})

	quoteBuilder := quote.NewBuilder(quote.BuilderConfig{
		Geocoder: geocodingService,
		Routes:   routingService,
		Weather:  weatherService,
		Locator:  locator,
		Logger:   log,
	})

	bookingService := booking.NewService(booking.ServiceConfig{
		Repository: bookingRepo,
		Fleet:      fleetRepo,
		Logger:     log,
	})
	log.Info().Msg("booking service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:        Version,
		BuildTime:      BuildTime,
		Logger:         log,
		ServiceName:    serviceName,
		Metrics:        metrics,
		QuoteBuilder:   quoteBuilder,
		BookingService: bookingService,
		Locator:        locator,
		FleetRepo:      fleetRepo,
		Registry:       resilience.GlobalRegistry,
		StoreCheck:     storeCheck,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

func pingPool(pool *pgxpool.Pool) func(context.Context) error {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return pool.Ping(ctx)
	}
}
