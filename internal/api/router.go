// Package api provides the HTTP API for SwiftCab.
package api

import (
	"context"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/swiftcab/swiftcab/internal/api/handler"
	"github.com/swiftcab/swiftcab/internal/api/middleware"
	"github.com/swiftcab/swiftcab/internal/booking"
	"github.com/swiftcab/swiftcab/internal/fleet"
	"github.com/swiftcab/swiftcab/internal/provider/resilience"
	"github.com/swiftcab/swiftcab/internal/quote"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	QuoteBuilder   *quote.Builder
	BookingService *booking.Service
	Locator        *fleet.Locator
	FleetRepo      fleet.Repository
	Registry       *resilience.Registry

	// StoreCheck pings the booking store for /ops/status. Nil for the
	// in-memory store.
	StoreCheck func(context.Context) error
}

// NewRouter creates a new chi router with all API routes configured.
// Paths are mounted at the root to preserve the contract the browser
// frontend already speaks.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "swiftcab-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.CORS())               // Browser frontends call from any origin
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Registry, cfg.StoreCheck)
	bookingHandler := handler.NewBookingHandler(cfg.QuoteBuilder, cfg.BookingService)
	taxiHandler := handler.NewTaxiHandler(cfg.Locator, cfg.FleetRepo)

	// Estimates fan out to three external providers per call
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	r.Get("/ping", opsHandler.Ping)

	r.Route("/ops", func(r chi.Router) {
		r.Get("/health", opsHandler.HealthCheck)
		r.Get("/status", opsHandler.SystemStatus)
	})

	r.Route("/booking", func(r chi.Router) {
		r.With(expensiveRateLimit).Post("/estimate", bookingHandler.Estimate)
		r.With(standardRateLimit).Post("/confirm", bookingHandler.Confirm)
		r.With(standardRateLimit).Get("/estimate_cancel_fee/{bookingID}", bookingHandler.EstimateCancelFee)
		r.With(standardRateLimit).Post("/cancel/{bookingID}", bookingHandler.Cancel)
	})

	r.Route("/taxis", func(r chi.Router) {
		r.Use(standardRateLimit)
		r.Get("/", taxiHandler.List)
		r.Post("/reset", taxiHandler.Reset)
	})

	return r
}
