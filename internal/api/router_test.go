package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftcab/swiftcab/internal/api"
	"github.com/swiftcab/swiftcab/internal/api/models"
	"github.com/swiftcab/swiftcab/internal/booking"
	"github.com/swiftcab/swiftcab/internal/fleet"
	"github.com/swiftcab/swiftcab/internal/geocoding"
	"github.com/swiftcab/swiftcab/internal/quote"
	"github.com/swiftcab/swiftcab/internal/routing"
	"github.com/swiftcab/swiftcab/internal/weather"
)

// fakeGeocoder resolves a fixed set of addresses.
type fakeGeocoder struct {
	locations map[string]*geocoding.Location
}

func (f *fakeGeocoder) Geocode(_ context.Context, address string) (*geocoding.Location, error) {
	if loc, ok := f.locations[address]; ok {
		return loc, nil
	}
	return nil, geocoding.ErrLocationNotFound
}

// fakeRoutes returns a fixed trip leg and a fixed approach leg, telling them
// apart by whether the leg starts at the pickup point.
type fakeRoutes struct {
	pickup routing.Point
	err    error
}

func (f *fakeRoutes) EstimateLeg(_ context.Context, origin, _ routing.Point) (*routing.Leg, error) {
	if f.err != nil {
		return nil, f.err
	}
	if origin == f.pickup {
		return &routing.Leg{DistanceMeters: 4500, DurationSeconds: 840}, nil
	}
	return &routing.Leg{DistanceMeters: 2000, DurationSeconds: 360}, nil
}

type fakeWeather struct {
	condition string
}

func (f *fakeWeather) GetCurrentConditions(_ context.Context, lat, lng float64) (*weather.Observation, error) {
	return &weather.Observation{Lat: lat, Lng: lng, Condition: f.condition}, nil
}

type testEnv struct {
	router    http.Handler
	fleetRepo fleet.Repository
	routes    *fakeRoutes
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zerolog.New(io.Discard)

	fleetRepo := fleet.NewInMemoryRepository(fleet.DefaultFleet())
	locator := fleet.NewLocator(fleet.LocatorConfig{
		Repository: fleetRepo,
		Rand:       rand.New(rand.NewSource(1)),
		Logger:     logger,
	})

	pickup := routing.Point{Lat: 28.613, Lng: 77.209}
	routes := &fakeRoutes{pickup: pickup}

	builder := quote.NewBuilder(quote.BuilderConfig{
		Geocoder: &fakeGeocoder{locations: map[string]*geocoding.Location{
			"Connaught Place": {Lat: pickup.Lat, Lng: pickup.Lng},
			"IGI Airport":     {Lat: 28.5562, Lng: 77.1000},
		}},
		Routes:  routes,
		Weather: &fakeWeather{condition: "Clear"},
		Locator: locator,
		Logger:  logger,
	})

	bookings := booking.NewService(booking.ServiceConfig{
		Repository: booking.NewInMemoryRepository(),
		Fleet:      fleetRepo,
		Logger:     logger,
	})

	router := api.NewRouter(api.RouterConfig{
		Version:        "test",
		BuildTime:      "2024-01-01T00:00:00Z",
		Logger:         logger,
		QuoteBuilder:   builder,
		BookingService: bookings,
		Locator:        locator,
		FleetRepo:      fleetRepo,
	})

	return &testEnv{router: router, fleetRepo: fleetRepo, routes: routes}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Ping(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/ping", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var ping models.Ping
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ping))
	assert.Equal(t, "OK", ping.Status)
	assert.Equal(t, "Backend running", ping.Message)
}

func TestRouter_Estimate(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/booking/estimate?pickup=Connaught+Place&drop=IGI+Airport", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var q models.Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))

	assert.NotEmpty(t, q.ID)
	assert.NotEmpty(t, q.Taxi)
	assert.Equal(t, "Connaught Place", q.Pickup)
	assert.Equal(t, "IGI Airport", q.Drop)
	assert.InDelta(t, 4.5, q.Distance, 1e-9)
	assert.Equal(t, 14, q.ETAMin)
	assert.Equal(t, "Clear", q.Weather)
	// (50 + 4.5*12) * 1.0
	assert.InDelta(t, 104.0, q.Fare, 1e-9)
}

func TestRouter_Estimate_MissingParams(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/booking/estimate?pickup=Connaught+Place", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var problem models.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	require.Len(t, problem.Errors, 1)
	assert.Equal(t, "drop", problem.Errors[0].Field)
}

func TestRouter_Estimate_UnknownAddress(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/booking/estimate?pickup=Nowhere&drop=IGI+Airport", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "could not resolve address")
}

func TestRouter_Estimate_RouteUnavailable(t *testing.T) {
	env := newTestEnv(t)
	env.routes.err = routing.ErrRouteUnavailable

	rec := env.do(t, http.MethodPost, "/booking/estimate?pickup=Connaught+Place&drop=IGI+Airport", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no drivable route")
}

func TestRouter_Estimate_ProviderDown(t *testing.T) {
	env := newTestEnv(t)
	env.routes.err = routing.ErrProviderUnavailable

	rec := env.do(t, http.MethodPost, "/booking/estimate?pickup=Connaught+Place&drop=IGI+Airport", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

// estimateQuote runs the estimate endpoint and returns the decoded quote.
func estimateQuote(t *testing.T, env *testEnv) models.Quote {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/booking/estimate?pickup=Connaught+Place&drop=IGI+Airport", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var q models.Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	return q
}

func TestRouter_ConfirmAndCancelFlow(t *testing.T) {
	env := newTestEnv(t)
	q := estimateQuote(t, env)
	// Pin a registered taxi so the lock assertions are deterministic; the
	// locator may have picked a simulated one.
	q.Taxi = "T1"

	// Confirm mints a fresh booking id and locks the taxi.
	rec := env.do(t, http.MethodPost, "/booking/confirm", q)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var b models.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	assert.NotEmpty(t, b.ID)
	assert.NotEqual(t, q.ID, b.ID)
	assert.Equal(t, q.Taxi, b.Taxi)
	assert.False(t, b.CreatedAt.Time().IsZero())

	taxis, err := env.fleetRepo.List(context.Background())
	require.NoError(t, err)
	for _, taxi := range taxis {
		if taxi.ID == b.Taxi {
			assert.False(t, taxi.Available, "confirmed taxi should be locked")
		}
	}

	// Fee estimate right after confirm falls inside the grace period.
	rec = env.do(t, http.MethodGet, "/booking/estimate_cancel_fee/"+b.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var est models.CancelFeeEstimate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &est))
	assert.False(t, est.FeeApplied)
	assert.Zero(t, est.CancellationFee)

	// Cancel releases the taxi and consumes the booking.
	rec = env.do(t, http.MethodPost, "/booking/cancel/"+b.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var result models.CancelResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "cancelled", result.Status)
	assert.False(t, result.FeeApplied)
	assert.Contains(t, result.Message, "No fee")
	assert.Nil(t, result.CancellationFee)

	taxis, err = env.fleetRepo.List(context.Background())
	require.NoError(t, err)
	for _, taxi := range taxis {
		assert.True(t, taxi.Available)
	}

	// Second cancel fails: the booking is gone.
	rec = env.do(t, http.MethodPost, "/booking/cancel/"+b.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Confirm_TaxiAlreadyTaken(t *testing.T) {
	env := newTestEnv(t)
	q := estimateQuote(t, env)
	q.Taxi = "T1"

	rec := env.do(t, http.MethodPost, "/booking/confirm", q)
	require.Equal(t, http.StatusOK, rec.Code)

	// Same quote again races against the lock.
	rec = env.do(t, http.MethodPost, "/booking/confirm", q)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no longer available")
}

func TestRouter_Confirm_InvalidBody(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/booking/confirm", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Confirm_MissingTaxi(t *testing.T) {
	env := newTestEnv(t)
	q := estimateQuote(t, env)
	q.Taxi = ""

	rec := env.do(t, http.MethodPost, "/booking/confirm", q)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "taxi")
}

func TestRouter_CancelFee_UnknownBooking(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/booking/estimate_cancel_fee/nope", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestRouter_Taxis(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/taxis", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var taxis []models.Taxi
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &taxis))
	// 4 registered plus 10 simulated
	assert.Len(t, taxis, 14)
}

func TestRouter_TaxisReset(t *testing.T) {
	env := newTestEnv(t)

	// Lock a taxi through a booking first.
	q := estimateQuote(t, env)
	q.Taxi = "T2"
	rec := env.do(t, http.MethodPost, "/booking/confirm", q)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/taxis/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var status models.StatusOK
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "OK", status.Status)

	taxis, err := env.fleetRepo.List(context.Background())
	require.NoError(t, err)
	for _, taxi := range taxis {
		assert.True(t, taxi.Available)
	}
}

func TestRouter_OpsHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/ops/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var health models.Health
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.Equal(t, "test", health.Details["version"])
}

func TestRouter_OpsStatus_StoreCheckFailure(t *testing.T) {
	logger := zerolog.New(io.Discard)
	fleetRepo := fleet.NewInMemoryRepository(fleet.DefaultFleet())

	router := api.NewRouter(api.RouterConfig{
		Logger:    logger,
		Locator:   fleet.NewLocator(fleet.LocatorConfig{Repository: fleetRepo, Rand: rand.New(rand.NewSource(1)), Logger: logger}),
		FleetRepo: fleetRepo,
		StoreCheck: func(context.Context) error {
			return errors.New("connection refused")
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/ops/status", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var status models.SystemStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, models.HealthStatusDegraded, status.Status)
	require.Len(t, status.Subsystems, 1)
	assert.Equal(t, "booking-store", status.Subsystems[0].Name)
	assert.Equal(t, models.HealthStatusFail, status.Subsystems[0].Status)
}
