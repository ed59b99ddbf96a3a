package routing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftcab/swiftcab/internal/routing"
)

type fakeProvider struct {
	calls int
	leg   *routing.Leg
	err   error
}

func (f *fakeProvider) EstimateLeg(_ context.Context, _, _ routing.Point) (*routing.Leg, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.leg, nil
}

func (f *fakeProvider) Name() string { return "fake" }

func TestService_EstimateLeg(t *testing.T) {
	provider := &fakeProvider{leg: &routing.Leg{DistanceMeters: 12345, DurationSeconds: 900}}
	svc := routing.NewService(routing.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
	})

	leg, err := svc.EstimateLeg(context.Background(),
		routing.Point{Lat: 28.61, Lng: 77.20},
		routing.Point{Lat: 28.65, Lng: 77.25},
	)
	require.NoError(t, err)
	assert.Equal(t, 12345, leg.DistanceMeters)
	assert.Equal(t, 900, leg.DurationSeconds)
}

func TestService_EstimateLeg_CacheHit(t *testing.T) {
	provider := &fakeProvider{leg: &routing.Leg{DistanceMeters: 5000, DurationSeconds: 600}}
	svc := routing.NewService(routing.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
	})
	ctx := context.Background()
	origin := routing.Point{Lat: 28.61, Lng: 77.20}
	dest := routing.Point{Lat: 28.65, Lng: 77.25}

	_, err := svc.EstimateLeg(ctx, origin, dest)
	require.NoError(t, err)
	_, err = svc.EstimateLeg(ctx, origin, dest)
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls, "second estimate should be served from cache")
}

func TestService_EstimateLeg_InvalidCoordinates(t *testing.T) {
	svc := routing.NewService(routing.ServiceConfig{
		Provider: &fakeProvider{},
		Logger:   zerolog.Nop(),
	})

	_, err := svc.EstimateLeg(context.Background(),
		routing.Point{Lat: 91.0, Lng: 77.20},
		routing.Point{Lat: 28.65, Lng: 77.25},
	)
	assert.True(t, errors.Is(err, routing.ErrInvalidCoordinates))
}

func TestService_EstimateLeg_ProviderError(t *testing.T) {
	svc := routing.NewService(routing.ServiceConfig{
		Provider: &fakeProvider{err: routing.ErrRouteUnavailable},
		Logger:   zerolog.Nop(),
	})

	_, err := svc.EstimateLeg(context.Background(),
		routing.Point{Lat: 28.61, Lng: 77.20},
		routing.Point{Lat: 28.65, Lng: 77.25},
	)
	assert.True(t, errors.Is(err, routing.ErrRouteUnavailable))
}

func TestService_EstimateLeg_ProviderOutage(t *testing.T) {
	svc := routing.NewService(routing.ServiceConfig{
		Provider: &fakeProvider{err: errors.New("connection refused")},
		Logger:   zerolog.Nop(),
	})

	_, err := svc.EstimateLeg(context.Background(),
		routing.Point{Lat: 28.61, Lng: 77.20},
		routing.Point{Lat: 28.65, Lng: 77.25},
	)
	assert.True(t, errors.Is(err, routing.ErrProviderUnavailable))
}

func TestLeg_Km(t *testing.T) {
	assert.InDelta(t, 12.35, routing.Leg{DistanceMeters: 12345}.Km(), 1e-9)
	assert.InDelta(t, 0.0, routing.Leg{}.Km(), 1e-9)
}

func TestLeg_Minutes(t *testing.T) {
	assert.Equal(t, 15, routing.Leg{DurationSeconds: 900}.Minutes())
	assert.Equal(t, 1, routing.Leg{DurationSeconds: 20}.Minutes(), "sub-minute legs clamp to one minute")
	assert.Equal(t, 1, routing.Leg{DurationSeconds: 0}.Minutes())
	assert.Equal(t, 1, routing.Leg{DurationSeconds: 90}.Minutes(), "partial minutes truncate")
	assert.Equal(t, 2, routing.Leg{DurationSeconds: 125}.Minutes())
}
