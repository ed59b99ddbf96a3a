package weather

import (
	"errors"
	"time"
)

// Weather errors.
var (
	ErrProviderUnavailable = errors.New("weather provider unavailable")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
)

// Observation represents weather conditions at a specific point and time.
type Observation struct {
	// Location coordinates
	Lat float64
	Lng float64

	// Condition is the human-readable condition text as reported by the
	// provider, e.g. "Clear", "Light rain", "Thunderstorm". Fare surge
	// matching keys off this text.
	Condition string

	// Temperature in Celsius
	Temperature float64

	// Timestamps
	ObservedAt time.Time
	FetchedAt  time.Time
}
