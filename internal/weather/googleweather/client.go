package googleweather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/swiftcab/swiftcab/internal/provider/resilience"
	"github.com/swiftcab/swiftcab/internal/weather"
)

const (
	// ProviderName identifies this weather provider.
	ProviderName = "googleweather"

	// DefaultBaseURL is the Google Weather API base URL.
	DefaultBaseURL = "https://weather.googleapis.com/v1"
)

// ClientConfig holds configuration for the Google Weather client.
type ClientConfig struct {
	// APIKey is the Google Maps Platform API key (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to the Google Weather API).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Google Weather API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new Google Weather client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig("googleweather"))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// GetCurrentConditions fetches current weather for a location.
func (c *Client) GetCurrentConditions(ctx context.Context, lat, lng float64) (*weather.Observation, error) {
	url := fmt.Sprintf("%s/currentConditions:lookup?key=%s&location.latitude=%.6f&location.longitude=%.6f",
		c.baseURL, c.apiKey, lat, lng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var gwResp currentConditionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&gwResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return c.toObservation(lat, lng, &gwResp), nil
}

// toObservation converts a Google Weather response to the domain model.
func (c *Client) toObservation(lat, lng float64, resp *currentConditionsResponse) *weather.Observation {
	obs := &weather.Observation{
		Lat:         lat,
		Lng:         lng,
		Condition:   resp.WeatherCondition.Description.Text,
		Temperature: resp.Temperature.Degrees,
		ObservedAt:  resp.CurrentTime,
		FetchedAt:   time.Now(),
	}

	// Some locales omit the description text; fall back to the enum type.
	if obs.Condition == "" {
		obs.Condition = resp.WeatherCondition.Type
	}

	return obs
}

// Google Weather API response structures.

type currentConditionsResponse struct {
	CurrentTime      time.Time `json:"currentTime"`
	WeatherCondition struct {
		Description struct {
			Text         string `json:"text"`
			LanguageCode string `json:"languageCode"`
		} `json:"description"`
		Type string `json:"type"`
	} `json:"weatherCondition"`
	Temperature struct {
		Degrees float64 `json:"degrees"`
		Unit    string  `json:"unit"`
	} `json:"temperature"`
}
