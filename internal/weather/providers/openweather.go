package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/i474232898/weather-tags-relay/internal/common"
	"github.com/i474232898/weather-tags-relay/internal/weather"
)

const openWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// Option customizes an OpenWeatherProvider.
type Option func(*OpenWeatherProvider)

// WithBaseURL points the provider at another current-weather endpoint.
func WithBaseURL(u string) Option {
	return func(p *OpenWeatherProvider) {
		if u != "" {
			p.baseURL = u
		}
	}
}

// WithCircuitBreaker routes every call through cb.
func WithCircuitBreaker(cb *gobreaker.CircuitBreaker) Option {
	return func(p *OpenWeatherProvider) { p.circuit = cb }
}

func WithLogger(l *zap.Logger) Option {
	return func(p *OpenWeatherProvider) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewOpenWeatherProvider creates a provider sharing client across requests.
// The api key is used as-is; an empty key surfaces as a provider 401.
func NewOpenWeatherProvider(client *http.Client, apiKey string, opts ...Option) *OpenWeatherProvider {
	p := &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: openWeatherURL,
		client:  client,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// Current performs a single GET against the current-weather endpoint.
// Any status other than 200 is returned as *weather.UpstreamError.
func (p *OpenWeatherProvider) Current(ctx context.Context, q weather.Query) (weather.ProviderResponse, error) {
	city := q.City
	if q.Escape {
		city = common.PathQuote(city)
	}

	values := url.Values{}
	values.Set("q", city)
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")

	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return weather.ProviderResponse{}, fmt.Errorf("build %s request: %w", p.name, err)
	}

	raw, err := doRequest(p.client, p.circuit, req)
	if raw.StatusCode != 0 {
		p.logger.Debug("provider response",
			zap.String("provider", p.name),
			zap.Stringer("query", q),
			zap.Int("status", raw.StatusCode),
			zap.ByteString("body", raw.Body),
		)
	}
	if err != nil {
		return weather.ProviderResponse{}, fmt.Errorf("%s: %w", p.name, err)
	}

	if raw.StatusCode != http.StatusOK {
		return weather.ProviderResponse{}, &weather.UpstreamError{StatusCode: raw.StatusCode, Body: string(raw.Body)}
	}

	var payload weather.ProviderResponse
	if err := json.Unmarshal(raw.Body, &payload); err != nil {
		return weather.ProviderResponse{}, fmt.Errorf("%w: %v", weather.ErrMalformedPayload, err)
	}
	return payload, nil
}
