package weather

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

const (
	EndpointWeather = "weather"
	EndpointTags    = "weather-tags"
)

// Lookup outcomes reported to the Recorder.
const (
	OutcomeOK             = "ok"
	OutcomeInvalid        = "invalid"
	OutcomeUpstreamError  = "upstream_error"
	OutcomeUnavailable    = "unavailable"
	OutcomeMalformed      = "malformed"
	OutcomeTransportError = "transport_error"
)

// Service composes the provider and the tag classifier into the two lookups
// exposed over HTTP.
type Service struct {
	provider Provider
	recorder Recorder
	logger   *zap.Logger
}

// NewService creates a new Service. recorder and logger may be nil.
func NewService(provider Provider, recorder Recorder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		provider: provider,
		recorder: recorder,
		logger:   logger,
	}
}

// Weather fetches current conditions for city and returns them normalized.
// The returned city is the name echoed by the provider.
func (s *Service) Weather(ctx context.Context, city string) (result WeatherResult, err error) {
	defer func() { s.record(EndpointWeather, err) }()

	resp, err := s.provider.Current(ctx, Query{City: city, Escape: true})
	if err != nil {
		return WeatherResult{}, err
	}

	temp, err := resp.Temperature()
	if err != nil {
		return WeatherResult{}, err
	}
	desc, err := resp.Description()
	if err != nil {
		return WeatherResult{}, err
	}
	icon, err := resp.Icon()
	if err != nil {
		return WeatherResult{}, err
	}

	return WeatherResult{
		City:        resp.CityName(),
		Temperature: temp,
		Description: desc,
		Icon:        icon,
	}, nil
}

// Tags fetches current conditions for city and classifies them. The returned
// city is the input as given.
func (s *Service) Tags(ctx context.Context, city string) (result TagResult, err error) {
	defer func() { s.record(EndpointTags, err) }()

	resp, err := s.provider.Current(ctx, Query{City: city})
	if err != nil {
		return TagResult{}, err
	}

	temp, err := resp.Temperature()
	if err != nil {
		return TagResult{}, err
	}
	desc, err := resp.Description()
	if err != nil {
		return TagResult{}, err
	}

	return TagResult{
		City: city,
		Tags: ExtractTags(temp, desc),
	}, nil
}

// RecordRejected counts a request refused before any provider call.
func (s *Service) RecordRejected(endpoint string) {
	if s.recorder != nil {
		s.recorder.Record(endpoint, OutcomeInvalid)
	}
}

func (s *Service) record(endpoint string, err error) {
	outcome := Outcome(err)
	if err != nil {
		s.logger.Warn("weather lookup failed",
			zap.String("endpoint", endpoint),
			zap.String("provider", s.provider.Name()),
			zap.String("outcome", outcome),
			zap.Error(err),
		)
	}
	if s.recorder != nil {
		s.recorder.Record(endpoint, outcome)
	}
}

// Outcome classifies a lookup error into one of the Outcome constants.
func Outcome(err error) string {
	var upstream *UpstreamError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &upstream):
		return OutcomeUpstreamError
	case errors.Is(err, ErrProviderUnavailable):
		return OutcomeUnavailable
	case errors.Is(err, ErrMalformedPayload):
		return OutcomeMalformed
	default:
		return OutcomeTransportError
	}
}
