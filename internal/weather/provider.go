package weather

import "context"

// Provider abstracts the current-weather source (OpenWeatherMap).
type Provider interface {
	Name() string
	Current(ctx context.Context, q Query) (ProviderResponse, error)
}

// Recorder receives the outcome of every lookup. The in-memory stats store
// satisfies it.
type Recorder interface {
	Record(endpoint, outcome string)
}
