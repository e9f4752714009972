package weather

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrProviderUnavailable is returned without calling the provider while the
	// circuit breaker is open.
	ErrProviderUnavailable = errors.New("weather provider unavailable")

	// ErrMalformedPayload means the provider answered 200 but a required field
	// was missing or the body was not valid JSON.
	ErrMalformedPayload = errors.New("malformed provider payload")
)

// UpstreamError is returned when the provider answers with a non-200 status.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("provider returned status %d", e.StatusCode)
}

// ProviderSide reports whether the failure is on the provider's end (5xx)
// rather than a rejected lookup such as an unknown city or a bad key.
func (e *UpstreamError) ProviderSide() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

func malformed(field string) error {
	return fmt.Errorf("%w: missing %s", ErrMalformedPayload, field)
}
