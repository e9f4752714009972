package providers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-tags-relay/internal/weather"
)

// maxBodyBytes caps how much of a provider response we buffer.
const maxBodyBytes = 1 << 20

// rawResponse is a fully read provider answer.
type rawResponse struct {
	StatusCode int
	Body       []byte
}

var errNoHTTPClient = errors.New("http client not configured")

// NewCircuitBreaker builds a breaker that opens after maxFailures consecutive
// provider-side failures (transport errors and 5xx) and stays open for
// openTimeout. Client-side answers such as 404 never count against it.
func NewCircuitBreaker(name string, maxFailures uint32, openTimeout time.Duration) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
	})
}

// doRequest executes req exactly once, optionally through cb, and returns the
// status and body. Non-2xx statuses are not errors here; the caller decides.
func doRequest(client *http.Client, cb *gobreaker.CircuitBreaker, req *http.Request) (rawResponse, error) {
	if client == nil {
		return rawResponse{}, errNoHTTPClient
	}

	call := func() (interface{}, error) {
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}

		raw := rawResponse{StatusCode: resp.StatusCode, Body: body}
		if resp.StatusCode >= http.StatusInternalServerError {
			// Reported as an error so the breaker counts it.
			return raw, &weather.UpstreamError{StatusCode: raw.StatusCode, Body: string(body)}
		}
		return raw, nil
	}

	if cb == nil {
		result, err := call()
		return asRaw(result), err
	}

	result, err := cb.Execute(call)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return rawResponse{}, fmt.Errorf("%w: %v", weather.ErrProviderUnavailable, err)
	}
	return asRaw(result), err
}

func asRaw(result interface{}) rawResponse {
	raw, _ := result.(rawResponse)
	return raw
}
