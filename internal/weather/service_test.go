package weather

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	resp    ProviderResponse
	err     error
	queries []Query
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Current(_ context.Context, q Query) (ProviderResponse, error) {
	f.queries = append(f.queries, q)
	return f.resp, f.err
}

type fakeRecorder struct {
	mu     sync.Mutex
	events []string
}

func (r *fakeRecorder) Record(endpoint, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, endpoint+":"+outcome)
}

func ptr[T any](v T) *T { return &v }

func londonResponse() ProviderResponse {
	return ProviderResponse{
		Name: ptr("London"),
		Main: &ProviderMain{Temp: ptr(15.3)},
		Weather: []ProviderCondition{
			{Description: ptr("scattered clouds"), Icon: ptr("03d")},
		},
	}
}

func TestService_Weather(t *testing.T) {
	prov := &fakeProvider{resp: londonResponse()}
	rec := &fakeRecorder{}
	svc := NewService(prov, rec, nil)

	got, err := svc.Weather(context.Background(), "london")

	require.NoError(t, err)
	assert.Equal(t, WeatherResult{City: ptr("London"), Temperature: 15.3, Description: "scattered clouds", Icon: "03d"}, got)
	assert.Equal(t, []Query{{City: "london", Escape: true}}, prov.queries)
	assert.Equal(t, []string{"weather:ok"}, rec.events)
}

func TestService_WeatherWithoutProviderName(t *testing.T) {
	resp := londonResponse()
	resp.Name = nil
	svc := NewService(&fakeProvider{resp: resp}, nil, nil)

	got, err := svc.Weather(context.Background(), "london")

	require.NoError(t, err)
	assert.Nil(t, got.City)
	assert.Equal(t, 15.3, got.Temperature)
}

func TestService_Tags(t *testing.T) {
	prov := &fakeProvider{resp: londonResponse()}
	rec := &fakeRecorder{}
	svc := NewService(prov, rec, nil)

	got, err := svc.Tags(context.Background(), "london")

	require.NoError(t, err)
	assert.Equal(t, TagResult{City: "london", Tags: []string{"cool", "scattered clouds", "cloudy"}}, got)
	assert.Equal(t, []Query{{City: "london"}}, prov.queries)
	assert.Equal(t, []string{"weather-tags:ok"}, rec.events)
}

func TestService_TagsIgnoresMissingIcon(t *testing.T) {
	resp := londonResponse()
	resp.Weather[0].Icon = nil
	svc := NewService(&fakeProvider{resp: resp}, nil, nil)

	_, err := svc.Tags(context.Background(), "London")
	require.NoError(t, err)

	_, err = svc.Weather(context.Background(), "London")
	require.ErrorIs(t, err, ErrMalformedPayload)
	assert.ErrorContains(t, err, "weather[0].icon")
}

func TestService_MalformedPayload(t *testing.T) {
	rec := &fakeRecorder{}
	svc := NewService(&fakeProvider{resp: ProviderResponse{Name: ptr("X")}}, rec, nil)

	_, err := svc.Weather(context.Background(), "X")
	require.ErrorIs(t, err, ErrMalformedPayload)

	_, err = svc.Tags(context.Background(), "X")
	require.ErrorIs(t, err, ErrMalformedPayload)

	assert.Equal(t, []string{"weather:malformed", "weather-tags:malformed"}, rec.events)
}

func TestService_UpstreamErrorPassesThrough(t *testing.T) {
	upstream := &UpstreamError{StatusCode: 404, Body: `{"cod":"404"}`}
	rec := &fakeRecorder{}
	svc := NewService(&fakeProvider{err: upstream}, rec, nil)

	_, err := svc.Weather(context.Background(), "Nowhere")

	var got *UpstreamError
	require.True(t, errors.As(err, &got))
	assert.Equal(t, `{"cod":"404"}`, got.Body)
	assert.Equal(t, []string{"weather:upstream_error"}, rec.events)
}

func TestService_RecordRejected(t *testing.T) {
	rec := &fakeRecorder{}
	svc := NewService(&fakeProvider{}, rec, nil)

	svc.RecordRejected(EndpointWeather)

	assert.Equal(t, []string{"weather:invalid"}, rec.events)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, OutcomeOK, Outcome(nil))
	assert.Equal(t, OutcomeUpstreamError, Outcome(fmtWrap(&UpstreamError{StatusCode: 500})))
	assert.Equal(t, OutcomeUnavailable, Outcome(fmtWrap(ErrProviderUnavailable)))
	assert.Equal(t, OutcomeMalformed, Outcome(malformed("name")))
	assert.Equal(t, OutcomeTransportError, Outcome(context.DeadlineExceeded))
}

func TestUpstreamError_ProviderSide(t *testing.T) {
	assert.False(t, (&UpstreamError{StatusCode: 401}).ProviderSide())
	assert.False(t, (&UpstreamError{StatusCode: 404}).ProviderSide())
	assert.True(t, (&UpstreamError{StatusCode: 500}).ProviderSide())
	assert.True(t, (&UpstreamError{StatusCode: 503}).ProviderSide())
}

func fmtWrap(err error) error {
	return errors.Join(errors.New("lookup"), err)
}
