package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/i474232898/weather-tags-relay/internal/weather"
)

var _ weather.Recorder = (*MemoryStore)(nil)

func TestMemoryStore_RecordAndSnapshot(t *testing.T) {
	s := NewMemoryStore()

	s.Record(weather.EndpointWeather, weather.OutcomeOK)
	s.Record(weather.EndpointWeather, weather.OutcomeOK)
	s.Record(weather.EndpointWeather, weather.OutcomeUpstreamError)
	s.Record(weather.EndpointTags, weather.OutcomeInvalid)

	snap := s.Snapshot()

	assert.Equal(t, LookupStats{
		"weather":      {"ok": 2, "upstream_error": 1},
		"weather-tags": {"invalid": 1},
	}, snap)
	assert.Equal(t, int64(4), snap.Total())
}

func TestMemoryStore_SnapshotIsCopy(t *testing.T) {
	s := NewMemoryStore()
	s.Record("weather", "ok")

	snap := s.Snapshot()
	snap["weather"]["ok"] = 100
	snap["other"] = map[string]int64{"ok": 1}

	assert.Equal(t, LookupStats{"weather": {"ok": 1}}, s.Snapshot())
}

func TestMemoryStore_ConcurrentRecord(t *testing.T) {
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				s.Record("weather", "ok")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1000), s.Snapshot()["weather"]["ok"])
}
