package store

import (
	"sync"
)

// LookupStats maps endpoint -> outcome -> count.
type LookupStats map[string]map[string]int64

// Total returns the number of lookups recorded across all endpoints.
func (s LookupStats) Total() int64 {
	var n int64
	for _, outcomes := range s {
		for _, c := range outcomes {
			n += c
		}
	}
	return n
}

// MemoryStore is a concurrency-safe in-memory set of lookup counters. It holds
// no weather data; counters live for the lifetime of the process.
type MemoryStore struct {
	mu sync.RWMutex

	// key: endpoint, value: outcome -> count
	data map[string]map[string]int64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string]int64),
	}
}

// Record increments the counter for endpoint and outcome.
func (s *MemoryStore) Record(endpoint, outcome string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcomes, ok := s.data[endpoint]
	if !ok {
		outcomes = make(map[string]int64)
		s.data[endpoint] = outcomes
	}
	outcomes[outcome]++
}

// Snapshot returns a deep copy of the current counters.
func (s *MemoryStore) Snapshot() LookupStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(LookupStats, len(s.data))
	for endpoint, outcomes := range s.data {
		cp := make(map[string]int64, len(outcomes))
		for outcome, c := range outcomes {
			cp[outcome] = c
		}
		out[endpoint] = cp
	}
	return out
}
