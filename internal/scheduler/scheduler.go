package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/weather-tags-relay/internal/store"
)

// StatsSource provides the counters to report.
type StatsSource interface {
	Snapshot() store.LookupStats
}

// Scheduler periodically logs lookup counters.
type Scheduler struct {
	scheduler *gocron.Scheduler
	source    StatsSource
	interval  time.Duration
	logger    *zap.Logger
}

// New creates a new Scheduler. An interval <= 0 disables reporting.
func New(source StatsSource, interval time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		source:    source,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the reporting job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.logger.Info("scheduler: stats interval not set; reporting disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.Report)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Report logs one snapshot of the counters.
func (s *Scheduler) Report() {
	snap := s.source.Snapshot()
	s.logger.Info("lookup stats",
		zap.Int64("total", snap.Total()),
		zap.Any("lookups", snap),
	)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil && s.scheduler.IsRunning() {
		s.scheduler.Stop()
	}
}
