// Package scheduler runs periodic maintenance jobs for the comparison
// service: flushing the prediction cache after upstream ranking refreshes and
// warming the cache for watched team pairs.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/matchup-engine/internal/service"
)

// Scheduler manages periodic cache maintenance jobs
type Scheduler struct {
	cron            *cron.Cron
	comparisonSvc   *service.ComparisonService
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
}

// WatchedPair is a team pairing whose comparison is kept warm in cache.
type WatchedPair struct {
	TeamAID uuid.UUID
	TeamBID uuid.UUID
}

// ParseWatchedPairs converts "teamAID:teamBID" config entries into pairs.
// Malformed entries are an error rather than silently skipped.
func ParseWatchedPairs(entries []string) ([]WatchedPair, error) {
	pairs := make([]WatchedPair, 0, len(entries))
	for _, entry := range entries {
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("watched pair %q: expected teamAID:teamBID", entry)
		}
		aID, err := uuid.Parse(parts[0])
		if err != nil {
			return nil, fmt.Errorf("watched pair %q: %w", entry, err)
		}
		bID, err := uuid.Parse(parts[1])
		if err != nil {
			return nil, fmt.Errorf("watched pair %q: %w", entry, err)
		}
		pairs = append(pairs, WatchedPair{TeamAID: aID, TeamBID: bID})
	}
	return pairs, nil
}

// NewScheduler creates a new scheduler
func NewScheduler(comparisonSvc *service.ComparisonService, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		comparisonSvc:   comparisonSvc,
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleCacheFlush schedules a full cache flush. The cron expression should
// fire shortly after the ranking pipeline publishes new power scores so stale
// predictions are not served past the refresh.
func (s *Scheduler) ScheduleCacheFlush(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		hits, misses, ratio := s.comparisonSvc.CacheStats()
		s.logger.WithFields(logrus.Fields{
			"hits":   hits,
			"misses": misses,
			"ratio":  fmt.Sprintf("%.2f", ratio),
		}).Info("Flushing comparison cache on schedule")

		s.comparisonSvc.FlushCache()
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled cache flush job")

	return nil
}

// ScheduleWarmup schedules periodic precomputation of watched pairs so their
// first request after a flush is served from cache.
func (s *Scheduler) ScheduleWarmup(intervalSeconds int, pairs []WatchedPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	if len(pairs) == 0 {
		return fmt.Errorf("no pairs to warm")
	}

	if intervalSeconds < 30 {
		intervalSeconds = 30
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(intervalSeconds-1)*time.Second)
		defer cancel()

		warmed := 0
		for _, pair := range pairs {
			if err := s.comparisonSvc.WarmPair(ctx, pair.TeamAID, pair.TeamBID); err != nil {
				s.logger.WithError(err).WithFields(logrus.Fields{
					"team_a": pair.TeamAID,
					"team_b": pair.TeamBID,
				}).Warn("Cache warmup failed for pair")
				continue
			}
			warmed++
		}

		s.logger.WithFields(logrus.Fields{
			"warmed": warmed,
			"total":  len(pairs),
		}).Debug("Cache warmup pass completed")
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %ds", intervalSeconds), jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"interval_seconds": intervalSeconds,
		"pairs":            len(pairs),
	}).Info("Scheduled cache warmup job")

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(s.gracefulTimeout):
		s.logger.Warn("Scheduler stop timed out waiting for running jobs")
	}

	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}
