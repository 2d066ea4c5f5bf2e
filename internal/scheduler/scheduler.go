package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

var ErrStopped = errors.New("scheduler stopped")

// RefreshScheduler runs at most one periodic job. Scheduling again replaces
// the previous job.
type RefreshScheduler struct {
	mu       sync.Mutex
	cron     *cron.Cron
	entry    cron.EntryID
	interval time.Duration
	started  bool
	stopped  bool
}

func NewRefreshScheduler() *RefreshScheduler {
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.DowOptional | cron.Descriptor)
	return &RefreshScheduler{cron: cron.New(cron.WithParser(parser))}
}

// Schedule runs job every interval, replacing any earlier job. Intervals
// under a second are rounded up to one second.
func (s *RefreshScheduler) Schedule(interval time.Duration, job func()) error {
	if interval <= 0 {
		return fmt.Errorf("invalid refresh interval %s", interval)
	}
	if interval < time.Second {
		interval = time.Second
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrStopped
	}

	s.removeLocked()
	spec := "@every " + interval.Round(time.Second).String()
	entry, err := s.cron.AddFunc(spec, job)
	if err != nil {
		log.Error().Err(err).Str("schedule", spec).Msg("Failed to add cron job")
		return err
	}
	s.entry = entry
	s.interval = interval
	if !s.started {
		s.cron.Start()
		s.started = true
	}
	log.Info().Str("schedule", spec).Msg("Scheduled dashboard refresh")
	return nil
}

// Cancel removes the scheduled job, if any.
func (s *RefreshScheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked()
}

func (s *RefreshScheduler) removeLocked() {
	if s.entry == 0 {
		return
	}
	s.cron.Remove(s.entry)
	log.Info().Dur("interval", s.interval).Msg("Removed dashboard refresh job")
	s.entry = 0
	s.interval = 0
}

// Interval is the active refresh interval, 0 when nothing is scheduled.
func (s *RefreshScheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Stop removes the job and waits for a running job to return. Later
// Schedule calls fail with ErrStopped. Safe to call more than once.
func (s *RefreshScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	s.removeLocked()
	started := s.started
	s.mu.Unlock()

	if !started {
		return nil
	}
	log.Info().Msg("Stopping cron scheduler...")
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
		log.Info().Msg("Cron scheduler stopped gracefully.")
		return nil
	case <-ctx.Done():
		log.Error().Msg("Context cancelled while waiting for cron scheduler to stop.")
		return ctx.Err()
	}
}
