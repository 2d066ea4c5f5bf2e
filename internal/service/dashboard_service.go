package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"logs-dashboard/config"
	"logs-dashboard/internal/aggregator"
	"logs-dashboard/internal/chart"
	"logs-dashboard/internal/kafka"
	"logs-dashboard/internal/metrics"
	"logs-dashboard/internal/model"
	"logs-dashboard/internal/repository"
	"logs-dashboard/internal/scheduler"
)

const (
	defaultRecentLogLimit = 50
	scheduledCycleTimeout = 30 * time.Second
)

var (
	ErrCycleInFlight      = errors.New("load cycle already in flight")
	ErrGatewayUnavailable = errors.New("unable to connect to the API gateway")
	ErrClosed             = errors.New("dashboard torn down")
	errStaleTick          = errors.New("stale refresh tick")
)

// DashboardState is a copy of what the dashboard currently displays.
type DashboardState struct {
	Loading     bool
	Err         error
	StatsErr    error
	LogsErr     error
	Snapshot    *model.StatsSnapshot
	Summary     *aggregator.Summary
	RecentLogs  []model.LogRecord
	TotalLogs   int64
	Charts      []chart.View
	AutoRefresh time.Duration
	LastCycleID string
	LastCycleAt time.Time
}

type DashboardService interface {
	// LoadCycle fetches stats and recent logs in parallel and applies both.
	// It returns ErrCycleInFlight without any request when a cycle runs.
	LoadCycle(ctx context.Context) error
	Refresh(ctx context.Context) error
	// SetAutoRefresh schedules periodic cycles. interval <= 0 disables them.
	SetAutoRefresh(interval time.Duration) error
	// Teardown stops refreshing and releases every chart. Safe to repeat.
	Teardown(ctx context.Context) error
	State() DashboardState
}

type displayState struct {
	loading     bool
	err         error
	statsErr    error
	logsErr     error
	snapshot    *model.StatsSnapshot
	summary     *aggregator.Summary
	recent      []model.LogRecord
	totalLogs   int64
	autoRefresh time.Duration
	lastCycleID string
	lastCycleAt time.Time
}

type dashboardService struct {
	source    repository.LogSource
	renderer  *chart.Renderer
	scheduler *scheduler.RefreshScheduler
	publisher kafka.SnapshotPublisher
	metrics   *metrics.DashboardMetrics
	logLimit  int
	now       func() time.Time

	baseCtx context.Context
	cancel  context.CancelFunc

	// cycleLock is the in-flight guard, only ever taken with TryLock.
	cycleLock  sync.Mutex
	generation atomic.Uint64

	mu     sync.RWMutex
	state  displayState
	closed bool
}

func NewDashboardService(
	cfg *config.Config,
	source repository.LogSource,
	renderer *chart.Renderer,
	refreshScheduler *scheduler.RefreshScheduler,
	publisher kafka.SnapshotPublisher,
	dashboardMetrics *metrics.DashboardMetrics,
) DashboardService {
	limit := cfg.Gateway.RecentLogLimit
	if limit <= 0 {
		limit = defaultRecentLogLimit
	}
	if publisher == nil {
		publisher = kafka.NoopPublisher{}
	}
	if dashboardMetrics == nil {
		dashboardMetrics = metrics.NewDashboardMetrics(nil)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &dashboardService{
		source:    source,
		renderer:  renderer,
		scheduler: refreshScheduler,
		publisher: publisher,
		metrics:   dashboardMetrics,
		logLimit:  limit,
		now:       time.Now,
		baseCtx:   ctx,
		cancel:    cancel,
	}
}

func (s *dashboardService) LoadCycle(ctx context.Context) error {
	return s.runCycle(ctx, 0)
}

func (s *dashboardService) Refresh(ctx context.Context) error {
	return s.runCycle(ctx, 0)
}

// runCycle runs one load cycle. A non-zero generation marks a scheduled
// tick, which is dropped when auto-refresh changed since it was scheduled.
func (s *dashboardService) runCycle(ctx context.Context, generation uint64) error {
	if !s.cycleLock.TryLock() {
		log.Warn().Msg("Dashboard load already in progress, skipping run.")
		s.metrics.CycleFinished(metrics.OutcomeSkipped)
		return ErrCycleInFlight
	}
	defer s.cycleLock.Unlock()

	if generation != 0 && s.generation.Load() != generation {
		return errStaleTick
	}
	if !s.beginCycle() {
		return ErrClosed
	}

	cycleID := uuid.NewString()
	startTime := time.Now()
	log.Info().Str("cycle_id", cycleID).Msg("Starting dashboard load cycle...")

	var (
		wg       sync.WaitGroup
		snapshot *model.StatsSnapshot
		statsErr error
		logs     []model.LogRecord
		total    int64
		logsErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		start := time.Now()
		snapshot, statsErr = s.source.Stats(ctx)
		s.metrics.ObserveFetch("stats", time.Since(start), statsErr)
	}()
	go func() {
		defer wg.Done()
		start := time.Now()
		resp, err := s.source.RecentLogs(ctx, s.logLimit)
		s.metrics.ObserveFetch("logs", time.Since(start), err)
		if err != nil {
			logsErr = err
			return
		}
		if resp == nil {
			logsErr = errors.New("log source returned no logs")
			return
		}
		logs, total = resp.Logs, resp.Total
	}()
	wg.Wait()

	if statsErr == nil && snapshot == nil {
		statsErr = errors.New("log source returned no stats")
	}

	cycleErr := s.apply(cycleID, snapshot, statsErr, logs, total, logsErr)
	if errors.Is(cycleErr, ErrClosed) {
		log.Info().Str("cycle_id", cycleID).Msg("Dashboard torn down during load cycle, results discarded")
		return cycleErr
	}

	outcome := metrics.OutcomeOK
	switch {
	case statsErr != nil && logsErr != nil:
		outcome = metrics.OutcomeFailed
	case statsErr != nil || logsErr != nil:
		outcome = metrics.OutcomePartial
	}
	s.metrics.CycleFinished(outcome)

	if statsErr != nil {
		log.Error().Err(statsErr).Str("cycle_id", cycleID).Msg("Failed to load stats")
	} else {
		s.metrics.SetTotalAPICalls(snapshot.TotalAPICalls)
		s.publish(ctx, cycleID, snapshot)
	}
	if logsErr != nil {
		log.Error().Err(logsErr).Str("cycle_id", cycleID).Msg("Failed to load recent logs")
	}

	log.Info().
		Str("cycle_id", cycleID).
		Str("outcome", outcome).
		Dur("duration", time.Since(startTime)).
		Msg("Finished dashboard load cycle")
	return cycleErr
}

func (s *dashboardService) beginCycle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.state.loading = true
	return true
}

// apply stores the cycle results and redraws the charts. It holds the state
// lock while rendering so teardown cannot interleave with chart creation.
func (s *dashboardService) apply(cycleID string, snapshot *model.StatsSnapshot, statsErr error, logs []model.LogRecord, total int64, logsErr error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	st := &s.state
	st.loading = false
	st.lastCycleID = cycleID
	st.lastCycleAt = s.now()
	st.statsErr = statsErr
	st.logsErr = logsErr
	st.err = nil

	if statsErr == nil {
		summary := aggregator.Summarize(snapshot)
		st.snapshot = snapshot
		st.summary = &summary
		s.renderer.Apply(snapshot)
	} else {
		st.snapshot = nil
		st.summary = nil
		s.renderer.Apply(nil)
	}

	if logsErr == nil {
		st.recent = logs
		st.totalLogs = total
	} else {
		st.recent = nil
		st.totalLogs = 0
	}

	if statsErr != nil && logsErr != nil {
		st.err = fmt.Errorf("%w: stats: %v; logs: %v", ErrGatewayUnavailable, statsErr, logsErr)
		return st.err
	}
	return nil
}

func (s *dashboardService) publish(ctx context.Context, cycleID string, snapshot *model.StatsSnapshot) {
	event := kafka.SnapshotEvent{
		CycleID:     cycleID,
		FetchedAt:   s.now(),
		Summary:     aggregator.Summarize(snapshot),
		StatusCodes: snapshot.StatusCodeStatistics,
		Services:    snapshot.ServiceStatistics,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("cycle_id", cycleID).Msg("Failed to publish snapshot event")
	}
}

func (s *dashboardService) SetAutoRefresh(interval time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	generation := s.generation.Add(1)
	if interval <= 0 {
		s.scheduler.Cancel()
		s.state.autoRefresh = 0
		log.Info().Msg("Auto-refresh disabled")
		return nil
	}

	if err := s.scheduler.Schedule(interval, func() { s.tick(generation) }); err != nil {
		s.state.autoRefresh = 0
		return fmt.Errorf("failed to schedule auto-refresh: %w", err)
	}
	s.state.autoRefresh = interval
	return nil
}

func (s *dashboardService) tick(generation uint64) {
	if s.generation.Load() != generation {
		return
	}
	ctx, cancel := context.WithTimeout(s.baseCtx, scheduledCycleTimeout)
	defer cancel()

	err := s.runCycle(ctx, generation)
	switch {
	case err == nil, errors.Is(err, errStaleTick), errors.Is(err, ErrCycleInFlight), errors.Is(err, ErrClosed):
	default:
		log.Error().Err(err).Msg("Error during scheduled dashboard refresh")
	}
}

func (s *dashboardService) Teardown(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.generation.Add(1)
	s.renderer.DestroyAll()
	s.state = displayState{}
	s.mu.Unlock()

	s.cancel()
	log.Info().Msg("Dashboard torn down")
	return s.scheduler.Stop(ctx)
}

func (s *dashboardService) State() DashboardState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.state
	out := DashboardState{
		Loading:     st.loading,
		Err:         st.err,
		StatsErr:    st.statsErr,
		LogsErr:     st.logsErr,
		Snapshot:    st.snapshot,
		TotalLogs:   st.totalLogs,
		Charts:      s.renderer.Views(),
		AutoRefresh: st.autoRefresh,
		LastCycleID: st.lastCycleID,
		LastCycleAt: st.lastCycleAt,
	}
	if st.summary != nil {
		summary := *st.summary
		out.Summary = &summary
	}
	if st.recent != nil {
		out.RecentLogs = make([]model.LogRecord, len(st.recent))
		copy(out.RecentLogs, st.recent)
	}
	return out
}
