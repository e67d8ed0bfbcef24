package cache_warmer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/basket-service/basket_service/internal/domain/entities"
	"github.com/basket-service/basket_service/pkg/metrics"
)

// Refresher re-fetches one basket's remote payload and overwrites its cache entry
type Refresher interface {
	Identity() string
	Refresh(ctx context.Context, horizon entities.Horizon) (*entities.RemoteBasketPayload, error)
}

// SessionSweeper drops sessions that have been idle too long
type SessionSweeper interface {
	Sweep(maxIdle time.Duration) int
}

// Config controls the warm and sweep jobs. Schedules use the six-field
// cron format with seconds.
type Config struct {
	WarmSchedule   string
	SweepSchedule  string
	SessionIdleTTL time.Duration
	RunTimeout     time.Duration
	MaxConcurrent  int
	WarmOnStart    bool
	Timezone       string
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		WarmSchedule:   "0 */10 * * * *",
		SweepSchedule:  "0 */5 * * * *",
		SessionIdleTTL: 30 * time.Minute,
		RunTimeout:     2 * time.Minute,
		MaxConcurrent:  4,
		WarmOnStart:    true,
		Timezone:       "UTC",
	}
}

// RunStatistics tracks warm runs
type RunStatistics struct {
	TotalRuns       int64         `json:"total_runs"`
	SuccessfulRuns  int64         `json:"successful_runs"`
	PartialRuns     int64         `json:"partial_runs"`
	EntriesWarmed   int64         `json:"entries_warmed"`
	SessionsSwept   int64         `json:"sessions_swept"`
	LastRunTime     time.Time     `json:"last_run_time"`
	LastRunDuration time.Duration `json:"last_run_duration"`
	LastErrors      []string      `json:"last_errors,omitempty"`
}

// SchedulerStatus represents the current status of the scheduler
type SchedulerStatus struct {
	Running    bool          `json:"running"`
	NextRun    time.Time     `json:"next_run"`
	Schedule   string        `json:"schedule"`
	Statistics RunStatistics `json:"statistics"`
}

// zapCronLogger wraps zap.Logger to implement cron's logger interface
type zapCronLogger struct {
	logger *zap.Logger
}

func (l *zapCronLogger) Printf(format string, args ...interface{}) {
	l.logger.Sugar().Debugf(format, args...)
}

// Scheduler keeps remote basket payloads warm in the cache and sweeps idle
// viewing sessions.
type Scheduler struct {
	cron       *cron.Cron
	refreshers []Refresher
	sessions   SessionSweeper
	config     *Config
	logger     *zap.Logger
	tracer     trace.Tracer

	mu      sync.RWMutex
	running bool
	stats   RunStatistics
}

// NewScheduler creates a cache warm scheduler. sessions may be nil.
func NewScheduler(refreshers []Refresher, sessions SessionSweeper, config *Config, logger *zap.Logger) (*Scheduler, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 1
	}
	if config.Timezone == "" {
		config.Timezone = "UTC"
	}
	if config.RunTimeout <= 0 {
		config.RunTimeout = DefaultConfig().RunTimeout
	}

	location, err := time.LoadLocation(config.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %s: %w", config.Timezone, err)
	}

	c := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(location),
		cron.WithLogger(cron.VerbosePrintfLogger(&zapCronLogger{logger: logger})),
	)

	logger.Info("Cache warm scheduler created",
		zap.String("warm_schedule", config.WarmSchedule),
		zap.String("sweep_schedule", config.SweepSchedule),
		zap.Int("baskets", len(refreshers)),
	)

	return &Scheduler{
		cron:       c,
		refreshers: refreshers,
		sessions:   sessions,
		config:     config,
		logger:     logger,
		tracer:     otel.Tracer("cache-warmer"),
	}, nil
}

// Start registers the jobs and starts the cron loop
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	if _, err := s.cron.AddFunc(s.config.WarmSchedule, func() { s.WarmAll(context.Background()) }); err != nil {
		return fmt.Errorf("failed to add warm job: %w", err)
	}
	if s.sessions != nil && s.config.SweepSchedule != "" {
		if _, err := s.cron.AddFunc(s.config.SweepSchedule, s.sweepSessions); err != nil {
			return fmt.Errorf("failed to add sweep job: %w", err)
		}
	}

	s.cron.Start()
	s.running = true

	if s.config.WarmOnStart {
		go s.WarmAll(context.Background())
	}

	s.logger.Info("Cache warm scheduler started", zap.Time("next_run", s.nextRunLocked()))
	return nil
}

// Stop halts the cron loop and waits for a running job
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return fmt.Errorf("scheduler is not running")
	}

	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
		s.logger.Info("Cache warm scheduler stopped gracefully")
	case <-time.After(30 * time.Second):
		s.logger.Warn("Cache warm scheduler stop timed out")
	}

	s.running = false
	return nil
}

// WarmAll refreshes every basket at every supported horizon. A failed entry
// does not stop the others; it returns the number of entries refreshed.
func (s *Scheduler) WarmAll(ctx context.Context) int {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	defer cancel()

	ctx, span := s.tracer.Start(ctx, "cache_warmer.warm_all", trace.WithAttributes(
		attribute.Int("baskets", len(s.refreshers)),
	))
	defer span.End()

	var (
		mu     sync.Mutex
		warmed int
		errs   []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.MaxConcurrent)
	for _, r := range s.refreshers {
		for _, h := range entities.SupportedHorizons {
			r, h := r, h
			g.Go(func() error {
				_, err := r.Refresh(gctx, h)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					errs = append(errs, fmt.Sprintf("%s/%s: %v", r.Identity(), h, err))
					return nil
				}
				warmed++
				return nil
			})
		}
	}
	_ = g.Wait()

	status := "success"
	if len(errs) > 0 {
		status = "partial"
		span.SetStatus(codes.Error, fmt.Sprintf("%d entries failed", len(errs)))
		s.logger.Warn("Cache warm run finished with failures",
			zap.Int("warmed", warmed),
			zap.Strings("errors", errs))
	} else {
		s.logger.Info("Cache warm run completed",
			zap.Int("warmed", warmed),
			zap.Duration("duration", time.Since(start)))
	}
	metrics.RecordCacheWarmRun(status)

	s.mu.Lock()
	s.stats.TotalRuns++
	if len(errs) == 0 {
		s.stats.SuccessfulRuns++
	} else {
		s.stats.PartialRuns++
	}
	s.stats.EntriesWarmed += int64(warmed)
	s.stats.LastRunTime = start
	s.stats.LastRunDuration = time.Since(start)
	s.stats.LastErrors = errs
	s.mu.Unlock()

	return warmed
}

func (s *Scheduler) sweepSessions() {
	removed := s.sessions.Sweep(s.config.SessionIdleTTL)
	if removed > 0 {
		s.logger.Info("Swept idle sessions", zap.Int("removed", removed))
	}

	s.mu.Lock()
	s.stats.SessionsSwept += int64(removed)
	s.mu.Unlock()
}

// GetStatus returns the current status of the scheduler
func (s *Scheduler) GetStatus() *SchedulerStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := s.stats
	stats.LastErrors = append([]string(nil), s.stats.LastErrors...)
	return &SchedulerStatus{
		Running:    s.running,
		NextRun:    s.nextRunLocked(),
		Schedule:   s.config.WarmSchedule,
		Statistics: stats,
	}
}

func (s *Scheduler) nextRunLocked() time.Time {
	var next time.Time
	for _, e := range s.cron.Entries() {
		if next.IsZero() || e.Next.Before(next) {
			next = e.Next
		}
	}
	return next
}
