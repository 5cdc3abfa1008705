// Package scheduler runs the periodic background jobs: the daily rate refresh
// and the heartbeat check-in. Only processes configured as the scheduling
// leader run it; API-only replicas leave RUN_SCHEDULER off.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/exchangehouse/exchange_house_app/internal/core/domain"
	portssvc "github.com/exchangehouse/exchange_house_app/internal/core/ports/services"
	"github.com/exchangehouse/exchange_house_app/internal/platform/config"
)

// Scheduler fires the refresh job once per day at a configured wall-clock time
// and the heartbeat ping on a fixed interval.
type Scheduler struct {
	refresh     portssvc.RefreshSvc
	healthcheck portssvc.HealthcheckSvc
	cfg         *config.Config
	logger      *slog.Logger
	now         func() time.Time
}

// New creates a Scheduler.
func New(refresh portssvc.RefreshSvc, healthcheck portssvc.HealthcheckSvc, cfg *config.Config, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		refresh:     refresh,
		healthcheck: healthcheck,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

// Run blocks until ctx is cancelled. It returns nil on cancellation so an
// errgroup treats shutdown as clean.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.cfg.RunScheduler {
		s.logger.Info("Scheduler disabled on this instance")
		<-ctx.Done()
		return nil
	}

	s.logger.Info("Scheduler starting",
		slog.Int("refresh_hour", s.cfg.RefreshHour),
		slog.Int("refresh_minute", s.cfg.RefreshMinute),
		slog.Duration("heartbeat_interval", s.cfg.HeartbeatInterval),
	)

	heartbeat := time.NewTicker(s.cfg.HeartbeatInterval)
	defer heartbeat.Stop()

	refreshTimer := time.NewTimer(s.untilNextRefresh())
	defer refreshTimer.Stop()

	// One refresh on startup covers gaps accumulated while the process was down.
	s.runRefresh(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopping")
			return nil
		case <-heartbeat.C:
			s.runHeartbeat(ctx)
		case <-refreshTimer.C:
			s.runRefresh(ctx)
			refreshTimer.Reset(s.untilNextRefresh())
		}
	}
}

// untilNextRefresh computes the wait until the next configured hour:minute, UTC.
func (s *Scheduler) untilNextRefresh() time.Duration {
	now := s.now().UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), s.cfg.RefreshHour, s.cfg.RefreshMinute, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}

func (s *Scheduler) runRefresh(ctx context.Context) {
	window := domain.DefaultRefreshWindow(s.now(), s.cfg.RefreshWindowDays)
	result := s.refresh.Refresh(ctx, window)

	attrs := []any{
		slog.String("status", string(result.Status)),
		slog.String("window_start", window.StartDate.Format("2006-01-02")),
		slog.String("window_end", window.EndDate.Format("2006-01-02")),
	}
	if result.Message != "" {
		attrs = append(attrs, slog.String("message", result.Message))
	}

	switch result.Status {
	case domain.TaskFailure:
		s.logger.Error("Refresh job finished", attrs...)
	case domain.TaskWarning:
		s.logger.Warn("Refresh job finished", attrs...)
	default:
		s.logger.Info("Refresh job finished", attrs...)
	}
}

func (s *Scheduler) runHeartbeat(ctx context.Context) {
	if err := s.healthcheck.Ping(ctx, portssvc.HealthcheckHeartbeat); err != nil {
		if errors.Is(err, portssvc.ErrNoURLConfigured) {
			s.logger.Warn("Heartbeat skipped, no URL configured")
			return
		}
		s.logger.Warn("Heartbeat ping failed", slog.String("error", err.Error()))
	}
}
