package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hostdesk/hosting-service/internal/repository"
	"github.com/hostdesk/hosting-service/internal/service"
)

// Scheduler periodically runs the hosting maintenance cycle: expiry sweep,
// automated backups and backup retention cleanup. In-flight panel calls run
// to completion; cancellation is honored between items and between cycles.
type Scheduler struct {
	hosting  *service.HostingService
	settings repository.SettingsRepository
	logger   *zap.Logger
	interval time.Duration
}

// NewScheduler constructs the scheduler.
func NewScheduler(hosting *service.HostingService, settings repository.SettingsRepository, logger *zap.Logger, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Scheduler{hosting: hosting, settings: settings, logger: logger, interval: interval}
}

// Run blocks until ctx is cancelled, executing one maintenance cycle per
// interval. The first cycle runs immediately.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

func (s *Scheduler) runCycle(ctx context.Context) {
	start := time.Now()

	report, err := s.hosting.SweepExpiredAccounts(ctx)
	if err != nil {
		s.logger.Error("expiry sweep failed", zap.Error(err))
	} else if report.Checked > 0 {
		s.logger.Info("expiry sweep finished",
			zap.Int("checked", report.Checked),
			zap.Int("suspended", report.Suspended),
			zap.Int("failed", report.Failed))
	}
	if ctx.Err() != nil {
		return
	}

	backedUp, err := s.hosting.RunScheduledBackups(ctx)
	if err != nil {
		s.logger.Error("scheduled backups failed", zap.Error(err))
	} else if backedUp > 0 {
		s.logger.Info("scheduled backups finished", zap.Int("completed", backedUp))
	}
	if ctx.Err() != nil {
		return
	}

	retentionDays := 0
	if settings, err := s.settings.Get(ctx); err != nil {
		s.logger.Error("could not load settings for retention cleanup", zap.Error(err))
	} else {
		retentionDays = settings.RetentionDays()
	}
	if retentionDays > 0 {
		if _, err := s.hosting.CleanupOldBackups(ctx, retentionDays); err != nil {
			s.logger.Error("backup retention cleanup failed", zap.Error(err))
		}
	}

	s.logger.Debug("maintenance cycle complete", zap.Duration("duration", time.Since(start)))
}
