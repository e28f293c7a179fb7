package backup

import (
	"context"
	"log/slog"
	"time"
)

// Scheduler triggers backup runs on a fixed interval until its context is
// cancelled.
type Scheduler struct {
	service  *Service
	interval time.Duration
	logger   *slog.Logger
}

func NewScheduler(service *Service, interval time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		service:  service,
		interval: interval,
		logger:   logger,
	}
}

// Start blocks until ctx is cancelled; callers run it on its own goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("backup scheduler started", "interval", s.interval)

	for {
		select {
		case <-ticker.C:
			if _, err := s.service.Run(ctx); err != nil {
				s.logger.Error("scheduled backup failed", "error", err)
			}
		case <-ctx.Done():
			s.logger.Info("backup scheduler stopped")
			return
		}
	}
}
