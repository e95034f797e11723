package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// cleanupInterval is how often the recurring expiry sweep runs.
const cleanupInterval = 24 * time.Hour

// Cleanup deletes every session whose last-modified time is more than
// maxAgeDays in the past and returns the number removed.
func (s *Service) Cleanup(ctx context.Context, maxAgeDays int) (int, error) {
	cutoff := time.Now().Add(-time.Duration(maxAgeDays) * 24 * time.Hour).UnixMilli()

	n, err := s.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("expired sessions removed",
			zap.Int("deleted", n),
			zap.Int("max_age_days", maxAgeDays))
	}
	return n, nil
}

// RunCleanupLoop runs a sweep immediately and then every 24 hours
// until ctx is cancelled. Sweep failures are logged and the loop keeps
// going.
func (s *Service) RunCleanupLoop(ctx context.Context) {
	if _, err := s.Cleanup(ctx, s.config.MaxAgeDays); err != nil {
		s.logger.Error("session cleanup failed", zap.Error(err))
	}

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Cleanup(ctx, s.config.MaxAgeDays); err != nil {
				s.logger.Error("session cleanup failed", zap.Error(err))
			}
		}
	}
}
