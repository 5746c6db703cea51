package services

import (
	"context"
	"time"
)

// RunExpirer calls ExpireOverdue every interval until ctx is done. It runs
// one sweep immediately so missions left over from downtime are failed at startup.
func (s *MissionService) RunExpirer(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.ExpireOverdue(ctx, s.clock.Now()); err != nil && ctx.Err() == nil {
			s.log.Error().Err(err).Msg("overdue sweep failed")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
