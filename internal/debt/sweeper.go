package debt

import (
	"context"
	"log/slog"
	"time"
)

type overdueMarker interface {
	MarkOverdue(ctx context.Context) (int64, error)
}

// Sweeper persists the overdue status on a fixed interval.
type Sweeper struct {
	marker   overdueMarker
	interval time.Duration
}

func NewSweeper(marker overdueMarker, interval time.Duration) *Sweeper {
	return &Sweeper{marker: marker, interval: interval}
}

// Run sweeps once immediately and then on every tick until ctx is cancelled.
// A non-positive interval disables the periodic sweep.
func (s *Sweeper) Run(ctx context.Context) {
	s.sweep(ctx)

	if s.interval <= 0 {
		slog.Warn("periodic overdue sweep disabled", "interval", s.interval)
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	n, err := s.marker.MarkOverdue(ctx)
	if err != nil {
		if ctx.Err() == nil {
			slog.Error("failed to mark overdue debts", "error", err)
		}

		return
	}

	if n > 0 {
		slog.Info("marked debts overdue", "count", n)
	}
}
