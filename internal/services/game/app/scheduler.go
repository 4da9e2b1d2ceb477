package app

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/habagat/typhoon.garden/internal/platform/timeouts"
)

// Scheduler drives the fixed-interval tick pass. Its period is independent
// of any individual player's timers.
type Scheduler struct {
	svc      *Service
	interval time.Duration
	tracer   trace.Tracer
	clock    func() time.Time
}

// NewScheduler creates a scheduler for the service. A non-positive
// interval falls back to the default tick period.
func NewScheduler(svc *Service, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = timeouts.Tick
	}
	return &Scheduler{
		svc:      svc,
		interval: interval,
		tracer:   otel.Tracer("game/scheduler"),
		clock:    func() time.Time { return time.Now().UTC() },
	}
}

// Run ticks until the context is canceled. Cancellation is a normal
// shutdown, not an error.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			tickCtx, span := s.tracer.Start(ctx, "scheduler.tick")
			s.svc.Tick(tickCtx, s.clock())
			span.End()
		}
	}
}
