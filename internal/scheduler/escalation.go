package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"complaint-service/internal/service"
)

// EscalationScheduler periodically forces overdue complaints into the
// escalated state. It never writes status itself: each candidate goes through
// the engine's compare-and-swap, so a record that progressed (or already
// escalated) between scan and swap is skipped, not clobbered.
type EscalationScheduler struct {
	engine        *service.ComplaintService
	interval      time.Duration
	validationSLA time.Duration
	log           zerolog.Logger
}

func New(engine *service.ComplaintService, interval, validationSLA time.Duration, log zerolog.Logger) *EscalationScheduler {
	return &EscalationScheduler{
		engine:        engine,
		interval:      interval,
		validationSLA: validationSLA,
		log:           log,
	}
}

// Run blocks until ctx is cancelled. A failed tick (store unreachable) is
// logged and retried on the next interval; it never takes the process down.
func (s *EscalationScheduler) Run(ctx context.Context) {
	s.log.Info().
		Dur("interval", s.interval).
		Dur("validation_sla", s.validationSLA).
		Msg("escalation scheduler started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("escalation scheduler stopped")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one scan. Exported so tests and operational tooling can trigger
// a pass without waiting for the interval.
func (s *EscalationScheduler) Tick(ctx context.Context) {
	tickCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	escalated, err := s.engine.EscalateOverdue(tickCtx, s.validationSLA)
	if err != nil {
		s.log.Error().Err(err).Msg("escalation scan failed, will retry next tick")
		return
	}
	if escalated > 0 {
		s.log.Info().Int("count", escalated).Msg("escalated overdue complaints")
	}
}
