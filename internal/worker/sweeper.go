// Package worker runs background maintenance jobs alongside the API server.
package worker

import (
	"context"
	"time"

	"kiranakart/internal/config"

	"github.com/rs/zerolog"
)

// PaymentExpirer is the slice of the payment repository the sweeper needs.
type PaymentExpirer interface {
	ExpireStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sweeper periodically expires payment intents that were created but never
// verified. Hosted checkout gives no server-side signal when a customer closes
// the tab, so abandoned intents accumulate at created until swept.
type Sweeper struct {
	paymentRepo PaymentExpirer
	interval    time.Duration
	paymentTTL  time.Duration
	logger      zerolog.Logger
}

// NewSweeper creates a sweeper from its config section.
func NewSweeper(paymentRepo PaymentExpirer, cfg config.SweeperConfig, logger zerolog.Logger) *Sweeper {
	return &Sweeper{
		paymentRepo: paymentRepo,
		interval:    cfg.Interval,
		paymentTTL:  cfg.PaymentTTL,
		logger:      logger.With().Str("worker", "payment-sweeper").Logger(),
	}
}

// Run blocks until ctx is cancelled, sweeping once per interval. Errors are
// logged and retried on the next tick.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().
		Dur("interval", s.interval).
		Dur("payment_ttl", s.paymentTTL).
		Msg("payment sweeper started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("payment sweeper stopped")
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.logger.Error().Err(err).Msg("sweep failed")
			}
		}
	}
}

// Sweep marks stale created payments as failed. It is exported so an operator
// endpoint or test can trigger a pass without waiting for the ticker.
func (s *Sweeper) Sweep(ctx context.Context) error {
	cutoff := time.Now().Add(-s.paymentTTL)

	expired, err := s.paymentRepo.ExpireStale(ctx, cutoff)
	if err != nil {
		return err
	}

	if expired > 0 {
		s.logger.Info().Int64("expired", expired).Msg("expired stale payment intents")
	}
	return nil
}
