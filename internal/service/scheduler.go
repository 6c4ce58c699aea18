package service

import (
	"context"
	"errors"
	"time"

	"umkm-terminal/internal/core/domain"
	"umkm-terminal/internal/core/ports"
	"umkm-terminal/pkg/apperror"

	"github.com/rs/zerolog"
)

// GlobalSweepLock is the lock name shared by every global sweep trigger.
const GlobalSweepLock = "sweep:global"

// SweepScheduler runs the global recovery under a cross-process lock, either
// on demand or on a fixed interval.
type SweepScheduler struct {
	recovery ports.RecoveryService
	lock     ports.SweepLock
	lockTTL  time.Duration
	interval time.Duration
	log      zerolog.Logger
}

// NewSweepScheduler creates a scheduler. lock may be nil, in which case runs
// are not serialised. interval <= 0 disables the periodic loop.
func NewSweepScheduler(recovery ports.RecoveryService, lock ports.SweepLock, lockTTL, interval time.Duration, log zerolog.Logger) *SweepScheduler {
	return &SweepScheduler{
		recovery: recovery,
		lock:     lock,
		lockTTL:  lockTTL,
		interval: interval,
		log:      log,
	}
}

// RunOnce performs one global sweep. It returns a SWEEP_004 error if another
// sweep holds the lock. A lock backend failure is logged and the sweep runs
// unlocked; overlapping sweeps are safe, only wasteful. The lock is refreshed
// while the batch runs, so lockTTL bounds a stalled process, not a long batch.
func (s *SweepScheduler) RunOnce(ctx context.Context) (*domain.RecoverySummary, error) {
	if s.lock != nil {
		token, ok, err := s.lock.Acquire(ctx, GlobalSweepLock, s.lockTTL)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Msg("sweep lock unavailable, running unlocked")
		case !ok:
			return nil, apperror.ErrSweepRunning()
		default:
			stop := s.keepLock(ctx, token)
			defer func() {
				stop()
				if err := s.lock.Release(context.WithoutCancel(ctx), GlobalSweepLock, token); err != nil {
					s.log.Warn().Err(err).Msg("failed to release sweep lock")
				}
			}()
		}
	}

	return s.recovery.RecoverAll(ctx)
}

// keepLock refreshes the held lock every third of its TTL until stop is
// called. In-flight sweeps finish after ctx is cancelled, so the refresher
// only follows stop. Once the lock is lost it is not refreshed again.
func (s *SweepScheduler) keepLock(ctx context.Context, token string) (stop func()) {
	every := s.lockTTL / 3
	if every <= 0 {
		return func() {}
	}

	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				held, err := s.lock.Refresh(ctx, GlobalSweepLock, token, s.lockTTL)
				switch {
				case err != nil:
					if ctx.Err() != nil {
						return
					}
					s.log.Warn().Err(err).Msg("failed to refresh sweep lock")
				case !held:
					s.log.Warn().Dur("lock_ttl", s.lockTTL).Msg("sweep lock lost, another sweep may start")
					return
				}
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

// Run ticks every interval until ctx is cancelled.
func (s *SweepScheduler) Run(ctx context.Context) {
	if s.interval <= 0 {
		return
	}

	s.log.Info().Dur("interval", s.interval).Msg("sweep scheduler started")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("sweep scheduler stopped")
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				if apperror.HasCode(err, apperror.CodeSweepRunning) || errors.Is(err, context.Canceled) {
					s.log.Debug().Err(err).Msg("scheduled sweep skipped")
					continue
				}
				s.log.Error().Err(err).Msg("scheduled sweep failed")
			}
		}
	}
}
