package scheduler

import (
	"context"
	"time"

	"leadwatch_backend/platform/logger"
)

const defaultResolveInterval = time.Minute

// Resolver settles every pending assignment whose timer has expired.
type Resolver interface {
	ResolveExpired(ctx context.Context) error
}

// ResolveSweeper is the backstop behind the delayed resolution tasks: it
// periodically sweeps for expired rows whose queued task was lost, for
// example when the queue was flushed or the worker was down at fire time.
type ResolveSweeper struct {
	resolver Resolver
	interval time.Duration
	log      *logger.Logger
}

func NewResolveSweeper(resolver Resolver, interval time.Duration, log *logger.Logger) *ResolveSweeper {
	if interval <= 0 {
		interval = defaultResolveInterval
	}

	return &ResolveSweeper{
		resolver: resolver,
		interval: interval,
		log:      log.WithJob("resolve"),
	}
}

func (s *ResolveSweeper) Run(ctx context.Context) {
	if s == nil || s.resolver == nil {
		return
	}

	s.sweep(ctx)

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

func (s *ResolveSweeper) sweep(ctx context.Context) {
	if err := s.resolver.ResolveExpired(ctx); err != nil {
		s.log.Warn("resolution sweep failed", "error", err)
	}
}
