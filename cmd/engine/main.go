package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	assignrepo "leadwatch_backend/internal/assignments/repository"
	"leadwatch_backend/internal/crm"
	"leadwatch_backend/internal/email"
	"leadwatch_backend/internal/engine"
	"leadwatch_backend/platform/events"
	"leadwatch_backend/internal/notification"
	"leadwatch_backend/internal/scheduler"
	srcrepo "leadwatch_backend/internal/sources/repository"
	"leadwatch_backend/platform/config"
	"leadwatch_backend/platform/db"
	"leadwatch_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting engine", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	sender := email.NewSender(cfg, log)
	notificationModule := notification.New(sender, cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	directory := crm.New(cfg, log)
	eng := engine.New(assignrepo.New(pool), srcrepo.New(pool), directory, eventBus, cfg, log)

	if cfg.GetRedisURL() != "" {
		client, err := scheduler.NewClient(cfg)
		if err != nil {
			log.Error("failed to initialize scheduler client", "error", err)
			panic("failed to initialize scheduler client: " + err.Error())
		}
		defer func() { _ = client.Close() }()
		eng.SetResolutionScheduler(client)
	} else {
		log.Warn("REDIS_URL not configured; deadline tasks disabled, relying on periodic sweep")
	}

	poller := scheduler.NewDetectPoller(eng, cfg.GetDetectInterval(), log)
	sweeper := scheduler.NewResolveSweeper(eng, cfg.GetResolveInterval(), log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		poller.Run(gctx)
		return nil
	})
	g.Go(func() error {
		sweeper.Run(gctx)
		return nil
	})

	if cfg.GetRedisURL() != "" {
		worker, err := scheduler.NewWorker(cfg, eng, log)
		if err != nil {
			log.Error("failed to initialize scheduler worker", "error", err)
			panic("failed to initialize scheduler worker: " + err.Error())
		}
		g.Go(func() error {
			worker.Run(gctx)
			return nil
		})
	}

	_ = g.Wait()
	log.Info("engine stopped")
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
