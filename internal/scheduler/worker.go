package scheduler

import (
	"context"
	"fmt"

	"leadwatch_backend/platform/config"
	"leadwatch_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// AssignmentResolver settles one assignment by id. Settled or missing rows
// are a no-op so redelivered tasks are harmless.
type AssignmentResolver interface {
	ResolveAssignment(ctx context.Context, assignmentID int64) error
}

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	resolver AssignmentResolver
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, resolver AssignmentResolver, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		resolver: resolver,
		log:      log,
	}

	mux.HandleFunc(TaskAssignmentResolve, w.handleAssignmentResolve)

	return w, nil
}

func (w *Worker) handleAssignmentResolve(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseAssignmentResolvePayload(task)
	if err != nil {
		return err
	}

	return w.resolver.ResolveAssignment(ctx, payload.AssignmentID)
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
