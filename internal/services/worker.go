package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/hibiken/asynq"

	"github.com/bugtrackpro/backend/internal/config"
	"github.com/bugtrackpro/backend/pkg/logger"
)

// Worker consumes reconciliation tasks from the Redis-backed queue. It only
// runs when the async queue is in use; with the sync queue, tasks are handled
// inline and no worker is started.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	processor func(context.Context, *ReconcileTask) error
	running   bool
	mu        sync.Mutex
	wg        sync.WaitGroup
}

// NewWorker creates a worker bound to the given Redis instance
func NewWorker(cfg *config.RedisConfig) *Worker {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"default": 1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error().Err(err).Str("type", task.Type()).Msg("task processing failed")
		}),
	})

	w := &Worker{
		server: server,
		mux:    asynq.NewServeMux(),
	}
	w.mux.HandleFunc(TaskTypeReconcile, w.handleReconcileTask)

	return w
}

// SetProcessor sets the function that applies a reconciliation task
func (w *Worker) SetProcessor(processor func(context.Context, *ReconcileTask) error) {
	w.processor = processor
}

// Start runs the worker loop in the background
func (w *Worker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	w.running = true
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		logger.Info().Msg("reconciliation worker started")
		if err := w.server.Run(w.mux); err != nil {
			logger.Error().Err(err).Msg("reconciliation worker stopped unexpectedly")
		}
	}()

	return nil
}

// Stop gracefully shuts down the worker
func (w *Worker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	logger.Info().Msg("reconciliation worker shutting down")
	w.server.Shutdown()
	w.running = false
	w.wg.Wait()
	logger.Info().Msg("reconciliation worker shutdown complete")
}

func (w *Worker) handleReconcileTask(ctx context.Context, t *asynq.Task) error {
	var task ReconcileTask
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		logger.Error().Err(err).Msg("failed to unmarshal reconciliation task")
		return err
	}

	logger.Info().Uint("user_id", task.UserID).Str("email", task.Email).
		Msg("processing reconciliation task")

	if w.processor == nil {
		logger.Warn().Msg("no reconciliation processor set")
		return nil
	}

	return w.processor(ctx, &task)
}

var (
	globalWorker *Worker
	workerOnce   sync.Once
)

// InitWorker initializes the global worker
func InitWorker(cfg *config.RedisConfig) *Worker {
	workerOnce.Do(func() {
		globalWorker = NewWorker(cfg)
	})
	return globalWorker
}

// GetWorker returns the global worker instance
func GetWorker() *Worker {
	return globalWorker
}
