package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/hibiken/asynq"

	"github.com/bugtrackpro/backend/internal/config"
	"github.com/bugtrackpro/backend/pkg/logger"
)

const (
	TaskTypeReconcile = "invite:reconcile"
)

// ReconcileTask asks the worker to auto-accept pending invitations for a
// freshly registered user.
type ReconcileTask struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
}

// TaskQueue decouples registration from invitation reconciliation.
type TaskQueue interface {
	// Enqueue schedules a reconciliation task
	Enqueue(task *ReconcileTask) error
	// IsAsync returns true if the queue hands tasks to a separate worker
	IsAsync() bool
	// Close gracefully shuts down the queue
	Close() error
}

var (
	globalTaskQueue TaskQueue
	taskQueueOnce   sync.Once
)

// InitTaskQueue initializes the global task queue based on config. With
// Redis disabled or unreachable the queue degrades to in-process handling.
func InitTaskQueue(cfg *config.Config) TaskQueue {
	taskQueueOnce.Do(func() {
		if cfg.Redis.Enabled {
			queue, err := NewAsyncQueue(&cfg.Redis)
			if err != nil {
				logger.Warn().Err(err).Msg("redis unavailable, reconciliation falls back to sync mode")
				globalTaskQueue = NewSyncQueue()
			} else {
				logger.Info().Str("addr", cfg.Redis.Addr).Msg("async reconciliation queue initialized")
				globalTaskQueue = queue
			}
		} else {
			logger.Info().Msg("sync reconciliation queue initialized (redis disabled)")
			globalTaskQueue = NewSyncQueue()
		}
	})
	return globalTaskQueue
}

// GetTaskQueue returns the global task queue instance
func GetTaskQueue() TaskQueue {
	return globalTaskQueue
}

// AsyncQueue implements TaskQueue using asynq (Redis-based)
type AsyncQueue struct {
	client *asynq.Client
}

// NewAsyncQueue creates a new Redis-based async queue
func NewAsyncQueue(cfg *config.RedisConfig) (*AsyncQueue, error) {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	client := asynq.NewClient(redisOpt)

	// Verify the connection before accepting tasks
	inspector := asynq.NewInspector(redisOpt)
	defer inspector.Close()

	if _, err := inspector.Queues(); err != nil {
		client.Close()
		return nil, err
	}

	return &AsyncQueue{client: client}, nil
}

// Enqueue adds a reconciliation task to the async queue
func (q *AsyncQueue) Enqueue(task *ReconcileTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}

	t := asynq.NewTask(TaskTypeReconcile, payload)
	info, err := q.client.Enqueue(t,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
	)
	if err != nil {
		return err
	}

	logger.Info().Str("task_id", info.ID).Str("email", task.Email).Msg("reconciliation task enqueued")
	return nil
}

func (q *AsyncQueue) IsAsync() bool {
	return true
}

func (q *AsyncQueue) Close() error {
	return q.client.Close()
}

// SyncQueue implements TaskQueue with in-process handling (no Redis).
// Reconciliation is quick DB work, so it runs inline on the enqueueing
// request; the processor never surfaces per-invitation failures anyway.
type SyncQueue struct {
	processor func(context.Context, *ReconcileTask) error
}

// NewSyncQueue creates a new synchronous queue
func NewSyncQueue() *SyncQueue {
	return &SyncQueue{}
}

// SetProcessor sets the function that handles tasks inline
func (q *SyncQueue) SetProcessor(processor func(context.Context, *ReconcileTask) error) {
	q.processor = processor
}

// Enqueue handles the task immediately in the calling goroutine
func (q *SyncQueue) Enqueue(task *ReconcileTask) error {
	if q.processor == nil {
		logger.Warn().Str("email", task.Email).Msg("no reconciliation processor set, task dropped")
		return nil
	}

	if err := q.processor(context.Background(), task); err != nil {
		logger.Error().Err(err).Str("email", task.Email).Msg("reconciliation task failed")
	}
	return nil
}

func (q *SyncQueue) IsAsync() bool {
	return false
}

func (q *SyncQueue) Close() error {
	return nil
}
