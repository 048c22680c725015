package outbound

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goliatone/go-lifegateway/core"
)

type Task = core.AsyncTask

type QueueOptions struct {
	Capacity    int
	TaskTimeout time.Duration
	Logger      core.Logger
	Metrics     core.MetricsRecorder
	// OnTaskDone observes every finished task; err is nil on success.
	OnTaskDone func(task Task, err error)
}

type queuedTask struct {
	seq  uint64
	task Task
}

// Queue executes submitted tasks one at a time in submission order. Failed
// tasks are logged and dropped.
type Queue struct {
	opts     QueueOptions
	observer core.Observer
	tasks    chan queuedTask
	done     chan struct{}
	seq      atomic.Uint64
	dropped  atomic.Int64

	mu      sync.RWMutex
	closed  bool
	started bool
}

func NewQueue(opts QueueOptions) *Queue {
	if opts.Capacity <= 0 {
		opts.Capacity = core.DefaultQueueCapacity
	}
	return &Queue{
		opts:     opts,
		observer: core.NewObserver("outbound", opts.Logger, opts.Metrics),
		tasks:    make(chan queuedTask, opts.Capacity),
		done:     make(chan struct{}),
	}
}

// Start launches the worker. Cancelling ctx stops the worker after the task in
// flight, closes the queue and drops whatever is still queued. Close is the
// graceful shutdown path.
func (q *Queue) Start(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.started = true
	go q.work(ctx)
}

// Submit enqueues task without blocking.
func (q *Queue) Submit(task Task) error {
	if task.Run == nil {
		return core.NewBadInputError("outbound: task run function is required", map[string]any{"task": task.Name})
	}
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return core.NewQueueClosedError()
	}
	item := queuedTask{seq: q.seq.Add(1), task: task}
	select {
	case q.tasks <- item:
		return nil
	default:
		q.observer.RecordCounter(context.Background(), "task.total", 1, map[string]string{
			"status": "rejected",
			"task":   task.Name,
		})
		return core.NewQueueFullError(cap(q.tasks))
	}
}

// Close stops accepting tasks and waits for queued tasks to finish or ctx to
// end. A queue that was never started is drained by Close.
func (q *Queue) Close(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.tasks)
	}
	if !q.started {
		q.started = true
		go q.work(context.WithoutCancel(ctx))
	}
	q.mu.Unlock()

	select {
	case <-q.done:
		if dropped := q.dropped.Load(); dropped > 0 {
			return core.NewInternalError(
				fmt.Sprintf("outbound: %d queued tasks dropped after the worker stopped", dropped),
				nil,
			)
		}
		return nil
	case <-ctx.Done():
		return core.NewInternalError(
			fmt.Sprintf("outbound: queue drain interrupted with %d tasks pending", len(q.tasks)),
			ctx.Err(),
		)
	}
}

func (q *Queue) Len() int {
	return len(q.tasks)
}

func (q *Queue) Capacity() int {
	return cap(q.tasks)
}

func (q *Queue) work(ctx context.Context) {
	defer close(q.done)
	for {
		if ctx.Err() != nil {
			q.abandon(ctx)
			return
		}
		select {
		case <-ctx.Done():
			q.abandon(ctx)
			return
		case item, ok := <-q.tasks:
			if !ok {
				return
			}
			q.run(ctx, item)
		}
	}
}

// abandon closes the queue to new work and drops what is still queued once
// the worker context ends.
func (q *Queue) abandon(ctx context.Context) {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.tasks)
	}
	q.mu.Unlock()

	for item := range q.tasks {
		q.dropped.Add(1)
		err := core.NewAsyncTaskError("outbound: task dropped, worker stopped", ctx.Err(), map[string]any{"task": item.task.Name})
		q.observer.LogError(ctx, "queued task dropped", map[string]any{
			"task":  item.task.Name,
			"seq":   item.seq,
			"error": err.Error(),
		})
		q.observer.RecordCounter(ctx, "task.total", 1, map[string]string{
			"status": "dropped",
			"task":   item.task.Name,
		})
		if q.opts.OnTaskDone != nil {
			q.opts.OnTaskDone(item.task, err)
		}
	}
}

func (q *Queue) run(ctx context.Context, item queuedTask) {
	startedAt := time.Now()
	taskCtx := ctx
	if q.opts.TaskTimeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(ctx, q.opts.TaskTimeout)
		defer cancel()
	}

	err := runRecovered(taskCtx, item.task)
	if err != nil && !core.IsAsyncTaskFailed(err) {
		err = core.NewAsyncTaskError("outbound: task failed", err, map[string]any{"task": item.task.Name})
	}
	q.observer.ObserveOperation(taskCtx, startedAt, "task", "", err, map[string]any{
		"task": item.task.Name,
		"seq":  item.seq,
	}, "task")
	if q.opts.OnTaskDone != nil {
		q.opts.OnTaskDone(item.task, err)
	}
}

func runRecovered(ctx context.Context, task Task) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = core.NewAsyncTaskError(
				fmt.Sprintf("outbound: task panicked: %v", recovered),
				nil,
				map[string]any{"task": task.Name},
			)
		}
	}()
	return task.Run(ctx)
}

var _ core.TaskSubmitter = (*Queue)(nil)
