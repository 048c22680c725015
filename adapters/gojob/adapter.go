package gojob

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	job "github.com/goliatone/go-job"
	"github.com/goliatone/go-job/queue"
	"github.com/goliatone/go-job/queue/worker"
	"github.com/goliatone/go-lifegateway/core"
	"github.com/goliatone/go-lifegateway/outbound"
)

const (
	JobIDCustomSend = "lifegateway.outbound.custom_send"

	ParamBizContent = "biz_content"
	ParamTaskName   = "task_name"
)

// RetryPolicy bounds redelivery of failed outbound jobs.
type RetryPolicy struct {
	MaxAttempts     int
	BaseDelay       time.Duration
	MaxDelay        time.Duration
	DeadLetterOnMax bool
}

// NackFor returns the nack options for a delivery that failed on attempt.
// The delay doubles per attempt up to MaxDelay. Once MaxAttempts is reached
// the delivery is dead-lettered or failed, never retried.
func (p RetryPolicy) NackFor(attempt int, reason string) queue.NackOptions {
	out := queue.NackOptions{Disposition: queue.NackDispositionRetry, Reason: strings.TrimSpace(reason)}
	if p.BaseDelay > 0 {
		delay := p.BaseDelay
		for step := 1; step < attempt && (p.MaxDelay <= 0 || delay < p.MaxDelay); step++ {
			delay *= 2
		}
		out.Delay = delay
	}
	if p.MaxDelay > 0 && out.Delay > p.MaxDelay {
		out.Delay = p.MaxDelay
	}
	if p.MaxAttempts > 0 && attempt >= p.MaxAttempts {
		out.Delay = 0
		out.Disposition = queue.NackDispositionFailed
		if p.DeadLetterOnMax {
			out.Disposition = queue.NackDispositionDeadLetter
		}
	}
	return out
}

// CustomSendMessage describes a custom-send call as a go-job execution
// message. idempotencyKey may be empty.
func CustomSendMessage(taskName string, bizContent string, idempotencyKey string) *job.ExecutionMessage {
	return &job.ExecutionMessage{
		JobID:      JobIDCustomSend,
		ScriptPath: outbound.MethodCustomSend,
		Parameters: map[string]any{
			ParamTaskName:   strings.TrimSpace(taskName),
			ParamBizContent: bizContent,
		},
		IdempotencyKey: strings.TrimSpace(idempotencyKey),
	}
}

// TaskFromMessage rebuilds the outbound send task carried by msg.
func TaskFromMessage(client core.RemoteClient, msg *job.ExecutionMessage) (outbound.Task, error) {
	if msg == nil {
		return outbound.Task{}, core.NewBadInputError("gojob: execution message is required", nil)
	}
	if strings.TrimSpace(msg.JobID) != JobIDCustomSend {
		return outbound.Task{}, core.NewBadInputError("gojob: unsupported job", map[string]any{"job_id": msg.JobID})
	}
	bizContent, _ := msg.Parameters[ParamBizContent].(string)
	if strings.TrimSpace(bizContent) == "" {
		return outbound.Task{}, core.NewBadInputError("gojob: biz_content parameter is required", map[string]any{"job_id": msg.JobID})
	}
	name, _ := msg.Parameters[ParamTaskName].(string)
	return outbound.SendMessageTask(name, client, outbound.CustomSendRequest(bizContent)), nil
}

// Enqueuer publishes custom-send calls to a go-job queue.
type Enqueuer struct {
	enqueuer queue.Enqueuer
}

func NewEnqueuer(enqueuer queue.Enqueuer) *Enqueuer {
	return &Enqueuer{enqueuer: enqueuer}
}

// EnqueueCustomSend returns the queue's dispatch id for the accepted job.
func (e *Enqueuer) EnqueueCustomSend(ctx context.Context, taskName string, bizContent string, idempotencyKey string) (string, error) {
	if e == nil || e.enqueuer == nil {
		return "", fmt.Errorf("gojob: enqueuer is not configured")
	}
	if strings.TrimSpace(bizContent) == "" {
		return "", core.NewBadInputError("gojob: biz_content is required", nil)
	}
	receipt, err := e.enqueuer.Enqueue(ctx, CustomSendMessage(taskName, bizContent, idempotencyKey))
	if err != nil {
		return "", err
	}
	return receipt.DispatchID, nil
}

// Drainer pulls custom-send jobs and performs them against the open API.
// Successful deliveries are acked; failures are nacked through the policy.
type Drainer struct {
	dequeuer queue.Dequeuer
	client   core.RemoteClient
	policy   RetryPolicy
	observer core.Observer

	mu       sync.Mutex
	attempts map[string]int
}

func NewDrainer(dequeuer queue.Dequeuer, client core.RemoteClient, policy RetryPolicy, observer core.Observer) *Drainer {
	return &Drainer{
		dequeuer: dequeuer,
		client:   client,
		policy:   policy,
		observer: observer,
		attempts: map[string]int{},
	}
}

// DrainOnce processes a single delivery. The returned error is the dequeue or
// ack/nack failure; task failures are reported through the nack.
func (d *Drainer) DrainOnce(ctx context.Context) error {
	if d == nil || d.dequeuer == nil {
		return fmt.Errorf("gojob: dequeuer is not configured")
	}
	delivery, err := d.dequeuer.Dequeue(ctx)
	if err != nil {
		return err
	}
	return d.process(ctx, delivery)
}

func (d *Drainer) process(ctx context.Context, delivery queue.Delivery) error {
	startedAt := time.Now()
	msg := delivery.Message()
	key := attemptKey(msg)
	attempt := d.nextAttempt(key)
	fields := map[string]any{"attempt": attempt}
	if msg != nil {
		fields["job_id"] = msg.JobID
	}

	task, err := TaskFromMessage(d.client, msg)
	if err == nil {
		err = task.Run(ctx)
	}
	if err == nil {
		d.forget(key)
		d.observer.ObserveOperation(ctx, startedAt, "deliver", "acked", nil, fields, "job_id")
		return delivery.Ack(ctx)
	}

	opts := d.policy.NackFor(attempt, err.Error())
	if core.HasTextCode(err, core.GatewayErrorBadInput) {
		opts = queue.NackOptions{Disposition: queue.NackDispositionDeadLetter, Reason: err.Error()}
	}
	outcome := string(opts.Disposition)
	if opts.Disposition != queue.NackDispositionRetry {
		d.forget(key)
	}
	d.observer.ObserveOperation(ctx, startedAt, "deliver", outcome, err, fields, "job_id")
	return delivery.Nack(ctx, opts)
}

func (d *Drainer) nextAttempt(key string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.attempts[key]++
	return d.attempts[key]
}

func (d *Drainer) forget(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.attempts, key)
}

func attemptKey(msg *job.ExecutionMessage) string {
	if msg == nil {
		return ""
	}
	if key := strings.TrimSpace(msg.IdempotencyKey); key != "" {
		return key
	}
	bizContent, _ := msg.Parameters[ParamBizContent].(string)
	return msg.JobID + "|" + bizContent
}

// WorkerHook reports go-job worker lifecycle events as gateway metrics.
type WorkerHook struct {
	observer core.Observer
}

func NewWorkerHook(observer core.Observer) *WorkerHook {
	return &WorkerHook{observer: observer}
}

func (h *WorkerHook) OnStart(ctx context.Context, event worker.Event) {
	h.record(ctx, "start", event)
}

func (h *WorkerHook) OnSuccess(ctx context.Context, event worker.Event) {
	h.record(ctx, "success", event)
}

func (h *WorkerHook) OnFailure(ctx context.Context, event worker.Event) {
	h.record(ctx, "failure", event)
	h.observer.LogWarn(ctx, "outbound job failed", eventFields(event))
}

func (h *WorkerHook) OnRetry(ctx context.Context, event worker.Event) {
	h.record(ctx, "retry", event)
}

func (h *WorkerHook) record(ctx context.Context, phase string, event worker.Event) {
	if h == nil {
		return
	}
	tags := map[string]string{"phase": phase}
	if message := eventMessage(event); message != nil {
		tags["job_id"] = message.JobID
	}
	h.observer.RecordCounter(ctx, "job.total", 1, tags)
	if event.Duration > 0 {
		h.observer.RecordHistogram(ctx, "job.duration_ms", float64(event.Duration.Milliseconds()), tags)
	}
}

func eventMessage(event worker.Event) *job.ExecutionMessage {
	if event.Message == nil && event.Delivery != nil {
		return event.Delivery.Message()
	}
	return event.Message
}

func eventFields(event worker.Event) map[string]any {
	message := eventMessage(event)
	fields := map[string]any{"attempt": event.Attempt}
	if message != nil {
		fields["job_id"] = message.JobID
	}
	if event.Delay > 0 {
		fields["delay_ms"] = event.Delay.Milliseconds()
	}
	if event.Err != nil {
		fields["error"] = event.Err.Error()
	}
	return fields
}

var _ worker.Hook = (*WorkerHook)(nil)
