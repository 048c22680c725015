package adapters_test

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-command"
	job "github.com/goliatone/go-job"
	"github.com/goliatone/go-job/queue"
	"github.com/goliatone/go-lifegateway/adapters/gocommand"
	"github.com/goliatone/go-lifegateway/adapters/gojob"
	"github.com/goliatone/go-lifegateway/adapters/gologger"
	gwcommand "github.com/goliatone/go-lifegateway/command"
	"github.com/goliatone/go-lifegateway/core"
	"github.com/goliatone/go-lifegateway/executor"
	"github.com/goliatone/go-lifegateway/gateway"
	gwquery "github.com/goliatone/go-lifegateway/query"
	glog "github.com/goliatone/go-logger/glog"
)

func TestRuntimeCompatibility_GatewayOverCommandBus(t *testing.T) {
	ctx := context.Background()

	_, _, jobProvider, jobLogger := gologger.ResolveForJob("outbound", &compatProvider{}, nil)
	if jobProvider == nil || jobLogger == nil {
		t.Fatalf("expected go-job logger bridges")
	}

	cfg := core.DefaultConfig()
	cfg.AppID = "2014072300007148"
	cfg.AppPublicKey = "APP_PUBLIC_KEY"
	cfg.SignResponse = false
	client := &compatClient{}
	submitter := &compatSubmitter{}
	gw, err := gateway.New(cfg,
		gateway.WithVerifier(allowAll{}),
		gateway.WithRemoteClient(client),
		gateway.WithTaskSubmitter(submitter),
		gateway.WithLoggerProvider(&compatProvider{}),
	)
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}

	adapter := gocommand.NewRegistryAdapter(command.NewRegistry())
	bindings, err := gocommand.Bind(adapter, gw)
	if err != nil {
		t.Fatalf("bind gateway: %v", err)
	}
	defer bindings.Unsubscribe()
	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize command registry: %v", err)
	}

	out, err := gocommand.Query[gwquery.HandleCallbackMessage, string](ctx, gwquery.HandleCallbackMessage{
		Params: map[string]string{"service": executor.ServiceCheck},
	})
	if err != nil {
		t.Fatalf("query callback: %v", err)
	}
	if !strings.HasSuffix(out, executor.BuildVerifyResponse("APP_PUBLIC_KEY")) {
		t.Fatalf("unexpected callback envelope %q", out)
	}

	if err := gocommand.Dispatch(ctx, gwcommand.SendTextMessage{ToUserID: "u1", Content: "hello"}); err != nil {
		t.Fatalf("dispatch send text: %v", err)
	}
	if len(submitter.tasks) != 1 {
		t.Fatalf("expected send text to reach the gateway submitter")
	}
	if err := submitter.tasks[0].Run(ctx); err != nil {
		t.Fatalf("run send task: %v", err)
	}
	if len(client.requests) != 1 {
		t.Fatalf("expected one remote call")
	}

	enqueuer := &compatEnqueuer{}
	if _, err := gojob.NewEnqueuer(enqueuer).EnqueueCustomSend(ctx, "replay", client.requests[0].BizContent, "idem-1"); err != nil {
		t.Fatalf("enqueue via gojob adapter: %v", err)
	}
	task, err := gojob.TaskFromMessage(gw.RemoteClient(), enqueuer.last)
	if err != nil {
		t.Fatalf("task from message: %v", err)
	}
	if err := task.Run(ctx); err != nil {
		t.Fatalf("run replayed task: %v", err)
	}
	if len(client.requests) != 2 || client.requests[1].BizContent != client.requests[0].BizContent {
		t.Fatalf("expected replayed custom send to match the original")
	}
}

type allowAll struct{}

func (allowAll) Verify(context.Context, core.InboundRequest) error { return nil }

type compatClient struct {
	requests []core.RemoteRequest
}

func (c *compatClient) Execute(_ context.Context, req core.RemoteRequest) (core.RemoteResponse, error) {
	c.requests = append(c.requests, req)
	return core.RemoteResponse{Code: core.RemoteCodeSuccess}, nil
}

func (c *compatClient) ExecuteAuthenticated(ctx context.Context, req core.RemoteRequest, _ string) (core.RemoteResponse, error) {
	return c.Execute(ctx, req)
}

type compatSubmitter struct {
	tasks []core.AsyncTask
}

func (s *compatSubmitter) Submit(task core.AsyncTask) error {
	s.tasks = append(s.tasks, task)
	return nil
}

type compatEnqueuer struct {
	last *job.ExecutionMessage
}

func (e *compatEnqueuer) Enqueue(_ context.Context, msg *job.ExecutionMessage) (queue.EnqueueReceipt, error) {
	e.last = msg
	return queue.EnqueueReceipt{DispatchID: "dispatch-1"}, nil
}

type compatProvider struct{}

func (compatProvider) GetLogger(string) glog.Logger { return compatLogger{} }

type compatLogger struct{}

func (compatLogger) Trace(string, ...any)                    {}
func (compatLogger) Debug(string, ...any)                    {}
func (compatLogger) Info(string, ...any)                     {}
func (compatLogger) Warn(string, ...any)                     {}
func (compatLogger) Error(string, ...any)                    {}
func (compatLogger) Fatal(string, ...any)                    {}
func (compatLogger) WithContext(context.Context) glog.Logger { return compatLogger{} }
