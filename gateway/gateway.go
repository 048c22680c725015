package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-lifegateway/adapters/gologger"
	"github.com/goliatone/go-lifegateway/core"
	"github.com/goliatone/go-lifegateway/envelope"
	"github.com/goliatone/go-lifegateway/executor"
	"github.com/goliatone/go-lifegateway/inbound"
	"github.com/goliatone/go-lifegateway/openapi"
	"github.com/goliatone/go-lifegateway/outbound"
	"github.com/goliatone/go-lifegateway/security"
	"github.com/google/uuid"
)

const (
	OutcomeHandled          = "handled"
	OutcomeSignatureInvalid = "signature_invalid"
	OutcomeBadRequest       = "bad_request"
	OutcomeNoHandler        = "no_handler"
	OutcomeFactoryFailed    = "factory_failed"
	OutcomeExecutionFailed  = "execution_failed"
	OutcomeEnvelopeFailed   = "envelope_failed"
)

type Gateway struct {
	cfg            core.Config
	verifier       inbound.Verifier
	registry       *inbound.Registry
	client         core.RemoteClient
	submitter      core.TaskSubmitter
	queue          *outbound.Queue
	logger         core.Logger
	loggerProvider core.LoggerProvider
	metrics        core.MetricsRecorder
	observer       core.Observer
	now            func() time.Time
	requestID      func() string
}

// New builds a gateway from cfg. Collaborators not supplied through options
// are derived from cfg: a signature verifier over the platform key, the
// default routes, an open API client and an owned outbound queue.
func New(cfg core.Config, opts ...Option) (*Gateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, core.MapError(err)
	}
	g := &Gateway{
		cfg:       cfg,
		now:       time.Now,
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	g.loggerProvider, g.logger = resolveLogger("gateway", g.loggerProvider, g.logger)
	if g.metrics == nil {
		g.metrics = core.NopMetricsRecorder{}
	}
	g.observer = core.NewObserver("gateway", g.logger, g.metrics)

	if g.verifier == nil {
		if err := cfg.ValidateCredentials(); err != nil {
			return nil, err
		}
		g.verifier = security.NewSignatureVerifier(cfg.PlatformPublicKey, cfg.Charset, cfg.SignType)
	}
	if g.registry == nil {
		g.registry = inbound.NewRegistry()
		if err := executor.DefaultRoutes(g.registry); err != nil {
			return nil, err
		}
	}
	if g.client == nil {
		client, err := openapi.NewClient(cfg, nil, openapi.WithObserver(
			core.NewObserver("openapi", gologger.Component(g.loggerProvider, "openapi"), g.metrics),
		))
		if err != nil {
			return nil, err
		}
		g.client = client
	}
	if g.submitter == nil {
		g.queue = outbound.NewQueue(outbound.QueueOptions{
			Capacity:    cfg.QueueCapacity,
			TaskTimeout: cfg.TaskTimeout,
			Logger:      gologger.Component(g.loggerProvider, "outbound"),
			Metrics:     g.metrics,
		})
		g.submitter = g.queue
	}
	return g, nil
}

// Start launches the owned outbound queue worker.
func (g *Gateway) Start(ctx context.Context) {
	if g != nil && g.queue != nil {
		g.queue.Start(ctx)
	}
}

// Close drains the owned outbound queue.
func (g *Gateway) Close(ctx context.Context) error {
	if g == nil || g.queue == nil {
		return nil
	}
	return g.queue.Close(ctx)
}

func (g *Gateway) Config() core.Config {
	return g.cfg
}

func (g *Gateway) Registry() *inbound.Registry {
	return g.registry
}

func (g *Gateway) Submitter() core.TaskSubmitter {
	return g.submitter
}

func (g *Gateway) RemoteClient() core.RemoteClient {
	return g.client
}

// EnvelopeOptions are the response envelope settings derived from the config.
func (g *Gateway) EnvelopeOptions() envelope.Options {
	return envelope.Options{
		PlatformPublicKey: g.cfg.PlatformPublicKey,
		AppPrivateKey:     g.cfg.AppPrivateKey,
		Charset:           g.cfg.Charset,
		Encrypt:           g.cfg.EncryptResponse,
		Sign:              g.cfg.SignResponse,
		SignType:          g.cfg.NormalizedSignType(),
	}
}

// Handle processes params with the configured envelope options.
func (g *Gateway) Handle(ctx context.Context, params map[string]string) (string, error) {
	return g.HandleCallback(ctx, core.NewInboundRequest(params), g.EnvelopeOptions())
}

// HandleCallback runs the pipeline for req and returns the enveloped body.
func (g *Gateway) HandleCallback(ctx context.Context, req core.InboundRequest, opts envelope.Options) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	startedAt := time.Now()
	fields := map[string]any{
		"request_id": g.requestID(),
		"service":    req.Value(core.ParamService),
	}

	body, outcome := g.process(ctx, req, fields)
	fields["body_bytes"] = len(body)

	out, err := envelope.Build(body, opts)
	if err != nil {
		g.observer.ObserveOperation(ctx, startedAt, "callback", OutcomeEnvelopeFailed, err, fields, "service", "msg_type")
		return "", err
	}
	g.observer.ObserveOperation(ctx, startedAt, "callback", outcome, nil, fields, "service", "msg_type")
	return out, nil
}

func (g *Gateway) process(ctx context.Context, req core.InboundRequest, fields map[string]any) (string, string) {
	if err := g.verifier.Verify(ctx, req); err != nil {
		g.stageFailed(ctx, "signature verification failed", err, fields)
		return "", OutcomeSignatureInvalid
	}

	key, factory, err := g.registry.Resolve(req)
	fields["msg_type"] = key.MsgType.String()
	fields["event_type"] = key.EventType.String()
	if err != nil {
		g.stageFailed(ctx, "action key not routed", err, fields)
		if core.IsNoHandlerRegistered(err) {
			return "", OutcomeNoHandler
		}
		return "", OutcomeBadRequest
	}

	action, err := buildExecutor(factory, req, g.executorDeps())
	if err != nil {
		g.stageFailed(ctx, "executor construction failed", err, fields)
		return "", OutcomeFactoryFailed
	}

	body, err := runExecutor(ctx, action)
	if err != nil {
		g.stageFailed(ctx, "executor failed", err, fields)
		return "", OutcomeExecutionFailed
	}
	return body, OutcomeHandled
}

func (g *Gateway) executorDeps() core.ExecutorDeps {
	return core.ExecutorDeps{
		Client:       g.client,
		Submitter:    g.submitter,
		AppID:        g.cfg.AppID,
		AppPublicKey: g.cfg.AppPublicKey,
		Logger:       gologger.Component(g.loggerProvider, "executor"),
		Now:          g.now,
	}
}

func (g *Gateway) stageFailed(ctx context.Context, message string, err error, fields map[string]any) {
	logFields := core.RedactSensitiveMap(fields)
	logFields["error"] = err.Error()
	g.observer.LogWarn(ctx, message, logFields)
}

func buildExecutor(factory core.ExecutorFactory, req core.InboundRequest, deps core.ExecutorDeps) (action core.ActionExecutor, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			action = nil
			err = core.NewInternalError(fmt.Sprintf("executor factory panicked: %v", recovered), nil)
		}
	}()
	action, err = factory(req, deps)
	if err == nil && action == nil {
		err = core.NewInternalError("executor factory returned nil", nil)
	}
	return action, err
}

// runExecutor normalizes executor failures, panics included, into
// ExecutionError.
func runExecutor(ctx context.Context, action core.ActionExecutor) (body string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			body = ""
			err = core.NewExecutionError(fmt.Sprintf("executor panicked: %v", recovered), nil, nil)
		}
	}()
	body, err = action.Execute(ctx)
	if err != nil {
		if !core.IsExecutionError(err) {
			err = core.NewExecutionError("executor failed", err, nil)
		}
		return "", err
	}
	return body, nil
}
