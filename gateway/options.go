package gateway

import (
	"time"

	"github.com/goliatone/go-lifegateway/adapters/gologger"
	"github.com/goliatone/go-lifegateway/core"
	"github.com/goliatone/go-lifegateway/inbound"
)

type Option func(*Gateway)

func WithVerifier(verifier inbound.Verifier) Option {
	return func(g *Gateway) {
		g.verifier = verifier
	}
}

func WithRegistry(registry *inbound.Registry) Option {
	return func(g *Gateway) {
		g.registry = registry
	}
}

func WithRemoteClient(client core.RemoteClient) Option {
	return func(g *Gateway) {
		g.client = client
	}
}

// WithTaskSubmitter replaces the gateway-owned queue. The caller owns the
// submitter's lifecycle.
func WithTaskSubmitter(submitter core.TaskSubmitter) Option {
	return func(g *Gateway) {
		g.submitter = submitter
	}
}

func WithLogger(logger core.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

func WithLoggerProvider(provider core.LoggerProvider) Option {
	return func(g *Gateway) {
		g.loggerProvider = provider
	}
}

func WithMetricsRecorder(recorder core.MetricsRecorder) Option {
	return func(g *Gateway) {
		g.metrics = recorder
	}
}

func WithClock(now func() time.Time) Option {
	return func(g *Gateway) {
		if now != nil {
			g.now = now
		}
	}
}

func WithRequestIDGenerator(next func() string) Option {
	return func(g *Gateway) {
		if next != nil {
			g.requestID = next
		}
	}
}

func resolveLogger(name string, provider core.LoggerProvider, logger core.Logger) (core.LoggerProvider, core.Logger) {
	return gologger.Resolve(name, provider, logger)
}
