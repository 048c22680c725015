// Package lifegateway is the entry point for the life-account callback
// gateway. It re-exports the pieces most callers need from core and gateway.
package lifegateway

import (
	"context"

	"github.com/goliatone/go-lifegateway/core"
	"github.com/goliatone/go-lifegateway/gateway"
)

type Config = core.Config

type Gateway = gateway.Gateway

type Option = gateway.Option

type InboundRequest = core.InboundRequest
type ActionKey = core.ActionKey
type ActionExecutor = core.ActionExecutor
type ExecutorFactory = core.ExecutorFactory
type ExecutorDeps = core.ExecutorDeps
type AsyncTask = core.AsyncTask
type TaskSubmitter = core.TaskSubmitter
type RemoteClient = core.RemoteClient
type MetricsRecorder = core.MetricsRecorder

type ConfigProvider = core.ConfigProvider
type OptionsResolver = core.OptionsResolver

var (
	WithVerifier           = gateway.WithVerifier
	WithRegistry           = gateway.WithRegistry
	WithRemoteClient       = gateway.WithRemoteClient
	WithTaskSubmitter      = gateway.WithTaskSubmitter
	WithLogger             = gateway.WithLogger
	WithLoggerProvider     = gateway.WithLoggerProvider
	WithMetricsRecorder    = gateway.WithMetricsRecorder
	WithClock              = gateway.WithClock
	WithRequestIDGenerator = gateway.WithRequestIDGenerator
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func New(cfg Config, opts ...Option) (*Gateway, error) {
	return gateway.New(cfg, opts...)
}

// Setup resolves the configuration from provider and runtime overrides and
// builds a gateway from it. A nil provider reads no external configuration.
func Setup(ctx context.Context, runtime Config, provider ConfigProvider, opts ...Option) (*Gateway, error) {
	cfg, err := core.ResolveConfig(ctx, runtime, provider, nil)
	if err != nil {
		return nil, err
	}
	return gateway.New(cfg, opts...)
}
