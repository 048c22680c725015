package query

import (
	"context"

	"github.com/goliatone/go-lifegateway/core"
)

// CallbackHandler runs the full callback pipeline and returns the envelope.
type CallbackHandler interface {
	Handle(ctx context.Context, params map[string]string) (string, error)
}

type ActionKeyResolver interface {
	Resolve(req core.InboundRequest) (core.ActionKey, core.ExecutorFactory, error)
}

type HandleCallbackQuery struct {
	handler CallbackHandler
}

func NewHandleCallbackQuery(handler CallbackHandler) *HandleCallbackQuery {
	return &HandleCallbackQuery{handler: handler}
}

func (q *HandleCallbackQuery) Query(ctx context.Context, msg HandleCallbackMessage) (string, error) {
	if q == nil || q.handler == nil {
		return "", queryDependencyError("query: callback handler is required")
	}
	if err := msg.Validate(); err != nil {
		return "", err
	}
	return q.handler.Handle(ctx, msg.Params)
}

// ResolveActionKeyQuery reports the action key a callback would route on
// without running its executor. A key with no registered executor is
// returned together with the NoHandlerRegistered error.
type ResolveActionKeyQuery struct {
	resolver ActionKeyResolver
}

func NewResolveActionKeyQuery(resolver ActionKeyResolver) *ResolveActionKeyQuery {
	return &ResolveActionKeyQuery{resolver: resolver}
}

func (q *ResolveActionKeyQuery) Query(_ context.Context, msg ResolveActionKeyMessage) (core.ActionKey, error) {
	if q == nil || q.resolver == nil {
		return core.ActionKey{}, queryDependencyError("query: action key resolver is required")
	}
	if err := msg.Validate(); err != nil {
		return core.ActionKey{}, err
	}
	key, _, err := q.resolver.Resolve(msg.request())
	return key, err
}
