package query

import "github.com/goliatone/go-lifegateway/core"

const (
	TypeHandleCallback   = "lifegateway.query.callback.handle"
	TypeResolveActionKey = "lifegateway.query.action_key.resolve"
)

// HandleCallbackMessage carries the raw parameters of one platform callback.
type HandleCallbackMessage struct {
	Params map[string]string
}

func (HandleCallbackMessage) Type() string { return TypeHandleCallback }

func (m HandleCallbackMessage) Validate() error {
	if len(m.Params) == 0 {
		return queryValidationError("params", "callback parameters are required")
	}
	return nil
}

type ResolveActionKeyMessage struct {
	Params map[string]string
}

func (ResolveActionKeyMessage) Type() string { return TypeResolveActionKey }

func (m ResolveActionKeyMessage) Validate() error {
	if len(m.Params) == 0 {
		return queryValidationError("params", "callback parameters are required")
	}
	return nil
}

func (m ResolveActionKeyMessage) request() core.InboundRequest {
	return core.NewInboundRequest(m.Params)
}
