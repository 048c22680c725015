package outbound

import (
	"context"

	"github.com/goliatone/go-lifegateway/core"
)

const MethodCustomSend = "alipay.open.public.message.custom.send"

// SendMessageTask performs exactly one remote call with req. A transport error
// or a non-success response fails the task.
func SendMessageTask(name string, client core.RemoteClient, req core.RemoteRequest) Task {
	if name == "" {
		name = "send_message"
	}
	return Task{
		Name: name,
		Run: func(ctx context.Context) error {
			if client == nil {
				return core.NewAsyncTaskError("outbound: remote client is not configured", nil, map[string]any{"task": name})
			}
			resp, err := client.Execute(ctx, req)
			if err != nil {
				return core.NewAsyncTaskError("outbound: remote call failed", err, map[string]any{
					"task":   name,
					"method": req.Method,
				})
			}
			if !resp.IsSuccess() {
				return core.NewAsyncTaskError("outbound: remote call rejected", nil, map[string]any{
					"task":     name,
					"method":   req.Method,
					"code":     resp.Code,
					"msg":      resp.Msg,
					"sub_code": resp.SubCode,
					"sub_msg":  resp.SubMsg,
				})
			}
			return nil
		},
	}
}

// CustomSendRequest wraps a custom-send payload in a remote request.
func CustomSendRequest(bizContent string) core.RemoteRequest {
	return core.RemoteRequest{Method: MethodCustomSend, BizContent: bizContent}
}
