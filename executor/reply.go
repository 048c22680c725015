package executor

import (
	"context"
	"strings"

	"github.com/goliatone/go-lifegateway/core"
	"github.com/goliatone/go-lifegateway/inbound"
	"github.com/goliatone/go-lifegateway/outbound"
)

// ReplyBuilder builds the asynchronous message for a callback. A nil builder
// or an empty payload means ack only.
type ReplyBuilder func(content inbound.BizContent) (CustomMessage, bool)

// ReplyExecutor acknowledges the sender synchronously and hands the reply to
// the task submitter. The synchronous result never waits on the remote call.
type ReplyExecutor struct {
	Name       string
	BizContent string
	Deps       core.ExecutorDeps
	Reply      ReplyBuilder
}

func (e ReplyExecutor) Execute(ctx context.Context) (string, error) {
	name := e.Name
	if name == "" {
		name = "reply"
	}
	content, err := inbound.ParseBizContent(e.BizContent)
	if err != nil {
		return "", core.NewExecutionError("executor: biz_content is unreadable", err, map[string]any{"executor": name})
	}
	fromUserID := content.FromUser()
	if fromUserID == "" {
		return "", core.NewExecutionError("executor: FromUserId is missing", nil, map[string]any{"executor": name})
	}
	appID := strings.TrimSpace(e.Deps.AppID)
	if appID == "" && content.AppID != nil {
		appID = strings.TrimSpace(*content.AppID)
	}
	ack := BuildAck(fromUserID, appID, e.Deps.Clock())

	if e.Reply != nil {
		if message, ok := e.Reply(content); ok {
			e.submit(ctx, name, message)
		}
	}
	return ack, nil
}

// submit hands the reply off. Failures are logged and never change the ack.
func (e ReplyExecutor) submit(ctx context.Context, name string, message CustomMessage) {
	observer := core.NewObserver("executor", e.Deps.Logger, nil)
	fields := map[string]any{"executor": name, "msg_type": message.MsgType}
	if e.Deps.Submitter == nil {
		observer.LogWarn(ctx, "reply dropped: no task submitter", fields)
		return
	}
	payload, err := message.JSON()
	if err != nil {
		fields["error"] = err.Error()
		observer.LogError(ctx, "reply dropped: payload encoding failed", fields)
		return
	}
	task := outbound.SendMessageTask(name, e.Deps.Client, outbound.CustomSendRequest(payload))
	if err := e.Deps.Submitter.Submit(task); err != nil {
		fields["error"] = err.Error()
		observer.LogWarn(ctx, "reply dropped: submit failed", fields)
	}
}
