package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-lifegateway/core"
	"github.com/goliatone/go-lifegateway/executor"
	"github.com/goliatone/go-lifegateway/outbound"
)

// Dispatch is the outbound side a send command needs: a remote client to call
// and a submitter to defer the call on.
type Dispatch struct {
	Client    core.RemoteClient
	Submitter core.TaskSubmitter
}

func (d Dispatch) send(ctx context.Context, name string, msg executor.CustomMessage) error {
	if d.Client == nil || d.Submitter == nil {
		return commandDependencyError("command: remote client and task submitter are required")
	}
	payload, err := msg.JSON()
	if err != nil {
		return core.NewInternalError("command: encode custom message", err)
	}
	task := outbound.SendMessageTask(name, d.Client, outbound.CustomSendRequest(payload))
	if err := d.Submitter.Submit(task); err != nil {
		return err
	}
	storeResult(ctx, task.Name)
	return nil
}

type SendTextCommand struct {
	dispatch Dispatch
}

func NewSendTextCommand(dispatch Dispatch) *SendTextCommand {
	return &SendTextCommand{dispatch: dispatch}
}

func (c *SendTextCommand) Execute(ctx context.Context, msg SendTextMessage) error {
	if c == nil {
		return commandDependencyError("command: send text command is required")
	}
	if err := msg.Validate(); err != nil {
		return commandWrapValidation(err, "command: invalid send text message")
	}
	return c.dispatch.send(ctx, "command.send_text", msg.message())
}

type SendImageTextCommand struct {
	dispatch Dispatch
}

func NewSendImageTextCommand(dispatch Dispatch) *SendImageTextCommand {
	return &SendImageTextCommand{dispatch: dispatch}
}

func (c *SendImageTextCommand) Execute(ctx context.Context, msg SendImageTextMessage) error {
	if c == nil {
		return commandDependencyError("command: send image text command is required")
	}
	if err := msg.Validate(); err != nil {
		return commandWrapValidation(err, "command: invalid send image text message")
	}
	return c.dispatch.send(ctx, "command.send_image_text", msg.message())
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
