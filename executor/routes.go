package executor

import (
	"github.com/goliatone/go-lifegateway/core"
	"github.com/goliatone/go-lifegateway/inbound"
)

const (
	ServiceCheck         = "alipay.service.check"
	ServiceMessageNotify = "alipay.mobile.public.message.notify"

	MsgTypeEvent = "event"

	EventFollow   = "follow"
	EventUnfollow = "unfollow"
	EventEnter    = "enter"
	EventClick    = "click"
)

// DefaultWelcome is sent to new followers.
const DefaultWelcome = "Welcome! Send us a message any time."

func NewVerifyFactory() core.ExecutorFactory {
	return func(_ core.InboundRequest, deps core.ExecutorDeps) (core.ActionExecutor, error) {
		return VerifyExecutor{ChallengeToken: deps.AppPublicKey}, nil
	}
}

// NewChatTextExecutor replies to a text message with the image-text article.
func NewChatTextExecutor(req core.InboundRequest, deps core.ExecutorDeps, article Article) ReplyExecutor {
	return newReplyExecutor("chat_text", req, deps, func(content inbound.BizContent) (CustomMessage, bool) {
		return ImageTextMessage(content.FromUser(), article), true
	})
}

// NewFollowExecutor greets a new follower. An empty welcome acks only.
func NewFollowExecutor(req core.InboundRequest, deps core.ExecutorDeps, welcome string) ReplyExecutor {
	return newReplyExecutor("follow", req, deps, func(content inbound.BizContent) (CustomMessage, bool) {
		if welcome == "" {
			return CustomMessage{}, false
		}
		return TextMessage(content.FromUser(), welcome), true
	})
}

// NewClickExecutor echoes the clicked menu's ActionParam back to the user.
func NewClickExecutor(req core.InboundRequest, deps core.ExecutorDeps) ReplyExecutor {
	return newReplyExecutor("click", req, deps, func(content inbound.BizContent) (CustomMessage, bool) {
		action := content.Action()
		if action == "" {
			return CustomMessage{}, false
		}
		return TextMessage(content.FromUser(), "You selected: "+action), true
	})
}

func NewAckExecutor(req core.InboundRequest, deps core.ExecutorDeps) ReplyExecutor {
	return newReplyExecutor("ack", req, deps, nil)
}

func newReplyExecutor(name string, req core.InboundRequest, deps core.ExecutorDeps, reply ReplyBuilder) ReplyExecutor {
	return ReplyExecutor{
		Name:       name,
		BizContent: req.Value(core.ParamBizContent),
		Deps:       deps,
		Reply:      reply,
	}
}

func NewChatTextFactory(article Article) core.ExecutorFactory {
	return func(req core.InboundRequest, deps core.ExecutorDeps) (core.ActionExecutor, error) {
		return NewChatTextExecutor(req, deps, article), nil
	}
}

func NewFollowFactory(welcome string) core.ExecutorFactory {
	return func(req core.InboundRequest, deps core.ExecutorDeps) (core.ActionExecutor, error) {
		return NewFollowExecutor(req, deps, welcome), nil
	}
}

func NewClickFactory() core.ExecutorFactory {
	return func(req core.InboundRequest, deps core.ExecutorDeps) (core.ActionExecutor, error) {
		return NewClickExecutor(req, deps), nil
	}
}

func NewAckFactory() core.ExecutorFactory {
	return func(req core.InboundRequest, deps core.ExecutorDeps) (core.ActionExecutor, error) {
		return NewAckExecutor(req, deps), nil
	}
}

// DefaultRoutes registers the stock life-account routes.
func DefaultRoutes(registry *inbound.Registry) error {
	routes := []struct {
		pattern inbound.Pattern
		factory core.ExecutorFactory
	}{
		{serviceOnly(ServiceCheck), NewVerifyFactory()},
		{messagePattern(MsgTypeText, inbound.Any()), NewChatTextFactory(DefaultArticle)},
		{messagePattern(MsgTypeEvent, inbound.Exact(EventFollow)), NewFollowFactory(DefaultWelcome)},
		{messagePattern(MsgTypeEvent, inbound.Exact(EventUnfollow)), NewAckFactory()},
		{messagePattern(MsgTypeEvent, inbound.Exact(EventEnter)), NewAckFactory()},
		{messagePattern(MsgTypeEvent, inbound.Exact(EventClick)), NewClickFactory()},
	}
	for _, route := range routes {
		if err := registry.Register(route.pattern, route.factory); err != nil {
			return err
		}
	}
	return nil
}

func serviceOnly(service string) inbound.Pattern {
	return inbound.Pattern{
		Service:     inbound.Exact(service),
		MsgType:     inbound.Any(),
		EventType:   inbound.Any(),
		ActionParam: inbound.Any(),
	}
}

func messagePattern(msgType string, eventType inbound.Match) inbound.Pattern {
	return inbound.Pattern{
		Service:     inbound.Exact(ServiceMessageNotify),
		MsgType:     inbound.Exact(msgType),
		EventType:   eventType,
		ActionParam: inbound.Any(),
	}
}
