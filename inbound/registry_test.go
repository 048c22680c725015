package inbound

import (
	"context"
	"net/http"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-lifegateway/core"
)

type namedExecutor struct {
	name string
}

func (e namedExecutor) Execute(context.Context) (string, error) {
	return e.name, nil
}

func factoryNamed(name string) core.ExecutorFactory {
	return func(core.InboundRequest, core.ExecutorDeps) (core.ActionExecutor, error) {
		return namedExecutor{name: name}, nil
	}
}

func executeFactory(t *testing.T, factory core.ExecutorFactory) string {
	t.Helper()
	executor, err := factory(core.InboundRequest{}, core.ExecutorDeps{})
	if err != nil {
		t.Fatalf("build executor: %v", err)
	}
	body, err := executor.Execute(context.Background())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	return body
}

func key(service, msgType, eventType string) core.ActionKey {
	return core.NewActionKey(core.Present(service), core.Present(msgType), core.Present(eventType), core.Absent())
}

func TestRegistryExactLookup(t *testing.T) {
	registry := NewRegistry()
	follow := key("alipay.mobile.public.message.notify", "event", "follow")
	if err := registry.Register(ExactPattern(follow), factoryNamed("follow")); err != nil {
		t.Fatalf("register: %v", err)
	}

	factory, err := registry.Lookup(follow)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got := executeFactory(t, factory); got != "follow" {
		t.Fatalf("expected follow executor, got %q", got)
	}

	withEmptyParam := follow
	withEmptyParam.ActionParam = core.Present("")
	if _, err := registry.Lookup(withEmptyParam); !core.IsNoHandlerRegistered(err) {
		t.Fatalf("absent and empty action param must differ, got %v", err)
	}
}

func TestRegistryUnregisteredKey(t *testing.T) {
	registry := NewRegistry()
	_, err := registry.Lookup(key("unknown.service", "text", ""))
	if !core.IsNoHandlerRegistered(err) {
		t.Fatalf("expected no handler registered, got %v", err)
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) || rich.Category != goerrors.CategoryNotFound {
		t.Fatalf("expected not_found rich error, got %#v", err)
	}
}

func TestRegistryMostSpecificWildcardWins(t *testing.T) {
	registry := NewRegistry()
	const notify = "alipay.mobile.public.message.notify"
	broad := Pattern{Service: Exact(notify), MsgType: Any(), EventType: Any(), ActionParam: Any()}
	narrow := Pattern{Service: Exact(notify), MsgType: Exact("event"), EventType: Any(), ActionParam: Any()}
	if err := registry.Register(broad, factoryNamed("broad")); err != nil {
		t.Fatalf("register broad: %v", err)
	}
	if err := registry.Register(narrow, factoryNamed("narrow")); err != nil {
		t.Fatalf("register narrow: %v", err)
	}

	factory, err := registry.Lookup(key(notify, "event", "click"))
	if err != nil {
		t.Fatalf("lookup event: %v", err)
	}
	if got := executeFactory(t, factory); got != "narrow" {
		t.Fatalf("expected narrow wildcard, got %q", got)
	}

	factory, err = registry.Lookup(key(notify, "text", ""))
	if err != nil {
		t.Fatalf("lookup text: %v", err)
	}
	if got := executeFactory(t, factory); got != "broad" {
		t.Fatalf("expected broad wildcard, got %q", got)
	}

	exact := key(notify, "event", "click")
	if err := registry.Register(ExactPattern(exact), factoryNamed("exact")); err != nil {
		t.Fatalf("register exact: %v", err)
	}
	factory, _ = registry.Lookup(exact)
	if got := executeFactory(t, factory); got != "exact" {
		t.Fatalf("expected exact registration to win, got %q", got)
	}
}

func TestRegistryRejectsDuplicatesAndAmbiguity(t *testing.T) {
	registry := NewRegistry()
	first := Pattern{Service: Exact("svc"), MsgType: Exact("event"), EventType: Any(), ActionParam: Any()}
	if err := registry.Register(first, factoryNamed("first")); err != nil {
		t.Fatalf("register first: %v", err)
	}

	err := registry.Register(first, factoryNamed("again"))
	assertConflict(t, err)

	ambiguous := Pattern{Service: Exact("svc"), MsgType: Any(), EventType: Exact("follow"), ActionParam: Any()}
	assertConflict(t, registry.Register(ambiguous, factoryNamed("ambiguous")))

	disjoint := Pattern{Service: Exact("svc"), MsgType: Exact("text"), EventType: Any(), ActionParam: Any()}
	if err := registry.Register(disjoint, factoryNamed("text")); err != nil {
		t.Fatalf("disjoint wildcard must register: %v", err)
	}

	exact := key("svc", "event", "follow")
	if err := registry.Register(ExactPattern(exact), factoryNamed("exact")); err != nil {
		t.Fatalf("register exact: %v", err)
	}
	assertConflict(t, registry.Register(ExactPattern(exact), factoryNamed("exact-again")))

	if err := registry.Register(first, nil); err == nil {
		t.Fatalf("expected nil factory to be rejected")
	}
	if registry.Len() != 3 {
		t.Fatalf("expected 3 registrations, got %d", registry.Len())
	}
}

func assertConflict(t *testing.T, err error) {
	t.Helper()
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected rich conflict error, got %v", err)
	}
	if rich.Category != goerrors.CategoryConflict || rich.Code != http.StatusConflict {
		t.Fatalf("expected conflict, got %#v", rich)
	}
	if rich.TextCode != core.GatewayErrorConflict {
		t.Fatalf("expected conflict text code, got %q", rich.TextCode)
	}
}

func TestExactAbsentMatchesOnlyAbsent(t *testing.T) {
	pattern := Pattern{Service: ExactAbsent(), MsgType: Any(), EventType: Any(), ActionParam: Any()}
	if !pattern.Matches(core.ActionKey{}) {
		t.Fatalf("expected absent service to match")
	}
	if pattern.Matches(core.ActionKey{Service: core.Present("")}) {
		t.Fatalf("present empty service must not match ExactAbsent")
	}
}

func TestRegistryResolveFromRequest(t *testing.T) {
	registry := NewRegistry()
	check := Pattern{Service: Exact("alipay.service.check"), MsgType: Any(), EventType: Any(), ActionParam: Any()}
	if err := registry.Register(check, factoryNamed("verify")); err != nil {
		t.Fatalf("register: %v", err)
	}
	key, factory, err := registry.Resolve(core.NewInboundRequest(map[string]string{"service": "alipay.service.check"}))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if key.MsgType.IsPresent() {
		t.Fatalf("expected absent msg type without biz_content")
	}
	if got := executeFactory(t, factory); got != "verify" {
		t.Fatalf("expected verify executor, got %q", got)
	}
}
