package core

import (
	"net/url"
	"reflect"
	"testing"
)

func TestNewInboundRequestCopiesInput(t *testing.T) {
	params := map[string]string{"service": "alipay.service.check", "sign": "abc"}
	req := NewInboundRequest(params)
	params["service"] = "mutated"

	if got := req.Value(ParamService); got != "alipay.service.check" {
		t.Fatalf("expected copied service, got %q", got)
	}
	copied := req.Params()
	copied["sign"] = "mutated"
	if got := req.Value(ParamSign); got != "abc" {
		t.Fatalf("expected immutable params, got %q", got)
	}
	if !reflect.DeepEqual(req.Keys(), []string{"service", "sign"}) {
		t.Fatalf("unexpected keys: %#v", req.Keys())
	}
}

func TestNewInboundRequestFromValuesKeepsReceivedOrder(t *testing.T) {
	raw := "sign_type=RSA2&service=alipay.service.check&sign=a%2Bb&sign_type=RSA"
	values, err := url.ParseQuery(raw)
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}
	req := NewInboundRequestFromValues(raw, values)

	if !reflect.DeepEqual(req.Keys(), []string{"sign_type", "service", "sign"}) {
		t.Fatalf("unexpected key order: %#v", req.Keys())
	}
	if req.Value(ParamSignType) != "RSA2" {
		t.Fatalf("expected first value to win, got %q", req.Value(ParamSignType))
	}
	if req.Value(ParamSign) != "a+b" {
		t.Fatalf("expected decoded sign, got %q", req.Value(ParamSign))
	}
}

func TestNewInboundRequestFromValuesAppendsBodyOnlyKeys(t *testing.T) {
	values := url.Values{"biz_content": {"<XML/>"}, "charset": {"utf-8"}}
	req := NewInboundRequestFromValues("", values)
	if !reflect.DeepEqual(req.Keys(), []string{"biz_content", "charset"}) {
		t.Fatalf("unexpected keys: %#v", req.Keys())
	}
}

func TestZeroInboundRequest(t *testing.T) {
	var req InboundRequest
	if _, ok := req.Param(ParamService); ok {
		t.Fatalf("zero request must not report params")
	}
	if req.Len() != 0 || len(req.Params()) != 0 {
		t.Fatalf("zero request must be empty")
	}
}
