package core

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func TestGatewayErrorConstructorsAssignStableCodes(t *testing.T) {
	cases := []struct {
		name     string
		err      *goerrors.Error
		textCode string
		category goerrors.Category
		status   int
		check    func(error) bool
	}{
		{"signature", NewSignatureInvalidError("bad sign", nil), GatewayErrorSignatureInvalid, goerrors.CategoryAuth, http.StatusUnauthorized, IsSignatureInvalid},
		{"no handler", NewNoHandlerRegisteredError(ActionKey{Service: Present("x")}), GatewayErrorNoHandlerRegistered, goerrors.CategoryNotFound, http.StatusNotFound, IsNoHandlerRegistered},
		{"execution", NewExecutionError("exec", stderrors.New("cause"), nil), GatewayErrorExecutionFailed, goerrors.CategoryOperation, http.StatusInternalServerError, IsExecutionError},
		{"envelope", NewEnvelopeBuildError("env", nil), GatewayErrorEnvelopeBuildFailed, goerrors.CategoryInternal, http.StatusInternalServerError, IsEnvelopeBuildFailed},
		{"async", NewAsyncTaskError("async", nil, nil), GatewayErrorAsyncTaskFailed, goerrors.CategoryExternal, http.StatusBadGateway, IsAsyncTaskFailed},
		{"queue full", NewQueueFullError(4), GatewayErrorQueueFull, goerrors.CategoryRateLimit, http.StatusTooManyRequests, IsQueueFull},
		{"queue closed", NewQueueClosedError(), GatewayErrorQueueClosed, goerrors.CategoryConflict, http.StatusConflict, IsQueueClosed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.TextCode != tc.textCode {
				t.Fatalf("expected text code %q, got %q", tc.textCode, tc.err.TextCode)
			}
			if tc.err.Category != tc.category {
				t.Fatalf("expected category %q, got %q", tc.category, tc.err.Category)
			}
			if tc.err.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, tc.err.Code)
			}
			if !tc.check(tc.err) {
				t.Fatalf("expected predicate to match")
			}
		})
	}
}

func TestExecutionErrorOverridesWrappedRichCategory(t *testing.T) {
	cause := NewRemoteCallError("remote down", nil, nil)
	err := NewExecutionError("chat executor failed", cause, nil)
	if err.Category != goerrors.CategoryOperation {
		t.Fatalf("expected operation category, got %q", err.Category)
	}
	if !IsExecutionError(err) {
		t.Fatalf("expected execution error predicate")
	}
	if !stderrors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable through unwrap")
	}
}

func TestPredicatesSeeOutermostRichError(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewQueueFullError(1))
	if !IsQueueFull(wrapped) {
		t.Fatalf("expected queue full through fmt wrap")
	}
	if IsSignatureInvalid(stderrors.New("plain")) {
		t.Fatalf("plain error must not match")
	}
	if HasTextCode(nil, GatewayErrorInternal) {
		t.Fatalf("nil error must not match")
	}
}

func TestNoHandlerRegisteredCarriesKeyMetadata(t *testing.T) {
	key := NewActionKey(Present("svc"), Present("text"), Absent(), Absent())
	err := NewNoHandlerRegisteredError(key)
	if err.Metadata["service"] != "svc" || err.Metadata["event_type"] != absentMarker {
		t.Fatalf("unexpected metadata: %#v", err.Metadata)
	}
}

func TestMapErrorAssignsEnvelope(t *testing.T) {
	mapped := MapError(stderrors.New("app_id is required"))
	if mapped.TextCode != GatewayErrorBadInput || mapped.Code != http.StatusBadRequest {
		t.Fatalf("unexpected mapping: %#v", mapped)
	}
	mapped = MapError(stderrors.New("signature check failed"))
	if mapped.TextCode != GatewayErrorSignatureInvalid {
		t.Fatalf("expected signature text code, got %q", mapped.TextCode)
	}
	rich := goerrors.New("conflict", goerrors.CategoryConflict)
	mapped = MapError(rich)
	if mapped.TextCode != GatewayErrorConflict || mapped.Code != http.StatusConflict {
		t.Fatalf("expected conflict envelope, got %#v", mapped)
	}
	if MapError(nil) != nil {
		t.Fatalf("expected nil mapping for nil error")
	}
}
