package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-lifegateway/core"
	"github.com/goliatone/go-lifegateway/security"
)

func TestFormPoster_PostsEncodedFormAndDecodesBody(t *testing.T) {
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/x-www-form-urlencoded;charset=utf-8" {
			t.Errorf("unexpected content type %q", got)
		}
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		w.Header().Set("Content-Type", "application/json;charset=utf-8")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	poster := NewFormPoster(server.Client())
	res, err := poster.Post(context.Background(), FormRequest{
		URL:     server.URL,
		Params:  map[string]string{"method": "alipay.x.y", "biz_content": `{"a":"b c"}`},
		Charset: "UTF-8",
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if body != "biz_content=%7B%22a%22%3A%22b+c%22%7D&method=alipay.x.y" {
		t.Fatalf("unexpected form body %q", body)
	}
	if res.StatusCode != http.StatusOK || res.Body != `{"ok":true}` || res.Charset != "utf-8" {
		t.Fatalf("unexpected response %#v", res)
	}
}

func TestFormPoster_GBKRoundTrip(t *testing.T) {
	reply, err := security.EncodeString(`{"msg":"成功"}`, "gbk")
	if err != nil {
		t.Fatalf("encode reply: %v", err)
	}
	var received []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json;charset=GBK")
		_, _ = w.Write(reply)
	}))
	defer server.Close()

	res, err := NewFormPoster(server.Client()).Post(context.Background(), FormRequest{
		URL:     server.URL,
		Params:  map[string]string{"content": "你好"},
		Charset: "GBK",
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	want, _ := EncodeForm(map[string]string{"content": "你好"}, "gbk")
	if string(received) != string(want) {
		t.Fatalf("expected gbk form %q, got %q", want, received)
	}
	if strings.Contains(string(received), "%E4") {
		t.Fatalf("value must not be utf-8 escaped: %q", received)
	}
	if res.Body != `{"msg":"成功"}` || res.Charset != "gbk" {
		t.Fatalf("expected decoded body, got %#v", res)
	}
}

func TestFormPoster_NonSuccessStatusIsResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	res, err := NewFormPoster(server.Client()).Post(context.Background(), FormRequest{URL: server.URL})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if res.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", res.StatusCode)
	}
}

func TestFormPoster_ResponseLimitReturnsRichError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("12345"))
	}))
	defer server.Close()

	poster := NewFormPoster(server.Client())
	poster.MaxResponseBodyBytes = 4

	_, err := poster.Post(context.Background(), FormRequest{URL: server.URL})
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryExternal {
		t.Fatalf("expected external category, got %q", rich.Category)
	}
	if rich.TextCode != core.GatewayErrorRemoteCallFailed {
		t.Fatalf("expected %q text code, got %q", core.GatewayErrorRemoteCallFailed, rich.TextCode)
	}
	if rich.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rich.Code)
	}
}

func TestFormPoster_RejectsBadInput(t *testing.T) {
	poster := NewFormPoster(nil)
	_, err := poster.Post(context.Background(), FormRequest{URL: "not a url"})
	if !core.HasTextCode(err, core.GatewayErrorBadInput) {
		t.Fatalf("expected bad input for url, got %v", err)
	}
	_, err = poster.Post(context.Background(), FormRequest{URL: "https://gateway.example", Charset: "latin-9"})
	if !core.HasTextCode(err, core.GatewayErrorBadInput) {
		t.Fatalf("expected bad input for charset, got %v", err)
	}

	var nilPoster *FormPoster
	_, err = nilPoster.Post(context.Background(), FormRequest{})
	if !core.HasTextCode(err, core.GatewayErrorInternal) {
		t.Fatalf("expected internal error for nil poster, got %v", err)
	}
}
