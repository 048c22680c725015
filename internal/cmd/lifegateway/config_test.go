package lifegateway

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-lifegateway/core"
)

func TestParseConfig_ParsesDefaultsAndFlags(t *testing.T) {
	fs := flag.NewFlagSet("lifegateway", flag.ContinueOnError)
	t.Setenv("LIFEGATEWAY_APP_ID", "2017000000000000")
	t.Setenv("LIFEGATEWAY_QUEUE_CAPACITY", "16")

	cfg, err := ParseConfig(fs, []string{"-http-addr", ":9090", "-sign-type", "RSA"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("http addr = %q, want %q", cfg.HTTPAddr, ":9090")
	}
	if cfg.GatewayPath != "/gateway" {
		t.Fatalf("gateway path = %q, want %q", cfg.GatewayPath, "/gateway")
	}
	if cfg.AppID != "2017000000000000" {
		t.Fatalf("app id = %q", cfg.AppID)
	}
	if cfg.QueueCapacity != 16 {
		t.Fatalf("queue capacity = %d, want 16", cfg.QueueCapacity)
	}
	if cfg.SignType != "RSA" {
		t.Fatalf("sign type = %q, want RSA", cfg.SignType)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("shutdown timeout = %s, want 10s", cfg.ShutdownTimeout)
	}
}

func TestConfigRuntimeLeavesUnsetFieldsZero(t *testing.T) {
	runtime := Config{AppID: " app ", SignType: "RSA2"}.Runtime()
	if runtime.AppID != "app" {
		t.Fatalf("app id = %q, want trimmed", runtime.AppID)
	}
	if runtime.Charset != "" || runtime.QueueCapacity != 0 {
		t.Fatalf("expected unset fields to stay zero, got %#v", runtime)
	}
}

func TestConfigProviderReadsJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.json")
	body := `{"app_id":"from-file","charset":"GBK","queue_capacity":32,"task_timeout":"3s"}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	provider, err := Config{ConfigFile: path}.ConfigProvider()
	if err != nil {
		t.Fatalf("config provider: %v", err)
	}
	if provider == nil {
		t.Fatalf("expected provider for configured file")
	}
	cfg, err := core.ResolveConfig(t.Context(), core.Config{AppID: "from-runtime"}, provider, nil)
	if err != nil {
		t.Fatalf("resolve config: %v", err)
	}
	if cfg.AppID != "from-runtime" {
		t.Fatalf("app id = %q, want runtime override", cfg.AppID)
	}
	if cfg.Charset != "GBK" {
		t.Fatalf("charset = %q, want GBK", cfg.Charset)
	}
	if cfg.QueueCapacity != 32 {
		t.Fatalf("queue capacity = %d, want 32", cfg.QueueCapacity)
	}
	if cfg.TaskTimeout != 3*time.Second {
		t.Fatalf("task timeout = %s, want 3s", cfg.TaskTimeout)
	}
}

func TestConfigProviderWithoutFile(t *testing.T) {
	provider, err := Config{}.ConfigProvider()
	if err != nil {
		t.Fatalf("config provider: %v", err)
	}
	if provider != nil {
		t.Fatalf("expected nil provider without file")
	}
}

func TestConfigProviderRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.json")
	if err := os.WriteFile(path, []byte("{"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := (Config{ConfigFile: path}).ConfigProvider(); err == nil {
		t.Fatalf("expected decode error")
	}
}
