// Package lifegateway parses gateway command flags and runs the HTTP server.
package lifegateway

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/goliatone/go-lifegateway/core"
)

// Config holds gateway command configuration.
type Config struct {
	HTTPAddr          string        `env:"LIFEGATEWAY_HTTP_ADDR" envDefault:":8080"`
	GatewayPath       string        `env:"LIFEGATEWAY_GATEWAY_PATH" envDefault:"/gateway"`
	MetricsPath       string        `env:"LIFEGATEWAY_METRICS_PATH" envDefault:"/metrics"`
	ConfigFile        string        `env:"LIFEGATEWAY_CONFIG_FILE"`
	LogLevel          string        `env:"LIFEGATEWAY_LOG_LEVEL" envDefault:"info"`
	AppID             string        `env:"LIFEGATEWAY_APP_ID"`
	AppPrivateKey     string        `env:"LIFEGATEWAY_APP_PRIVATE_KEY"`
	AppPublicKey      string        `env:"LIFEGATEWAY_APP_PUBLIC_KEY"`
	PlatformPublicKey string        `env:"LIFEGATEWAY_PLATFORM_PUBLIC_KEY"`
	GatewayURL        string        `env:"LIFEGATEWAY_GATEWAY_URL"`
	Charset           string        `env:"LIFEGATEWAY_CHARSET"`
	SignType          string        `env:"LIFEGATEWAY_SIGN_TYPE"`
	EncryptResponse   bool          `env:"LIFEGATEWAY_ENCRYPT_RESPONSE"`
	QueueCapacity     int           `env:"LIFEGATEWAY_QUEUE_CAPACITY"`
	TaskTimeout       time.Duration `env:"LIFEGATEWAY_TASK_TIMEOUT"`
	RequestTimeout    time.Duration `env:"LIFEGATEWAY_REQUEST_TIMEOUT"`
	ShutdownTimeout   time.Duration `env:"LIFEGATEWAY_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.GatewayPath, "gateway-path", cfg.GatewayPath, "Callback endpoint path")
	fs.StringVar(&cfg.MetricsPath, "metrics-path", cfg.MetricsPath, "Prometheus endpoint path (empty disables it)")
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "Optional JSON configuration file")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (trace|debug|info|warn|error)")
	fs.StringVar(&cfg.AppID, "app-id", cfg.AppID, "Application id issued by the platform")
	fs.StringVar(&cfg.GatewayURL, "gateway-url", cfg.GatewayURL, "Platform OpenAPI gateway URL")
	fs.StringVar(&cfg.Charset, "charset", cfg.Charset, "Default charset for callbacks and responses")
	fs.StringVar(&cfg.SignType, "sign-type", cfg.SignType, "Signature algorithm (RSA|RSA2)")
	fs.BoolVar(&cfg.EncryptResponse, "encrypt-response", cfg.EncryptResponse, "Encrypt callback responses with the platform public key")
	fs.IntVar(&cfg.QueueCapacity, "queue-capacity", cfg.QueueCapacity, "Outbound task queue capacity")
	fs.DurationVar(&cfg.TaskTimeout, "task-timeout", cfg.TaskTimeout, "Per-task timeout for outbound calls")
	fs.DurationVar(&cfg.RequestTimeout, "request-timeout", cfg.RequestTimeout, "HTTP timeout for outbound OpenAPI requests")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "Graceful shutdown timeout")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Runtime maps the command settings onto gateway overrides. Zero values
// leave the file or default value in place.
func (c Config) Runtime() core.Config {
	return core.Config{
		AppID:             strings.TrimSpace(c.AppID),
		GatewayURL:        strings.TrimSpace(c.GatewayURL),
		AppPrivateKey:     strings.TrimSpace(c.AppPrivateKey),
		AppPublicKey:      strings.TrimSpace(c.AppPublicKey),
		PlatformPublicKey: strings.TrimSpace(c.PlatformPublicKey),
		Charset:           strings.TrimSpace(c.Charset),
		SignType:          strings.TrimSpace(c.SignType),
		EncryptResponse:   c.EncryptResponse,
		QueueCapacity:     c.QueueCapacity,
		TaskTimeout:       c.TaskTimeout,
		RequestTimeout:    c.RequestTimeout,
	}
}

// ConfigProvider returns the provider for the optional JSON file. It is nil
// when no file is configured.
func (c Config) ConfigProvider() (core.ConfigProvider, error) {
	path := strings.TrimSpace(c.ConfigFile)
	if path == "" {
		return nil, nil
	}
	values, err := loadConfigFile(path)
	if err != nil {
		return nil, err
	}
	return core.NewCfgxConfigProvider(core.StaticConfigLoader{Values: values}), nil
}

func loadConfigFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	values := map[string]any{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return values, nil
}
