package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	SignTypeRSA  = "RSA"
	SignTypeRSA2 = "RSA2"

	DefaultCharset       = "utf-8"
	DefaultFormat        = "JSON"
	DefaultGatewayURL    = "https://openapi.alipay.com/gateway.do"
	DefaultQueueCapacity = 1024
)

type Config struct {
	ServiceName       string        `koanf:"service_name" mapstructure:"service_name"`
	AppID             string        `koanf:"app_id" mapstructure:"app_id"`
	GatewayURL        string        `koanf:"gateway_url" mapstructure:"gateway_url"`
	AppPrivateKey     string        `koanf:"app_private_key" mapstructure:"app_private_key"`
	AppPublicKey      string        `koanf:"app_public_key" mapstructure:"app_public_key"`
	PlatformPublicKey string        `koanf:"platform_public_key" mapstructure:"platform_public_key"`
	Charset           string        `koanf:"charset" mapstructure:"charset"`
	SignType          string        `koanf:"sign_type" mapstructure:"sign_type"`
	Format            string        `koanf:"format" mapstructure:"format"`
	EncryptResponse   bool          `koanf:"encrypt_response" mapstructure:"encrypt_response"`
	SignResponse      bool          `koanf:"sign_response" mapstructure:"sign_response"`
	QueueCapacity     int           `koanf:"queue_capacity" mapstructure:"queue_capacity"`
	TaskTimeout       time.Duration `koanf:"task_timeout" mapstructure:"task_timeout"`
	RequestTimeout    time.Duration `koanf:"request_timeout" mapstructure:"request_timeout"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName:    "lifegateway",
		GatewayURL:     DefaultGatewayURL,
		Charset:        DefaultCharset,
		SignType:       SignTypeRSA2,
		Format:         DefaultFormat,
		SignResponse:   true,
		QueueCapacity:  DefaultQueueCapacity,
		RequestTimeout: 10 * time.Second,
	}
}

// Validate checks structural settings. Credentials are checked separately by
// ValidateCredentials because defaults carry none.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	switch strings.ToUpper(strings.TrimSpace(c.SignType)) {
	case SignTypeRSA, SignTypeRSA2:
	default:
		return fmt.Errorf("core: sign_type %q is invalid", c.SignType)
	}
	if strings.TrimSpace(c.Charset) == "" {
		return fmt.Errorf("core: charset is required")
	}
	if c.QueueCapacity <= 0 {
		return fmt.Errorf("core: queue_capacity must be positive")
	}
	if c.TaskTimeout < 0 {
		return fmt.Errorf("core: task_timeout is invalid")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("core: request_timeout is invalid")
	}
	return nil
}

func (c Config) ValidateCredentials() error {
	if strings.TrimSpace(c.AppID) == "" {
		return NewBadInputError("app_id is required", nil)
	}
	if strings.TrimSpace(c.AppPrivateKey) == "" {
		return NewBadInputError("app_private_key is required", nil)
	}
	if strings.TrimSpace(c.PlatformPublicKey) == "" {
		return NewBadInputError("platform_public_key is required", nil)
	}
	if strings.TrimSpace(c.GatewayURL) == "" {
		return NewBadInputError("gateway_url is required", nil)
	}
	return nil
}

// NormalizedSignType returns the upper-cased algorithm name.
func (c Config) NormalizedSignType() string {
	return strings.ToUpper(strings.TrimSpace(c.SignType))
}
