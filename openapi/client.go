// Package openapi is the platform open API client used for asynchronous
// replies. Requests are form posts signed with the app private key; responses
// are JSON documents whose result node may be signed by the platform.
package openapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-lifegateway/core"
	"github.com/goliatone/go-lifegateway/security"
	"github.com/goliatone/go-lifegateway/transport"
	"github.com/tidwall/gjson"
)

const (
	APIVersion      = "1.0"
	TimestampLayout = "2006-01-02 15:04:05"

	errorResponseNode = "error_response"
)

// platformZone is the fixed UTC+8 zone the platform expects timestamps in.
var platformZone = time.FixedZone("Asia/Shanghai", 8*60*60)

// Poster sends signed forms; *transport.FormPoster satisfies it.
type Poster interface {
	Post(ctx context.Context, req transport.FormRequest) (transport.FormResponse, error)
}

type Client struct {
	GatewayURL        string
	AppID             string
	AppPrivateKey     string
	PlatformPublicKey string
	Charset           string
	SignType          string
	Format            string
	Timeout           time.Duration

	poster   Poster
	now      func() time.Time
	observer core.Observer
}

type Option func(*Client)

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

func WithObserver(observer core.Observer) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// NewClient builds a client from the gateway configuration. A nil poster uses
// a default form poster.
func NewClient(cfg core.Config, poster Poster, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.GatewayURL) == "" {
		return nil, core.NewBadInputError("openapi: gateway_url is required", nil)
	}
	if strings.TrimSpace(cfg.AppID) == "" {
		return nil, core.NewBadInputError("openapi: app_id is required", nil)
	}
	if strings.TrimSpace(cfg.AppPrivateKey) == "" {
		return nil, core.NewBadInputError("openapi: app_private_key is required", nil)
	}
	if poster == nil {
		poster = transport.NewFormPoster(nil)
	}
	format := strings.TrimSpace(cfg.Format)
	if format == "" {
		format = core.DefaultFormat
	}
	client := &Client{
		GatewayURL:        strings.TrimSpace(cfg.GatewayURL),
		AppID:             strings.TrimSpace(cfg.AppID),
		AppPrivateKey:     cfg.AppPrivateKey,
		PlatformPublicKey: cfg.PlatformPublicKey,
		Charset:           security.NormalizeCharset(cfg.Charset),
		SignType:          cfg.NormalizedSignType(),
		Format:            format,
		Timeout:           cfg.RequestTimeout,
		poster:            poster,
		now:               time.Now,
		observer:          core.NewObserver("openapi", nil, nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

func (c *Client) Execute(ctx context.Context, req core.RemoteRequest) (core.RemoteResponse, error) {
	return c.execute(ctx, req, "")
}

func (c *Client) ExecuteAuthenticated(ctx context.Context, req core.RemoteRequest, accessToken string) (core.RemoteResponse, error) {
	return c.execute(ctx, req, accessToken)
}

func (c *Client) execute(ctx context.Context, req core.RemoteRequest, accessToken string) (resp core.RemoteResponse, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	startedAt := time.Now()
	defer func() {
		c.observer.ObserveOperation(ctx, startedAt, "call", "", err, map[string]any{
			"method":   req.Method,
			"code":     resp.Code,
			"sub_code": resp.SubCode,
		}, "method")
	}()

	params, err := c.SignedParams(req, accessToken)
	if err != nil {
		return core.RemoteResponse{}, err
	}
	res, err := c.poster.Post(ctx, transport.FormRequest{
		URL:     c.GatewayURL,
		Params:  params,
		Charset: c.Charset,
		Timeout: c.Timeout,
	})
	if err != nil {
		return core.RemoteResponse{}, core.NewRemoteCallError("openapi: request failed", err, map[string]any{"method": req.Method})
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return core.RemoteResponse{}, core.NewRemoteCallError("openapi: unexpected http status", nil, map[string]any{
			"method":      req.Method,
			"status_code": res.StatusCode,
		})
	}
	return c.ParseResponse(req.Method, res.Body)
}

// SignedParams returns the complete signed parameter set for req.
func (c *Client) SignedParams(req core.RemoteRequest, accessToken string) (map[string]string, error) {
	method := strings.TrimSpace(req.Method)
	if method == "" {
		return nil, core.NewBadInputError("openapi: method is required", nil)
	}
	params := make(map[string]string, len(req.TextParams)+10)
	for key, value := range req.TextParams {
		params[key] = value
	}
	params["app_id"] = c.AppID
	params["method"] = method
	params["format"] = c.Format
	params["charset"] = c.Charset
	params["sign_type"] = c.SignType
	params["timestamp"] = c.now().In(platformZone).Format(TimestampLayout)
	params["version"] = APIVersion
	if req.BizContent != "" {
		params["biz_content"] = req.BizContent
	}
	if req.NotifyURL != "" {
		params["notify_url"] = req.NotifyURL
	}
	if accessToken != "" {
		params["auth_token"] = accessToken
	}
	sign, err := security.SignParams(params, c.AppPrivateKey, c.Charset, c.SignType)
	if err != nil {
		return nil, core.NewRemoteCallError("openapi: sign request", err, map[string]any{"method": method})
	}
	params["sign"] = sign
	return params, nil
}

// ParseResponse extracts the result node for method from body and checks its
// signature when the platform key is configured.
func (c *Client) ParseResponse(method string, body string) (core.RemoteResponse, error) {
	if !gjson.Valid(body) {
		return core.RemoteResponse{}, core.NewRemoteCallError("openapi: response is not valid json", nil, map[string]any{"method": method})
	}
	document := gjson.Parse(body)
	node := document.Get(ResponseNode(method))
	if !node.Exists() {
		node = document.Get(errorResponseNode)
	}
	if !node.Exists() || !node.IsObject() {
		return core.RemoteResponse{}, core.NewRemoteCallError("openapi: response node is missing", nil, map[string]any{"method": method})
	}

	if sign := document.Get("sign").String(); sign != "" && strings.TrimSpace(c.PlatformPublicKey) != "" {
		if err := security.VerifyContent(node.Raw, sign, c.PlatformPublicKey, c.Charset, c.SignType); err != nil {
			return core.RemoteResponse{}, core.NewRemoteCallError("openapi: response signature is invalid", err, map[string]any{"method": method})
		}
	}

	return core.RemoteResponse{
		Code:    node.Get("code").String(),
		Msg:     node.Get("msg").String(),
		SubCode: node.Get("sub_code").String(),
		SubMsg:  node.Get("sub_msg").String(),
		Body:    body,
	}, nil
}

// ResponseNode names the JSON node holding the result of method.
func ResponseNode(method string) string {
	return strings.ReplaceAll(strings.TrimSpace(method), ".", "_") + "_response"
}

var _ core.RemoteClient = (*Client)(nil)
