// Package transport posts signed parameter sets to the platform gateway.
// Parameter values are encoded in the request charset before form escaping,
// and response bodies are decoded back to UTF-8.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-lifegateway/security"
)

const (
	defaultClientTimeout           = 30 * time.Second
	defaultResponseBodyLimit int64 = 10 << 20
)

// FormRequest is one form post to the gateway.
type FormRequest struct {
	URL                  string
	Params               map[string]string
	Charset              string
	Timeout              time.Duration
	MaxResponseBodyBytes int64
}

type FormResponse struct {
	StatusCode int
	Charset    string
	Body       string
	Duration   time.Duration
}

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type FormPoster struct {
	Client               HTTPDoer
	UserAgent            string
	MaxResponseBodyBytes int64
}

func NewFormPoster(client HTTPDoer) *FormPoster {
	if client == nil {
		client = &http.Client{Timeout: defaultClientTimeout}
	}
	return &FormPoster{
		Client:               client,
		UserAgent:            "go-lifegateway",
		MaxResponseBodyBytes: defaultResponseBodyLimit,
	}
}

// Post sends req.Params as an urlencoded body. Non-2xx statuses are returned
// as responses; only transport failures are errors.
func (p *FormPoster) Post(ctx context.Context, req FormRequest) (FormResponse, error) {
	if p == nil || p.Client == nil {
		return FormResponse{}, postError(nil, goerrors.CategoryInternal,
			"transport: form poster requires an http client", http.StatusInternalServerError, nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	target, err := url.Parse(strings.TrimSpace(req.URL))
	if err != nil || target.Scheme == "" || target.Host == "" {
		return FormResponse{}, postError(err, goerrors.CategoryBadInput,
			"transport: invalid gateway url", http.StatusBadRequest, map[string]any{"url": req.URL})
	}
	charset := security.NormalizeCharset(req.Charset)
	body, err := EncodeForm(req.Params, charset)
	if err != nil {
		return FormResponse{}, postError(err, goerrors.CategoryBadInput,
			"transport: encode form", http.StatusBadRequest, map[string]any{"charset": charset})
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(body))
	if err != nil {
		return FormResponse{}, postError(err, goerrors.CategoryBadInput,
			"transport: create http request", http.StatusBadRequest, map[string]any{"url": target.String()})
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset="+charset)
	httpReq.Header.Set("Accept", "application/json")
	if p.UserAgent != "" {
		httpReq.Header.Set("User-Agent", p.UserAgent)
	}

	startedAt := time.Now()
	httpRes, err := p.Client.Do(httpReq)
	if err != nil {
		return FormResponse{}, postError(err, goerrors.CategoryExternal,
			"transport: execute http request", http.StatusBadGateway, map[string]any{"url": target.String()})
	}
	defer httpRes.Body.Close()

	limit := req.MaxResponseBodyBytes
	if limit <= 0 {
		limit = p.MaxResponseBodyBytes
	}
	if limit <= 0 {
		limit = defaultResponseBodyLimit
	}
	raw, err := io.ReadAll(io.LimitReader(httpRes.Body, limit+1))
	if err != nil {
		return FormResponse{}, postError(err, goerrors.CategoryExternal,
			"transport: read response body", http.StatusBadGateway, map[string]any{"status_code": httpRes.StatusCode})
	}
	if int64(len(raw)) > limit {
		return FormResponse{}, postError(nil, goerrors.CategoryExternal,
			fmt.Sprintf("transport: response body exceeds limit of %d bytes", limit),
			http.StatusBadGateway, map[string]any{"status_code": httpRes.StatusCode})
	}

	responseCharset := responseCharset(httpRes.Header.Get("Content-Type"), charset)
	decoded, err := security.DecodeBytes(raw, responseCharset)
	if err != nil && responseCharset != charset {
		responseCharset = charset
		decoded, err = security.DecodeBytes(raw, charset)
	}
	if err != nil {
		return FormResponse{}, postError(err, goerrors.CategoryExternal,
			"transport: decode response body", http.StatusBadGateway, map[string]any{"charset": responseCharset})
	}
	return FormResponse{
		StatusCode: httpRes.StatusCode,
		Charset:    responseCharset,
		Body:       decoded,
		Duration:   time.Since(startedAt),
	}, nil
}

// EncodeForm urlencodes params in sorted key order with each value converted
// to charset first.
func EncodeForm(params map[string]string, charset string) ([]byte, error) {
	if _, err := security.EncodeString("", charset); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(params))
	for key := range params {
		if strings.TrimSpace(key) != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	for _, key := range keys {
		value, err := security.EncodeString(params[key], charset)
		if err != nil {
			return nil, err
		}
		if buf.Len() > 0 {
			buf.WriteByte('&')
		}
		buf.WriteString(url.QueryEscape(key))
		buf.WriteByte('=')
		buf.WriteString(url.QueryEscape(string(value)))
	}
	return buf.Bytes(), nil
}

func responseCharset(contentType string, fallback string) string {
	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		if charset := strings.TrimSpace(params["charset"]); charset != "" {
			return security.NormalizeCharset(charset)
		}
	}
	return fallback
}
