package core

import (
	"net/url"
	"sort"
	"strings"
)

const (
	ParamService    = "service"
	ParamSign       = "sign"
	ParamSignType   = "sign_type"
	ParamCharset    = "charset"
	ParamBizContent = "biz_content"
	ParamAppID      = "app_id"
	ParamNotifyID   = "notify_id"
)

// InboundRequest is the parameter set received on one callback. It is
// immutable: constructors copy their input and accessors return copies.
type InboundRequest struct {
	params map[string]string
	keys   []string
}

// NewInboundRequest copies params. Key order follows the sorted key set since
// Go maps carry no order; use NewInboundRequestFromValues to keep wire order.
func NewInboundRequest(params map[string]string) InboundRequest {
	keys := make([]string, 0, len(params))
	copied := make(map[string]string, len(params))
	for key, value := range params {
		keys = append(keys, key)
		copied[key] = value
	}
	sort.Strings(keys)
	return InboundRequest{params: copied, keys: keys}
}

// NewInboundRequestFromValues flattens form values keeping the first value per
// key, in the order keys were received.
func NewInboundRequestFromValues(rawQuery string, values url.Values) InboundRequest {
	req := InboundRequest{params: make(map[string]string, len(values))}
	for _, key := range receivedOrder(rawQuery) {
		if _, seen := req.params[key]; seen {
			continue
		}
		if list, ok := values[key]; ok && len(list) > 0 {
			req.params[key] = list[0]
			req.keys = append(req.keys, key)
		}
	}
	remaining := make([]string, 0)
	for key, list := range values {
		if _, seen := req.params[key]; seen || len(list) == 0 {
			continue
		}
		remaining = append(remaining, key)
	}
	sort.Strings(remaining)
	for _, key := range remaining {
		req.params[key] = values[key][0]
		req.keys = append(req.keys, key)
	}
	return req
}

func (r InboundRequest) Param(key string) (string, bool) {
	if r.params == nil {
		return "", false
	}
	value, ok := r.params[key]
	return value, ok
}

// Value returns the parameter or an empty string.
func (r InboundRequest) Value(key string) string {
	value, _ := r.Param(key)
	return value
}

func (r InboundRequest) Params() map[string]string {
	out := make(map[string]string, len(r.params))
	for key, value := range r.params {
		out[key] = value
	}
	return out
}

func (r InboundRequest) Keys() []string {
	return append([]string(nil), r.keys...)
}

func (r InboundRequest) Len() int {
	return len(r.params)
}

func receivedOrder(rawQuery string) []string {
	if strings.TrimSpace(rawQuery) == "" {
		return nil
	}
	keys := []string{}
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		name, _, _ := strings.Cut(pair, "=")
		decoded, err := url.QueryUnescape(name)
		if err != nil {
			continue
		}
		keys = append(keys, decoded)
	}
	return keys
}
