package security

import (
	"sort"
	"strings"
)

// CanonicalString builds the payload a callback signature covers: every
// entry except sign, empty values included, sorted by key and joined as
// key=value pairs. sign_type stays in the payload.
func CanonicalString(params map[string]string) string {
	return joinSorted(params, func(key, _ string) bool { return key != "sign" })
}

// SigningString builds the payload for outbound requests, which also leaves
// out entries with an empty key or value.
func SigningString(params map[string]string) string {
	return joinSorted(params, func(key, value string) bool {
		return key != "" && value != "" && key != "sign"
	})
}

func joinSorted(params map[string]string, keep func(key, value string) bool) string {
	keys := make([]string, 0, len(params))
	for key, value := range params {
		if keep(key, value) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var builder strings.Builder
	for index, key := range keys {
		if index > 0 {
			builder.WriteByte('&')
		}
		builder.WriteString(key)
		builder.WriteByte('=')
		builder.WriteString(params[key])
	}
	return builder.String()
}
