package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// ClientIP resolves the caller's address: the first entry of an
// X-Forwarded-For header when present, otherwise the direct peer address.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// QueryParamsJSON serializes query parameters as a flat JSON object, first
// value per key.
func QueryParamsJSON(q url.Values) string {
	flat := make(map[string]string, len(q))
	for key, values := range q {
		if len(values) > 0 {
			flat[key] = values[0]
		}
	}
	out, err := json.Marshal(flat)
	if err != nil {
		return "{}"
	}
	return string(out)
}
