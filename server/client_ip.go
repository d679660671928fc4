package server

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP resolves the requester's IP, preferring the first hop of
// X-Forwarded-For when the service sits behind a proxy. The session token
// is bound to this exact string at issuance, so issuance and verification
// must resolve it identically.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if idx := strings.Index(forwarded, ","); idx >= 0 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return strings.TrimSpace(forwarded)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
