package auth

import (
	"net/http"
	"strings"
)

// RequestToken extracts the bridge token from the Authorization header, or
// from the "token" query parameter for WebSocket clients that cannot set
// headers.
func RequestToken(r *http.Request) string {
	if token := bearerToken(r.Header.Get("Authorization")); token != "" {
		return token
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}

func bearerToken(raw string) string {
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
}
