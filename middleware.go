package main

import (
	"context"
	"encoding/json"
	"net/http"
)

// authMiddleware gates every route behind a bearer token when one is
// configured; a no-op when cfg.Token is empty. Auth is an ambient transport
// concern, not a WebDriver wire error, so a rejection gets a plain 401
// instead of a WebDriverError envelope.
func authMiddleware(cfg *Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Token != "" {
				if r.Header.Get("Authorization") != "Bearer "+cfg.Token {
					w.Header().Set("Content-Type", "application/json; charset=utf-8")
					w.WriteHeader(http.StatusUnauthorized)
					_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// cancelOnClientDone cancels cancel once the request's context is done. Run
// as `go cancelOnClientDone(r.Context(), cancel)` around any handler that
// opens its own derived, timeout-bound context.
func cancelOnClientDone(reqCtx context.Context, cancel context.CancelFunc) {
	<-reqCtx.Done()
	cancel()
}
