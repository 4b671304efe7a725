// Package server builds the HTTP handler used when the MCP server is
// exposed over streamable HTTP instead of stdio.
package server

import (
	"log/slog"
	"net/http"
	"time"
)

// MuxConfig holds dependencies for building the HTTP mux.
type MuxConfig struct {
	APIKeys    []APIKey
	MCPHandler http.Handler
	Logger     *slog.Logger
}

// NewMux builds the HTTP mux with a health endpoint and the MCP endpoint.
// The MCP endpoint is protected by API key middleware.
func NewMux(cfg MuxConfig) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})

	authMiddleware := Middleware(cfg.APIKeys, cfg.Logger)
	mux.Handle("/mcp", authMiddleware(accessLog(cfg.Logger, cfg.MCPHandler)))

	return mux
}

// accessLog records which API key user made each authenticated request.
func accessLog(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		logger.Info("mcp request",
			slog.String("user_id", RequestUserID(r.Context())),
			slog.String("ip", RequestRemoteIP(r.Context())),
			slog.String("method", r.Method),
			slog.Duration("duration", time.Since(start)),
		)
	})
}
