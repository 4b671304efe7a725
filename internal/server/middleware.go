package server

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
)

const (
	// APIKeyPrefix marks bearer tokens accepted on the HTTP transport.
	APIKeyPrefix = "yff_"

	// APIKeyMinLen is the prefix plus 16 random bytes in hex.
	APIKeyMinLen = len(APIKeyPrefix) + 32
)

// APIKey is a configured bearer key and the user it identifies.
type APIKey struct {
	UserID string
	Key    string
}

type contextKey int

const (
	ctxUserID contextKey = iota
	ctxRemoteIP
)

// RequestUserID returns the authenticated user ID from the context, or "".
func RequestUserID(ctx context.Context) string {
	v, _ := ctx.Value(ctxUserID).(string)
	return v
}

// RequestRemoteIP returns the client IP from the context, or "".
func RequestRemoteIP(ctx context.Context) string {
	v, _ := ctx.Value(ctxRemoteIP).(string)
	return v
}

// NewAPIKey returns a fresh random API key.
func NewAPIKey() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating api key: %w", err)
	}
	return APIKeyPrefix + hex.EncodeToString(b), nil
}

// Middleware returns HTTP middleware that requires one of keys as a
// Bearer token. Keys are compared by SHA-256 digest in constant time.
func Middleware(keys []APIKey, logger *slog.Logger) func(http.Handler) http.Handler {
	type entry struct {
		userID string
		digest [sha256.Size]byte
	}

	entries := make([]entry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, entry{userID: k.UserID, digest: sha256.Sum256([]byte(k.Key))})
	}

	lookup := func(token string) (string, bool) {
		digest := sha256.Sum256([]byte(token))
		userID, found := "", false
		for _, e := range entries {
			if subtle.ConstantTimeCompare(digest[:], e.digest[:]) == 1 {
				userID, found = e.userID, true
			}
		}
		return userID, found
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				logger.Debug("middleware: no bearer token",
					slog.String("ip", ip),
					slog.String("path", r.URL.Path),
				)
				w.Header().Set("WWW-Authenticate", "Bearer")
				w.WriteHeader(http.StatusUnauthorized)

				return
			}

			userID, ok := lookup(strings.TrimPrefix(authHeader, "Bearer "))
			if !ok {
				logger.Debug("middleware: invalid api key",
					slog.String("ip", ip),
					slog.String("path", r.URL.Path),
				)
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				w.WriteHeader(http.StatusUnauthorized)

				return
			}

			logger.Debug("middleware: authenticated via api key",
				slog.String("user_id", userID),
				slog.String("ip", ip),
			)

			ctx := r.Context()
			ctx = context.WithValue(ctx, ctxUserID, userID)
			ctx = context.WithValue(ctx, ctxRemoteIP, ip)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
