// Package yahoo is a client for the Yahoo Fantasy Sports v2 JSON API,
// limited to the football resources the MCP tools expose.
package yahoo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/alexjbarnes/yahoo-fantasy-mcp/internal/errors"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/retry"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the Fantasy Sports API root.
const DefaultBaseURL = "https://fantasysports.yahooapis.com/fantasy/v2/"

const (
	defaultRate      = 4.0
	defaultCacheSize = 128

	// maxBodySize caps response bodies. League-wide player lists are the
	// largest responses and stay well under this.
	maxBodySize = 8 << 20
)

// Options configures a Client.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	// Rate is the sustained request rate per second.
	Rate      float64
	Retry     retry.Policy
	CacheSize int
}

// Client calls the Fantasy Sports API. The access token is supplied per
// call so a refreshed token is picked up without rebuilding the client.
type Client struct {
	base     string
	http     *http.Client
	limiter  *rate.Limiter
	retry    retry.Policy
	teamKeys *lru.Cache[string, string]
	logger   *slog.Logger
}

// New returns a Client.
func New(opts Options, logger *slog.Logger) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(opts.BaseURL, "/") {
		opts.BaseURL += "/"
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.Rate <= 0 {
		opts.Rate = defaultRate
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}

	cache, err := lru.New[string, string](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating team key cache: %w", err)
	}

	burst := int(opts.Rate)
	if burst < 1 {
		burst = 1
	}

	return &Client{
		base:     opts.BaseURL,
		http:     opts.HTTPClient,
		limiter:  rate.NewLimiter(rate.Limit(opts.Rate), burst),
		retry:    opts.Retry,
		teamKeys: cache,
		logger:   logger,
	}, nil
}

// get fetches a resource path and returns its fantasy_content node.
func (c *Client) get(ctx context.Context, token, path string) (gjson.Result, error) {
	if token == "" {
		return gjson.Result{}, fmt.Errorf("%w: no access token, run yahoo-fantasy-auth setup", apperrors.ErrConfigMissing)
	}

	url := c.base + strings.TrimPrefix(path, "/") + "?format=json"

	body, err := retry.Do(ctx, c.retry, c.logger, "yahoo api", func() ([]byte, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, retry.Permanent(err)
		}
		return c.do(ctx, token, url)
	})
	if err != nil {
		return gjson.Result{}, err
	}

	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("%w: invalid JSON from %s", apperrors.ErrAPIResponse, path)
	}

	content := gjson.GetBytes(body, "fantasy_content")
	if !content.Exists() {
		return gjson.Result{}, fmt.Errorf("%w: no fantasy_content in %s", apperrors.ErrAPIResponse, path)
	}

	return content, nil
}

func (c *Client) do(ctx context.Context, token, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("building request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, retry.Permanent(ctxErr)
		}
		return nil, fmt.Errorf("%w: %w", apperrors.ErrTransientNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", apperrors.ErrTransientNetwork, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, retry.Permanent(fmt.Errorf("%w: call ff_refresh_token and retry", apperrors.ErrInvalidToken))
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", apperrors.ErrAPIRequest, resp.StatusCode)
	default:
		return nil, retry.Permanent(fmt.Errorf("%w: status %d: %s", apperrors.ErrAPIRequest, resp.StatusCode, errorDescription(body)))
	}
}

// errorDescription extracts Yahoo's error message from a failed response.
func errorDescription(body []byte) string {
	for _, path := range []string{"error.description", "error.message", "error"} {
		if r := gjson.GetBytes(body, path); r.Type == gjson.String && r.Str != "" {
			return r.Str
		}
	}
	if len(body) > 200 {
		body = body[:200]
	}
	return strings.TrimSpace(string(body))
}

// IsInvalidToken reports whether err means the access token must be
// refreshed.
func IsInvalidToken(err error) bool {
	return errors.Is(err, apperrors.ErrInvalidToken)
}
