// Package reddit scores player sentiment from recent subreddit posts,
// falling back to a local lexicon when no Reddit app is configured.
package reddit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/alexjbarnes/yahoo-fantasy-mcp/internal/errors"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	DefaultTokenURL  = "https://www.reddit.com/api/v1/access_token"
	DefaultAPIURL    = "https://oauth.reddit.com"
	DefaultSubreddit = "fantasyfootball"
)

// Credentials identify a Reddit script or web app.
type Credentials struct {
	ClientID     string
	ClientSecret string
	Username     string
}

// Complete reports whether the app credentials are set.
func (c Credentials) Complete() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// Options configures a Client.
type Options struct {
	TokenURL   string
	APIURL     string
	Subreddit  string
	HTTPClient *http.Client
}

// Post is a search hit.
type Post struct {
	Title       string  `json:"title"`
	Text        string  `json:"text,omitempty"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	Created     float64 `json:"created_utc"`
}

// Client searches one subreddit with an app-only token.
type Client struct {
	http      *http.Client
	apiURL    string
	subreddit string
	userAgent string
	logger    *slog.Logger
}

// userAgentTransport sets the User-Agent Reddit requires on every request,
// including the token request.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(r)
}

// NewClient returns a Client for creds. Returns ErrOptionalCredentialMissing
// when the app credentials are incomplete.
func NewClient(creds Credentials, opts Options, logger *slog.Logger) (*Client, error) {
	if !creds.Complete() {
		return nil, fmt.Errorf("%w: REDDIT_CLIENT_ID and REDDIT_CLIENT_SECRET", apperrors.ErrOptionalCredentialMissing)
	}

	if opts.TokenURL == "" {
		opts.TokenURL = DefaultTokenURL
	}
	if opts.APIURL == "" {
		opts.APIURL = DefaultAPIURL
	}
	if opts.Subreddit == "" {
		opts.Subreddit = DefaultSubreddit
	}

	base := opts.HTTPClient
	if base == nil {
		base = &http.Client{Timeout: 30 * time.Second}
	}

	ua := UserAgent(creds.Username)
	transport := base.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	uaClient := &http.Client{
		Timeout:   base.Timeout,
		Transport: &userAgentTransport{base: transport, userAgent: ua},
	}

	cc := &clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     opts.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	// The token source keeps this context for later refreshes.
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, uaClient)

	httpClient := cc.Client(tokenCtx)
	httpClient.Timeout = base.Timeout

	return &Client{
		http:      httpClient,
		apiURL:    strings.TrimRight(opts.APIURL, "/"),
		subreddit: opts.Subreddit,
		userAgent: ua,
		logger:    logger,
	}, nil
}

// UserAgent builds the User-Agent string Reddit asks API clients to send.
func UserAgent(username string) string {
	if username == "" {
		return "yahoo-fantasy-mcp/1.0"
	}
	return "yahoo-fantasy-mcp/1.0 (by /u/" + username + ")"
}

// Search returns the newest posts from the past week matching query.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	v := url.Values{}
	v.Set("q", query)
	v.Set("restrict_sr", "1")
	v.Set("sort", "new")
	v.Set("t", "week")
	v.Set("limit", strconv.Itoa(limit))
	v.Set("raw_json", "1")

	u := c.apiURL + "/r/" + url.PathEscape(c.subreddit) + "/search?" + v.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: reddit search: %w", apperrors.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: reading reddit response: %w", apperrors.ErrAPIRequest, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: reddit search returned %d", apperrors.ErrAPIRequest, resp.StatusCode)
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid JSON from reddit", apperrors.ErrAPIResponse)
	}

	posts := []Post{}
	gjson.GetBytes(body, "data.children").ForEach(func(_, child gjson.Result) bool {
		d := child.Get("data")
		posts = append(posts, Post{
			Title:       d.Get("title").String(),
			Text:        d.Get("selftext").String(),
			Score:       int(d.Get("score").Int()),
			NumComments: int(d.Get("num_comments").Int()),
			Created:     d.Get("created_utc").Float(),
		})
		return true
	})

	return posts, nil
}
