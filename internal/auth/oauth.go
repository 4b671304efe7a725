// Package auth manages the Yahoo OAuth 2.0 token lifecycle: the initial
// out-of-band authorization, refresh, persistence of the resulting tokens
// into the credential file, and propagation to host config files.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/credentials"
	apperrors "github.com/alexjbarnes/yahoo-fantasy-mcp/internal/errors"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/retry"
	"golang.org/x/oauth2"
)

// Yahoo identity provider endpoints.
const (
	AuthURL  = "https://api.login.yahoo.com/oauth2/request_auth"
	TokenURL = "https://api.login.yahoo.com/oauth2/get_token"

	// RedirectOOB makes Yahoo display the verification code to the user
	// instead of redirecting.
	RedirectOOB = "oob"

	defaultExpiresIn = time.Hour
)

// YahooEndpoint is the Yahoo OAuth endpoint. Client credentials go in
// the Basic auth header.
var YahooEndpoint = oauth2.Endpoint{
	AuthURL:   AuthURL,
	TokenURL:  TokenURL,
	AuthStyle: oauth2.AuthStyleInHeader,
}

// GUIDLookup resolves the Yahoo user GUID for an access token.
type GUIDLookup func(ctx context.Context, accessToken string) (string, error)

// Options configures the Authenticator and Refresher.
type Options struct {
	Endpoint   oauth2.Endpoint
	HTTPClient *http.Client
	Retry      retry.Policy
	LookupGUID GUIDLookup
	Now        func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Endpoint.TokenURL == "" {
		o.Endpoint = YahooEndpoint
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Tokens is a token set obtained from the identity provider.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	GUID         string
	ExpiresAt    time.Time
}

func oauthConfig(rec credentials.Record, ep oauth2.Endpoint) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     rec.ClientID,
		ClientSecret: rec.ClientSecret,
		Endpoint:     ep,
		RedirectURL:  RedirectOOB,
	}
}

func requireClient(rec credentials.Record) error {
	if !rec.HasClient() {
		return fmt.Errorf("%w: %s and %s must be set", apperrors.ErrConfigMissing,
			credentials.KeyClientID, credentials.KeyClientSecret)
	}
	return nil
}

// tokenError classifies a token endpoint failure. Rate limiting, server
// errors, and transport failures are transient; anything else the
// endpoint answered is permanent and wrapped with rejected.
func tokenError(ctx context.Context, err error, rejected error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return retry.Permanent(ctxErr)
	}

	var re *oauth2.RetrieveError
	if !errors.As(err, &re) {
		return fmt.Errorf("%w: %w", apperrors.ErrTransientNetwork, err)
	}

	status := 0
	if re.Response != nil {
		status = re.Response.StatusCode
	}

	if status == http.StatusTooManyRequests || status >= 500 {
		return fmt.Errorf("%w: token endpoint returned %d", apperrors.ErrTransientNetwork, status)
	}

	detail := re.ErrorCode
	if detail == "" {
		detail = fmt.Sprintf("status %d", status)
	}
	return retry.Permanent(fmt.Errorf("%w: %s", rejected, detail))
}

// expiry returns the token expiry, defaulting to an hour from now when
// the response carried no expires_in.
func expiry(tok *oauth2.Token, now time.Time) time.Time {
	if tok.Expiry.IsZero() {
		return now.Add(defaultExpiresIn)
	}
	return tok.Expiry
}

func extraString(tok *oauth2.Token, key string) string {
	s, _ := tok.Extra(key).(string)
	return s
}

func logTokens(logger *slog.Logger, msg string, t Tokens) {
	logger.Info(msg,
		slog.String("access_fp", credentials.Fingerprint(t.AccessToken)),
		slog.String("refresh_fp", credentials.Fingerprint(t.RefreshToken)),
		slog.Time("expires_at", t.ExpiresAt),
	)
}
