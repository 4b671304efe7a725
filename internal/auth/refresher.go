package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/credentials"
	apperrors "github.com/alexjbarnes/yahoo-fantasy-mcp/internal/errors"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/retry"
	"golang.org/x/oauth2"
)

const sourceRefresh = "refresh"

// Refresher exchanges the stored refresh token for a new access token.
type Refresher struct {
	opts      Options
	persister *Persister
	logger    *slog.Logger
}

// NewRefresher returns a Refresher.
func NewRefresher(persister *Persister, opts Options, logger *slog.Logger) *Refresher {
	return &Refresher{opts: opts.withDefaults(), persister: persister, logger: logger}
}

// Refresh obtains a new access token using rec's refresh token and
// persists it. A rejected refresh token returns ErrRefreshRejected and
// leaves the credential file and host configs untouched.
func (r *Refresher) Refresh(ctx context.Context, rec credentials.Record) (*Result, error) {
	if err := requireClient(rec); err != nil {
		return nil, err
	}
	if rec.RefreshToken == "" {
		return nil, fmt.Errorf("%w: no %s, run yahoo-fantasy-auth setup",
			apperrors.ErrConfigMissing, credentials.KeyRefreshToken)
	}

	cfg := oauthConfig(rec, r.opts.Endpoint)
	httpCtx := context.WithValue(ctx, oauth2.HTTPClient, r.opts.HTTPClient)

	tok, err := retry.Do(ctx, r.opts.Retry, r.logger, "refresh token", func() (*oauth2.Token, error) {
		src := cfg.TokenSource(httpCtx, &oauth2.Token{RefreshToken: rec.RefreshToken})
		tok, err := src.Token()
		if err != nil {
			return nil, tokenError(ctx, err, apperrors.ErrRefreshRejected)
		}
		return tok, nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrRefreshRejected) {
			r.logger.Warn("refresh token rejected, re-authorization required")
			r.persister.MarkRejected()
		}
		return nil, err
	}

	t := Tokens{
		AccessToken:  tok.AccessToken,
		RefreshToken: rec.RefreshToken,
		GUID:         extraString(tok, "xoauth_yahoo_guid"),
		ExpiresAt:    expiry(tok, r.opts.Now()),
	}

	rotated := tok.RefreshToken != "" && tok.RefreshToken != rec.RefreshToken
	if rotated {
		t.RefreshToken = tok.RefreshToken
	}

	logTokens(r.logger, "token refreshed", t)

	res, err := r.persister.Persist(ctx, t, sourceRefresh)
	if err != nil {
		return nil, err
	}
	res.Rotated = rotated

	return res, nil
}
