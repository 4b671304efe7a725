package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/credentials"
	apperrors "github.com/alexjbarnes/yahoo-fantasy-mcp/internal/errors"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/retry"
	"golang.org/x/oauth2"
)

// Phase is the Authenticator's position in the authorization flow.
type Phase string

const (
	PhaseStart         Phase = "start"
	PhaseAwaitingUser  Phase = "awaiting_user_authorization"
	PhaseExchanging    Phase = "exchanging_code"
	PhaseAuthenticated Phase = "authenticated"
	PhaseFailed        Phase = "failed"
)

// ErrWrongPhase is returned when Begin or Complete is called out of order.
var ErrWrongPhase = errors.New("authorization flow not in the expected phase")

const sourceAuthorize = "authorize"

// Authenticator runs one out-of-band authorization code grant. It is
// single use: verification codes cannot be exchanged twice.
type Authenticator struct {
	mu        sync.Mutex
	phase     Phase
	cfg       *oauth2.Config
	opts      Options
	persister *Persister
	logger    *slog.Logger
}

// NewAuthenticator returns an Authenticator for the client credentials in
// rec. Returns ErrConfigMissing when they are not set.
func NewAuthenticator(rec credentials.Record, persister *Persister, opts Options, logger *slog.Logger) (*Authenticator, error) {
	if err := requireClient(rec); err != nil {
		return nil, err
	}

	opts = opts.withDefaults()

	return &Authenticator{
		phase:     PhaseStart,
		cfg:       oauthConfig(rec, opts.Endpoint),
		opts:      opts,
		persister: persister,
		logger:    logger,
	}, nil
}

// Phase returns the current phase.
func (a *Authenticator) Phase() Phase {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.phase
}

// Begin returns the URL the user opens to approve access.
func (a *Authenticator) Begin() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.phase != PhaseStart {
		return "", fmt.Errorf("%w: begin called in phase %s", ErrWrongPhase, a.phase)
	}

	u := a.cfg.AuthCodeURL("", oauth2.SetAuthURLParam("language", "en-us"))
	a.phase = PhaseAwaitingUser

	return u, nil
}

// Complete exchanges the verification code for tokens and persists them.
func (a *Authenticator) Complete(ctx context.Context, code string) (*Result, error) {
	a.mu.Lock()
	if a.phase != PhaseAwaitingUser {
		phase := a.phase
		a.mu.Unlock()
		return nil, fmt.Errorf("%w: complete called in phase %s", ErrWrongPhase, phase)
	}
	a.phase = PhaseExchanging
	a.mu.Unlock()

	res, err := a.complete(ctx, strings.TrimSpace(code))

	a.mu.Lock()
	if err != nil {
		a.phase = PhaseFailed
	} else {
		a.phase = PhaseAuthenticated
	}
	a.mu.Unlock()

	return res, err
}

func (a *Authenticator) complete(ctx context.Context, code string) (*Result, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: empty verification code", apperrors.ErrAuthorizationDenied)
	}

	httpCtx := context.WithValue(ctx, oauth2.HTTPClient, a.opts.HTTPClient)

	tok, err := retry.Do(ctx, a.opts.Retry, a.logger, "exchange code", func() (*oauth2.Token, error) {
		tok, err := a.cfg.Exchange(httpCtx, code)
		if err != nil {
			return nil, tokenError(ctx, err, apperrors.ErrAuthorizationDenied)
		}
		return tok, nil
	})
	if err != nil {
		return nil, err
	}

	t := Tokens{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		GUID:         extraString(tok, "xoauth_yahoo_guid"),
		ExpiresAt:    expiry(tok, a.opts.Now()),
	}

	if t.GUID == "" && a.opts.LookupGUID != nil {
		guid, err := a.opts.LookupGUID(ctx, t.AccessToken)
		if err != nil {
			a.logger.Warn("could not look up user GUID", slog.String("error", err.Error()))
		} else {
			t.GUID = guid
		}
	}

	logTokens(a.logger, "authorization complete", t)

	return a.persister.Persist(ctx, t, sourceAuthorize)
}
