// Package app wires the configured collaborators shared by the MCP server
// and the auth CLI: credential store, state database, host config
// synchronizer, Yahoo client, and the OAuth token lifecycle.
package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/auth"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/config"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/credentials"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/hostconfig"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/state"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/yahoo"
	"golang.org/x/oauth2"
)

// App holds the wired collaborators.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Store     *credentials.Store
	State     *state.State
	Hosts     *hostconfig.Synchronizer
	HTTP      *http.Client
	Yahoo     *yahoo.Client
	Persister *auth.Persister

	endpoint oauth2.Endpoint
}

// New builds an App from cfg that syncs the default host config files.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	targets, err := DefaultTargets()
	if err != nil {
		return nil, err
	}
	return NewWithOptions(cfg, logger, Options{Targets: targets})
}

// DefaultTargets resolves the known host config files for the running OS
// and user.
func DefaultTargets() ([]hostconfig.Target, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("determining home directory: %w", err)
	}
	return hostconfig.DefaultTargets(runtime.GOOS, home, os.Getenv("APPDATA")), nil
}

// Options overrides the external endpoints an App talks to.
type Options struct {
	Targets      []hostconfig.Target
	Endpoint     oauth2.Endpoint
	YahooBaseURL string
}

// NewWithOptions builds an App with explicit host targets and endpoints.
// Zero endpoint values mean the Yahoo production endpoints.
func NewWithOptions(cfg *config.Config, logger *slog.Logger, opts Options) (*App, error) {
	store, err := credentials.Open(cfg.EnvFile)
	if err != nil {
		return nil, err
	}

	if mode, insecure := store.InsecurePermissions(); insecure {
		logger.Warn("credential file is readable by other users",
			slog.String("path", store.Path()),
			slog.String("mode", fmt.Sprintf("%04o", mode)),
		)
	}

	st, err := state.Open(cfg.StatePath)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	yc, err := yahoo.New(yahoo.Options{
		BaseURL:    opts.YahooBaseURL,
		HTTPClient: httpClient,
		Rate:       cfg.APIRate,
		Retry:      cfg.RetryPolicy(),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating yahoo client: %w", err)
	}

	hosts := hostconfig.New(opts.Targets, cfg.ServerNames, logger)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		State:     st,
		Hosts:     hosts,
		HTTP:      httpClient,
		Yahoo:     yc,
		Persister: auth.NewPersister(store, st, hosts, logger),
		endpoint:  opts.Endpoint,
	}, nil
}

// AuthOptions returns the token endpoint options for the authenticator
// and refresher.
func (a *App) AuthOptions() auth.Options {
	return auth.Options{
		Endpoint:   a.endpoint,
		HTTPClient: a.HTTP,
		Retry:      a.Config.RetryPolicy(),
		LookupGUID: a.Yahoo.UserGUID,
	}
}

// Refresher returns a token refresher that persists through the App.
func (a *App) Refresher() *auth.Refresher {
	return auth.NewRefresher(a.Persister, a.AuthOptions(), a.Logger)
}

// Authenticator returns an authenticator for the client credentials in rec.
func (a *App) Authenticator(rec credentials.Record) (*auth.Authenticator, error) {
	return auth.NewAuthenticator(rec, a.Persister, a.AuthOptions(), a.Logger)
}

// Lifecycle derives the token lifecycle state for rec from the recorded
// token metadata.
func (a *App) Lifecycle(rec credentials.Record) (auth.LifecycleState, state.TokenMeta, error) {
	meta, ok, err := a.State.TokenMeta()
	if err != nil {
		return "", state.TokenMeta{}, err
	}
	return auth.Lifecycle(rec, meta, ok, time.Now()), meta, nil
}
