// Package authcli implements the yahoo-fantasy-auth command: first-time
// setup, re-authorization, token refresh, host config sync, status, and
// API key generation.
package authcli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/app"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/config"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/credentials"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/hostconfig"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/logging"
	"github.com/fatih/color"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// Options are the process boundaries of the command. Zero values mean
// the real terminal, environment, and Yahoo endpoints.
type Options struct {
	In  io.Reader
	Out io.Writer

	// Environ supplies the base environment under the credential file.
	Environ func() []string

	// OpenBrowser opens the authorization URL. Nil disables it.
	OpenBrowser func(url string) error

	// Targets replaces the default host config files when non-nil.
	Targets      []hostconfig.Target
	Endpoint     oauth2.Endpoint
	YahooBaseURL string
}

type runner struct {
	opts Options
	in   *bufio.Reader
}

// Command returns the root command.
func Command(opts Options) *cli.Command {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Environ == nil {
		opts.Environ = os.Environ
	}
	r := &runner{opts: opts, in: bufio.NewReader(opts.In)}

	return &cli.Command{
		Name:      "yahoo-fantasy-auth",
		Usage:     "Manage Yahoo Fantasy OAuth credentials",
		Writer:    opts.Out,
		ErrWriter: opts.Out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Usage:   "credential file (default ~/.yahoo-fantasy-mcp/.env)",
				Sources: cli.EnvVars("YFF_ENV_FILE"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug|info|warn|error)",
				Value: "warn",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "disable colored output",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("no-color") {
				color.NoColor = true
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			r.setupCommand(),
			r.reauthCommand(),
			r.refreshCommand(),
			r.syncCommand(),
			r.statusCommand(),
			keygenCommand(),
		},
	}
}

// load reads configuration and wires the collaborators for one command.
func (r *runner) load(cmd *cli.Command) (*app.App, error) {
	cfg, err := config.Load(cmd.String("env-file"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := logging.NewLogger(cfg.Environment, cmd.String("log-level"))

	targets := r.opts.Targets
	if targets == nil {
		targets, err = app.DefaultTargets()
		if err != nil {
			return nil, err
		}
	}

	return app.NewWithOptions(cfg, logger, app.Options{
		Targets:      targets,
		Endpoint:     r.opts.Endpoint,
		YahooBaseURL: r.opts.YahooBaseURL,
	})
}

// record returns the credential record: the environment overlaid with
// the credential file.
func (r *runner) record(a *app.App) (credentials.Record, error) {
	p, err := credentials.NewProvider(a.Store, r.opts.Environ())
	if err != nil {
		return credentials.Record{}, err
	}
	return p.Current(), nil
}

// prompt prints label and reads one trimmed line.
func (r *runner) prompt(label string) (string, error) {
	fmt.Fprint(r.opts.Out, label)
	line, err := r.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
