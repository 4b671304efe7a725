package authcli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/app"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/auth"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/credentials"
	apperrors "github.com/alexjbarnes/yahoo-fantasy-mcp/internal/errors"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/server"
	"github.com/urfave/cli/v3"
)

var noBrowserFlag = &cli.BoolFlag{
	Name:  "no-browser",
	Usage: "print the authorization URL without opening a browser",
}

func (r *runner) setupCommand() *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "save Yahoo app credentials and authorize",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "client-id", Usage: "Yahoo app client ID"},
			&cli.StringFlag{Name: "client-secret", Usage: "Yahoo app client secret"},
			noBrowserFlag,
		},
		Action: r.setup,
	}
}

func (r *runner) setup(ctx context.Context, cmd *cli.Command) error {
	a, err := r.load(cmd)
	if err != nil {
		return err
	}
	rec, err := r.record(a)
	if err != nil {
		return err
	}

	id := cmd.String("client-id")
	if id == "" {
		if id, err = r.prompt(promptLabel("Yahoo client ID", rec.ClientID)); err != nil {
			return err
		}
	}
	secret := cmd.String("client-secret")
	if secret == "" {
		if secret, err = r.prompt(promptLabel("Yahoo client secret", rec.ClientSecret)); err != nil {
			return err
		}
	}

	// An empty answer keeps the value already configured.
	if id != "" {
		rec.ClientID = id
	}
	if secret != "" {
		rec.ClientSecret = secret
	}
	if !rec.HasClient() {
		return fmt.Errorf("%w: client ID and secret are both required; create an app at https://developer.yahoo.com/apps/",
			apperrors.ErrConfigMissing)
	}

	if _, err := a.Store.Upsert(map[string]string{
		credentials.KeyClientID:     rec.ClientID,
		credentials.KeyClientSecret: rec.ClientSecret,
	}); err != nil {
		return err
	}
	fmt.Fprintf(r.opts.Out, "%s app credentials saved to %s\n", ok.Sprint("✓"), a.Store.Path())

	return r.authorize(ctx, cmd, a, rec)
}

func (r *runner) reauthCommand() *cli.Command {
	return &cli.Command{
		Name:   "reauth",
		Usage:  "authorize again with the saved app credentials",
		Flags:  []cli.Flag{noBrowserFlag},
		Action: r.reauth,
	}
}

func (r *runner) reauth(ctx context.Context, cmd *cli.Command) error {
	a, err := r.load(cmd)
	if err != nil {
		return err
	}
	rec, err := r.record(a)
	if err != nil {
		return err
	}
	return r.authorize(ctx, cmd, a, rec)
}

// authorize runs the out-of-band flow: print the URL, read the
// verification code Yahoo shows the user, and exchange it.
func (r *runner) authorize(ctx context.Context, cmd *cli.Command, a *app.App, rec credentials.Record) error {
	authn, err := a.Authenticator(rec)
	if err != nil {
		return err
	}

	url, err := authn.Begin()
	if err != nil {
		return err
	}

	fmt.Fprintf(r.opts.Out, "\nOpen this URL and approve access:\n\n  %s\n\n", url)
	if !cmd.Bool("no-browser") && r.opts.OpenBrowser != nil {
		if err := r.opts.OpenBrowser(url); err != nil {
			a.Logger.Debug("could not open browser", slog.String("error", err.Error()))
		}
	}

	code, err := r.prompt("Verification code: ")
	if err != nil {
		return err
	}

	res, err := authn.Complete(ctx, code)
	if err != nil {
		return err
	}

	fmt.Fprintf(r.opts.Out, "%s authorized", ok.Sprint("✓"))
	if res.Tokens.GUID != "" {
		fmt.Fprintf(r.opts.Out, " as %s", res.Tokens.GUID)
	}
	fmt.Fprintln(r.opts.Out)
	r.printTokens(res)
	r.printReport(res)

	return nil
}

func (r *runner) refreshCommand() *cli.Command {
	return &cli.Command{
		Name:  "refresh",
		Usage: "exchange the refresh token for a new access token",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "no-verify", Usage: "skip the test call with the new token"},
		},
		Action: r.refresh,
	}
}

func (r *runner) refresh(ctx context.Context, cmd *cli.Command) error {
	a, err := r.load(cmd)
	if err != nil {
		return err
	}
	rec, err := r.record(a)
	if err != nil {
		return err
	}

	res, err := a.Refresher().Refresh(ctx, rec)
	if err != nil {
		return err
	}

	fmt.Fprintf(r.opts.Out, "%s token refreshed\n", ok.Sprint("✓"))
	r.printTokens(res)

	if !cmd.Bool("no-verify") {
		guid, err := a.Yahoo.UserGUID(ctx, res.Tokens.AccessToken)
		if err != nil {
			fmt.Fprintf(r.opts.Out, "%s test call failed: %v\n", warn.Sprint("!"), err)
		} else {
			fmt.Fprintf(r.opts.Out, "%s test call succeeded for %s\n", ok.Sprint("✓"), guid)
		}
	}

	r.printReport(res)
	return nil
}

func (r *runner) syncCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "copy the current tokens into every host config",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Usage: "show the changes without writing"},
		},
		Action: r.sync,
	}
}

func (r *runner) sync(ctx context.Context, cmd *cli.Command) error {
	a, err := r.load(cmd)
	if err != nil {
		return err
	}
	rec, err := r.record(a)
	if err != nil {
		return err
	}
	if rec.AccessToken == "" {
		return fmt.Errorf("%w: %s is not set; run yahoo-fantasy-auth setup",
			apperrors.ErrConfigMissing, credentials.KeyAccessToken)
	}

	if cmd.Bool("dry-run") {
		for _, p := range a.Hosts.Preview(rec) {
			r.printOutcome(p.Target.Name, p.Target.Path, string(p.Outcome), p.Err)
			for _, line := range strings.Split(strings.TrimSuffix(p.Diff, "\n"), "\n") {
				switch {
				case strings.HasPrefix(line, "- "):
					fmt.Fprintln(r.opts.Out, "    "+bad.Sprint(line))
				case strings.HasPrefix(line, "+ "):
					fmt.Fprintln(r.opts.Out, "    "+ok.Sprint(line))
				}
			}
		}
		return nil
	}

	report := a.Hosts.Sync(ctx, rec)
	if err := a.State.SetLastSync(auth.SyncRecord(report, time.Now())); err != nil {
		a.Logger.Warn("could not record sync", slog.String("error", err.Error()))
	}
	r.printReport(&auth.Result{Report: report})

	return nil
}

func (r *runner) statusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "show credential and token state",
		Action: r.status,
	}
}

func (r *runner) status(_ context.Context, cmd *cli.Command) error {
	a, err := r.load(cmd)
	if err != nil {
		return err
	}
	rec, err := r.record(a)
	if err != nil {
		return err
	}

	out := r.opts.Out
	fmt.Fprintf(out, "credential file  %s\n", a.Store.Path())

	values := rec.Map()
	for _, k := range credentials.Keys {
		v, set := values[k]
		switch {
		case !set:
			fmt.Fprintf(out, "  %-22s %s\n", k, dim.Sprint("not set"))
		case k == credentials.KeyClientID || k == credentials.KeyGUID || k == credentials.KeyRedditUsername:
			fmt.Fprintf(out, "  %-22s %s\n", k, v)
		default:
			fmt.Fprintf(out, "  %-22s sha:%s\n", k, credentials.Fingerprint(v))
		}
	}

	lc, meta, err := a.Lifecycle(rec)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "token state      %s\n", lifecycleColor(lc).Sprint(string(lc)))
	if !meta.ExpiresAt.IsZero() {
		fmt.Fprintf(out, "expires          %s\n", meta.ExpiresAt.Local().Format(time.RFC1123))
	}
	if !meta.ObtainedAt.IsZero() {
		fmt.Fprintf(out, "obtained         %s via %s\n", meta.ObtainedAt.Local().Format(time.RFC1123), meta.Source)
	}
	switch lc {
	case auth.Unauthenticated:
		fmt.Fprintln(out, "next step        yahoo-fantasy-auth setup")
	case auth.AccessExpired:
		fmt.Fprintln(out, "next step        yahoo-fantasy-auth refresh")
	case auth.FullyExpired:
		fmt.Fprintln(out, "next step        yahoo-fantasy-auth reauth")
	}

	last, found, err := a.State.LastSync()
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintf(out, "last host sync   %s\n", dim.Sprint("never"))
		return nil
	}

	fmt.Fprintf(out, "last host sync   %s\n", last.At.Local().Format(time.RFC1123))
	for _, t := range last.Targets {
		var detail error
		if t.Detail != "" {
			detail = fmt.Errorf("%s", t.Detail)
		}
		r.printOutcome(t.Name, t.Path, t.Outcome, detail)
	}

	return nil
}

func keygenCommand() *cli.Command {
	return &cli.Command{
		Name:  "keygen",
		Usage: "generate an API key for the HTTP transport",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "user", Usage: "user ID the key belongs to", Value: "default"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			key, err := server.NewAPIKey()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.Root().Writer, key)
			fmt.Fprintf(cmd.Root().Writer, "\nAdd to YFF_API_KEYS:\n  %s:%s\n", cmd.String("user"), key)
			return nil
		},
	}
}

func promptLabel(name, current string) string {
	if current == "" {
		return name + ": "
	}
	return fmt.Sprintf("%s [keep %s]: ", name, mask(current))
}

// mask shows just enough of a value to recognize it.
func mask(v string) string {
	if len(v) <= 8 {
		return strings.Repeat("*", len(v))
	}
	return v[:4] + strings.Repeat("*", 4) + v[len(v)-4:]
}
