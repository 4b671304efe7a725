package authcli

import (
	"fmt"
	"time"

	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/auth"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/credentials"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/hostconfig"
	"github.com/fatih/color"
)

var (
	ok   = color.New(color.FgGreen)
	warn = color.New(color.FgYellow)
	bad  = color.New(color.FgRed)
	dim  = color.New(color.Faint)
)

func lifecycleColor(lc auth.LifecycleState) *color.Color {
	switch lc {
	case auth.Authenticated:
		return ok
	case auth.AccessExpired:
		return warn
	default:
		return bad
	}
}

func outcomeColor(outcome string) *color.Color {
	switch hostconfig.Outcome(outcome) {
	case hostconfig.OutcomeUpdated, hostconfig.OutcomeUnchanged:
		return ok
	case hostconfig.OutcomeSkipped:
		return warn
	default:
		return bad
	}
}

// printTokens shows fingerprints of the new tokens, never the values.
func (r *runner) printTokens(res *auth.Result) {
	t := res.Tokens
	fmt.Fprintf(r.opts.Out, "  access token   sha:%s\n", credentials.Fingerprint(t.AccessToken))
	fmt.Fprintf(r.opts.Out, "  refresh token  sha:%s", credentials.Fingerprint(t.RefreshToken))
	if res.Rotated {
		fmt.Fprint(r.opts.Out, " (rotated)")
	}
	fmt.Fprintln(r.opts.Out)
	if !t.ExpiresAt.IsZero() {
		fmt.Fprintf(r.opts.Out, "  expires        %s\n", t.ExpiresAt.Local().Format(time.RFC1123))
	}
}

func (r *runner) printReport(res *auth.Result) {
	results := res.Report.Results
	if len(results) == 0 {
		return
	}
	fmt.Fprintln(r.opts.Out, "host configs:")
	for _, hr := range results {
		r.printOutcome(hr.Target.Name, hr.Target.Path, string(hr.Outcome), hr.Err)
	}
}

func (r *runner) printOutcome(name, path, outcome string, err error) {
	fmt.Fprintf(r.opts.Out, "  %-15s %s  %s\n", name, outcomeColor(outcome).Sprintf("%-9s", outcome), path)
	if err != nil {
		fmt.Fprintf(r.opts.Out, "  %-15s %s\n", "", dim.Sprint(err.Error()))
	}
}
