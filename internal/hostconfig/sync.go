package hostconfig

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/credentials"
	apperrors "github.com/alexjbarnes/yahoo-fantasy-mcp/internal/errors"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/fsutil"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Outcome is the result of syncing a single target.
type Outcome string

const (
	OutcomeUpdated   Outcome = "updated"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

// Result is the per-target sync outcome. Servers lists the matching
// mcpServers entries that were considered. Err is set for skipped and
// failed targets.
type Result struct {
	Target  Target
	Outcome Outcome
	Servers []string
	Err     error
}

// Report collects the results of one Sync call, in target order.
type Report struct {
	Results []Result
}

// Count returns the number of results with the given outcome.
func (r Report) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// alwaysWritten keys are set in a matching env map even when absent.
// Every other credential key is only overwritten when already present.
var alwaysWritten = map[string]bool{
	credentials.KeyAccessToken:  true,
	credentials.KeyRefreshToken: true,
	credentials.KeyGUID:         true,
}

// defaultPerm is only used if a target disappears between read and write.
const defaultPerm = fs.FileMode(0o600)

// Synchronizer writes credential values into the env map of matching
// mcpServers entries across a fixed set of host config files.
type Synchronizer struct {
	targets []Target
	names   []string
	logger  *slog.Logger
}

// New returns a Synchronizer. Duplicate and empty server names are
// dropped; an empty list falls back to DefaultServerNames.
func New(targets []Target, serverNames []string, logger *slog.Logger) *Synchronizer {
	seen := make(map[string]bool, len(serverNames))
	names := make([]string, 0, len(serverNames))
	for _, n := range serverNames {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		names = append(names, n)
	}
	if len(names) == 0 {
		names = append(names, DefaultServerNames...)
	}

	return &Synchronizer{targets: targets, names: names, logger: logger}
}

// Targets returns the configured targets.
func (s *Synchronizer) Targets() []Target {
	return s.targets
}

// Sync updates every target with the values in rec. Targets are processed
// independently; a failure in one never prevents the others.
func (s *Synchronizer) Sync(ctx context.Context, rec credentials.Record) Report {
	report := Report{Results: make([]Result, 0, len(s.targets))}

	for _, t := range s.targets {
		if err := ctx.Err(); err != nil {
			report.Results = append(report.Results, Result{Target: t, Outcome: OutcomeFailed, Err: err})
			continue
		}

		res := s.syncTarget(t, rec)
		s.log(res)
		report.Results = append(report.Results, res)
	}

	return report
}

func (s *Synchronizer) syncTarget(t Target, rec credentials.Record) Result {
	p := s.plan(t, rec)
	if p.err != nil {
		return Result{Target: t, Outcome: OutcomeSkipped, Servers: p.servers, Err: p.err}
	}

	if bytes.Equal(p.before, p.after) {
		return Result{Target: t, Outcome: OutcomeUnchanged, Servers: p.servers}
	}

	if err := fsutil.WriteFileAtomic(t.Path, p.after, defaultPerm); err != nil {
		return Result{Target: t, Outcome: OutcomeFailed, Servers: p.servers, Err: err}
	}

	return Result{Target: t, Outcome: OutcomeUpdated, Servers: p.servers}
}

func (s *Synchronizer) log(res Result) {
	attrs := []any{
		slog.String("target", res.Target.Name),
		slog.String("path", res.Target.Path),
		slog.String("outcome", string(res.Outcome)),
	}
	if len(res.Servers) > 0 {
		attrs = append(attrs, slog.String("servers", strings.Join(res.Servers, ",")))
	}

	switch res.Outcome {
	case OutcomeFailed:
		s.logger.Warn("host config sync failed", append(attrs, slog.String("error", res.Err.Error()))...)
	case OutcomeSkipped:
		s.logger.Debug("host config skipped", append(attrs, slog.String("reason", res.Err.Error()))...)
	default:
		s.logger.Info("host config synced", attrs...)
	}
}

// plan is the computed edit for one target.
type plan struct {
	before  []byte
	after   []byte
	servers []string
	err     error
}

func (s *Synchronizer) plan(t Target, rec credentials.Record) plan {
	data, err := os.ReadFile(t.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return plan{err: fmt.Errorf("%w: %s not found", apperrors.ErrHostConfigUnavailable, t.Path)}
		}
		return plan{err: fmt.Errorf("%w: %w", apperrors.ErrHostConfigUnavailable, err)}
	}

	out, servers, err := s.apply(data, rec)
	if err != nil {
		return plan{before: data, servers: servers, err: err}
	}

	return plan{before: data, after: out, servers: servers}
}

// apply returns data with the credential values set in every matching
// entry. Bytes outside the edited values are left as they were.
func (s *Synchronizer) apply(data []byte, rec credentials.Record) ([]byte, []string, error) {
	if !gjson.ValidBytes(data) {
		return nil, nil, fmt.Errorf("%w: invalid JSON", apperrors.ErrHostConfigUnavailable)
	}

	servers := gjson.GetBytes(data, "mcpServers")
	if !servers.IsObject() {
		return nil, nil, fmt.Errorf("%w: no mcpServers object", apperrors.ErrHostConfigUnavailable)
	}

	values := rec.Map()
	out := data
	matched := make([]string, 0, len(s.names))

	for _, name := range s.names {
		entry := servers.Get(escapeComponent(name))
		if !entry.Exists() {
			continue
		}
		if !entry.IsObject() {
			s.logger.Warn("skipping non-object server entry", slog.String("server", name))
			continue
		}

		envMap := entry.Get("env")
		if envMap.Exists() && !envMap.IsObject() {
			s.logger.Warn("skipping server entry with non-object env", slog.String("server", name))
			continue
		}

		matched = append(matched, name)

		for _, key := range credentials.Keys {
			v, ok := values[key]
			if !ok {
				continue
			}

			cur := envMap.Get(escapeComponent(key))
			if !cur.Exists() && !alwaysWritten[key] {
				continue
			}
			if cur.Type == gjson.String && cur.Str == v {
				continue
			}

			path := "mcpServers." + escapeComponent(name) + ".env." + escapeComponent(key)

			var err error
			out, err = sjson.SetBytes(out, path, v)
			if err != nil {
				return nil, matched, fmt.Errorf("setting %s: %w", path, err)
			}
		}
	}

	if len(matched) == 0 {
		return nil, matched, fmt.Errorf("%w: no matching server entry", apperrors.ErrHostConfigUnavailable)
	}

	return out, matched, nil
}

// escapeComponent escapes characters that gjson and sjson treat as path
// syntax so the name is matched literally.
func escapeComponent(s string) string {
	if !strings.ContainsAny(s, `.*?\|#@!=<>%`) {
		return s
	}

	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`.*?\|#@!=<>%`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
