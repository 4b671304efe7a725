package hostconfig

import (
	"bytes"
	"strings"

	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/credentials"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Preview is the would-be change for one target. Diff holds the changed
// lines prefixed with "-" and "+", with every credential value replaced
// by its fingerprint.
type Preview struct {
	Target  Target
	Outcome Outcome
	Servers []string
	Diff    string
	Err     error
}

// Preview computes what Sync would do without writing anything.
func (s *Synchronizer) Preview(rec credentials.Record) []Preview {
	out := make([]Preview, 0, len(s.targets))

	for _, t := range s.targets {
		p := s.plan(t, rec)
		pv := Preview{Target: t, Servers: p.servers, Err: p.err}

		switch {
		case p.err != nil:
			pv.Outcome = OutcomeSkipped
		case bytes.Equal(p.before, p.after):
			pv.Outcome = OutcomeUnchanged
		default:
			pv.Outcome = OutcomeUpdated
			pv.Diff = lineDiff(s.redact(p.before, p.servers), s.redact(p.after, p.servers))
		}

		out = append(out, pv)
	}

	return out
}

// redact replaces every credential value in the matched env maps with
// "sha:" plus its fingerprint.
func (s *Synchronizer) redact(data []byte, servers []string) string {
	out := data
	for _, name := range servers {
		envPath := "mcpServers." + escapeComponent(name) + ".env"
		envMap := gjson.GetBytes(data, envPath)
		if !envMap.IsObject() {
			continue
		}

		for _, key := range credentials.Keys {
			cur := envMap.Get(escapeComponent(key))
			if cur.Type != gjson.String {
				continue
			}
			redacted, err := sjson.SetBytes(out, envPath+"."+escapeComponent(key), "sha:"+credentials.Fingerprint(cur.Str))
			if err == nil {
				out = redacted
			}
		}
	}
	return string(out)
}

// lineDiff renders the changed lines between a and b.
func lineDiff(a, b string) string {
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		default:
			continue
		}

		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(strings.TrimRight(line, "\r\n"))
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
