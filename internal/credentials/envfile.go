package credentials

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

var validKey = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// line is one assignment, comment, or blank line of the credential file.
// An assignment whose quoted value spans several physical lines is kept as
// one line with the inner terminators in raw. raw excludes the final line
// terminator, which is kept separately so CRLF files stay CRLF.
type line struct {
	raw string
	eol string
	key string
}

// document is a line-indexed view of a credential file. Updates address
// lines by index, never by text search.
type document struct {
	lines []line
}

func parseDocument(data []byte) *document {
	doc := &document{}
	s := string(data)

	for len(s) > 0 {
		var raw, eol string
		raw, eol, s = nextLine(s)

		l := line{raw: raw, eol: eol, key: lineKey(raw)}

		// Keep consuming until the quote opened by the value closes, so
		// KEY= text inside a multi-line value is never taken as a key.
		if l.key != "" {
			for openQuote(l.raw) && len(s) > 0 {
				raw, eol, s = nextLine(s)
				l.raw += l.eol + raw
				l.eol = eol
			}
		}

		doc.lines = append(doc.lines, l)
	}

	return doc
}

// nextLine splits the first physical line off s.
func nextLine(s string) (raw, eol, rest string) {
	idx := strings.IndexByte(s, '\n')
	if idx < 0 {
		return s, "", ""
	}

	raw, rest = s[:idx], s[idx+1:]
	if strings.HasSuffix(raw, "\r") {
		return raw[:len(raw)-1], "\r\n", rest
	}

	return raw, "\n", rest
}

// openQuote reports whether the value of an assignment starts with a quote
// that is not closed yet. A quote preceded by a backslash does not close
// the value, the same rule the dotenv loader applies.
func openQuote(raw string) bool {
	v := strings.TrimLeft(raw[strings.IndexByte(raw, '=')+1:], " \t")
	if v == "" || (v[0] != '"' && v[0] != '\'') {
		return false
	}

	for i := 1; i < len(v); i++ {
		if v[i] == v[0] && v[i-1] != '\\' {
			return false
		}
	}

	return true
}

// lineKey returns the assigned key of a KEY=VALUE line, or "" for
// comments, blanks, and anything that does not parse as an assignment.
func lineKey(raw string) string {
	s := strings.TrimLeft(raw, " \t")
	if s == "" || s[0] == '#' {
		return ""
	}

	if rest, ok := strings.CutPrefix(s, "export "); ok {
		s = strings.TrimLeft(rest, " \t")
	}

	idx := strings.IndexByte(s, '=')
	if idx <= 0 {
		return ""
	}

	key := strings.TrimSpace(s[:idx])
	if !validKey.MatchString(key) {
		return ""
	}

	return key
}

// value decodes the current value of an assignment line the same way the
// loader does.
func (l line) value() (string, bool) {
	m, err := godotenv.Unmarshal(l.raw)
	if err != nil {
		return "", false
	}
	v, ok := m[l.key]
	return v, ok
}

// withValue rewrites the value part of an assignment line, keeping the
// indentation, export prefix, and spacing around '='.
func (l line) withValue(v string) line {
	end := strings.IndexByte(l.raw, '=') + 1
	for end < len(l.raw) && (l.raw[end] == ' ' || l.raw[end] == '\t') {
		end++
	}
	l.raw = l.raw[:end] + formatValue(v)
	return l
}

func (d *document) defaultEOL() string {
	for _, l := range d.lines {
		if l.eol != "" {
			return l.eol
		}
	}
	return "\n"
}

// upsert applies changes and reports whether any line changed. Existing
// keys are updated on their last occurrence, the one dotenv loaders keep.
// New keys are appended in canonical order.
func (d *document) upsert(changes map[string]string) (bool, error) {
	for key := range changes {
		if !validKey.MatchString(key) {
			return false, fmt.Errorf("invalid credential key %q", key)
		}
	}

	last := make(map[string]int)
	for i, l := range d.lines {
		if l.key != "" {
			last[l.key] = i
		}
	}

	changed := false

	for _, key := range orderedKeys(changes) {
		v := changes[key]

		if i, ok := last[key]; ok {
			if cur, ok := d.lines[i].value(); ok && cur == v {
				continue
			}
			d.lines[i] = d.lines[i].withValue(v)
			changed = true

			continue
		}

		eol := d.defaultEOL()
		if n := len(d.lines); n > 0 && d.lines[n-1].eol == "" {
			d.lines[n-1].eol = eol
		}

		d.lines = append(d.lines, line{raw: key + "=" + formatValue(v), eol: eol, key: key})
		last[key] = len(d.lines) - 1
		changed = true
	}

	if changed {
		if err := d.verify(changes); err != nil {
			return false, err
		}
	}

	return changed, nil
}

// verify decodes the updated document the way Store.Read does and checks
// that every changed key reads back as written.
func (d *document) verify(changes map[string]string) error {
	m, err := godotenv.Unmarshal(string(d.bytes()))
	if err != nil {
		return fmt.Errorf("credential file does not parse after update: %w", err)
	}

	for _, key := range orderedKeys(changes) {
		if got, ok := m[key]; !ok || got != changes[key] {
			return fmt.Errorf("credential key %s does not read back as written", key)
		}
	}

	return nil
}

func (d *document) bytes() []byte {
	var b strings.Builder
	for _, l := range d.lines {
		b.WriteString(l.raw)
		b.WriteString(l.eol)
	}
	return []byte(b.String())
}

// orderedKeys sorts managed keys in canonical order, then any other keys
// alphabetically, so repeated upserts append identically.
func orderedKeys(changes map[string]string) []string {
	rank := make(map[string]int, len(Keys))
	for i, k := range Keys {
		rank[k] = i
	}

	keys := make([]string, 0, len(changes))
	for k := range changes {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		ri, iok := rank[keys[i]]
		rj, jok := rank[keys[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return keys[i] < keys[j]
		}
	})

	return keys
}

func isSafeValueByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("-._~+/=:@%,", c) >= 0
}

// formatValue writes token-like values bare and double-quotes anything
// else with the escapes godotenv understands.
func formatValue(v string) string {
	safe := true
	for i := 0; i < len(v); i++ {
		if !isSafeValueByte(v[i]) {
			safe = false
			break
		}
	}
	if safe {
		return v
	}

	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"$", `\$`,
	)
	return `"` + r.Replace(v) + `"`
}
