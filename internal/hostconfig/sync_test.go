package hostconfig

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/credentials"
	apperrors "github.com/alexjbarnes/yahoo-fantasy-mcp/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const claudeConfig = `{
  "globalShortcut": "Ctrl+Space",
  "mcpServers": {
    "filesystem": {
      "command": "npx",
      "args": ["-y", "@modelcontextprotocol/server-filesystem", "/tmp"],
      "env": {"YAHOO_ACCESS_TOKEN": "not-ours"}
    },
    "fantasy-football": {
      "command": "yahoo-fantasy-mcp",
      "env": {
        "YAHOO_CLIENT_ID": "cid-old",
        "YAHOO_ACCESS_TOKEN": "old",
        "YAHOO_REFRESH_TOKEN": "r0",
        "EXTRA": "keep"
      }
    }
  }
}
`

func writeConfig(t *testing.T, dir, name, content string) Target {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return Target{Name: name, Path: path}
}

func newRecord() credentials.Record {
	return credentials.Record{
		ClientID:     "cid-new",
		ClientSecret: "secret",
		AccessToken:  "new-access",
		RefreshToken: "r1",
		GUID:         "GUID123",
	}
}

func TestSync_UpdatesMatchingEntry(t *testing.T) {
	dir := t.TempDir()
	target := writeConfig(t, dir, "claude.json", claudeConfig)
	s := New([]Target{target}, nil, testLogger())

	report := s.Sync(context.Background(), newRecord())

	require.Len(t, report.Results, 1)
	res := report.Results[0]
	require.NoError(t, res.Err)
	assert.Equal(t, OutcomeUpdated, res.Outcome)
	assert.Equal(t, []string{"fantasy-football"}, res.Servers)

	data, err := os.ReadFile(target.Path)
	require.NoError(t, err)
	require.True(t, gjson.ValidBytes(data))

	env := gjson.GetBytes(data, "mcpServers.fantasy-football.env")
	assert.Equal(t, "new-access", env.Get("YAHOO_ACCESS_TOKEN").String())
	assert.Equal(t, "r1", env.Get("YAHOO_REFRESH_TOKEN").String())
	assert.Equal(t, "GUID123", env.Get("YAHOO_GUID").String())
	assert.Equal(t, "cid-new", env.Get("YAHOO_CLIENT_ID").String())
	assert.Equal(t, "keep", env.Get("EXTRA").String())
	assert.False(t, env.Get("YAHOO_CLIENT_SECRET").Exists(), "keys absent from env are not added")
}

func TestSync_UnrelatedContentByteIdentical(t *testing.T) {
	dir := t.TempDir()
	target := writeConfig(t, dir, "claude.json", claudeConfig)
	s := New([]Target{target}, nil, testLogger())

	s.Sync(context.Background(), newRecord())

	data, err := os.ReadFile(target.Path)
	require.NoError(t, err)

	before := gjson.Get(claudeConfig, "mcpServers.filesystem").Raw
	after := gjson.GetBytes(data, "mcpServers.filesystem").Raw
	assert.Equal(t, before, after)

	prefix := claudeConfig[:strings.Index(claudeConfig, `"fantasy-football"`)]
	assert.True(t, strings.HasPrefix(string(data), prefix))
	assert.Equal(t, "yahoo-fantasy-mcp", gjson.GetBytes(data, "mcpServers.fantasy-football.command").String())
}

func TestSync_KeepsFileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}

	dir := t.TempDir()
	target := writeConfig(t, dir, "claude.json", claudeConfig)
	s := New([]Target{target}, nil, testLogger())

	s.Sync(context.Background(), newRecord())

	info, err := os.Stat(target.Path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestSync_UpdatesBothNames(t *testing.T) {
	dir := t.TempDir()
	target := writeConfig(t, dir, "cursor.json", `{"mcpServers":{
  "fantasy-football":{"env":{"YAHOO_ACCESS_TOKEN":"a"}},
  "yahoo-fantasy-football":{"env":{"YAHOO_ACCESS_TOKEN":"b"}}
}}`)
	s := New([]Target{target}, nil, testLogger())

	report := s.Sync(context.Background(), newRecord())

	res := report.Results[0]
	assert.Equal(t, OutcomeUpdated, res.Outcome)
	assert.ElementsMatch(t, []string{"fantasy-football", "yahoo-fantasy-football"}, res.Servers)

	data, err := os.ReadFile(target.Path)
	require.NoError(t, err)
	assert.Equal(t, "new-access", gjson.GetBytes(data, "mcpServers.fantasy-football.env.YAHOO_ACCESS_TOKEN").String())
	assert.Equal(t, "new-access", gjson.GetBytes(data, "mcpServers.yahoo-fantasy-football.env.YAHOO_ACCESS_TOKEN").String())
}

func TestSync_CreatesMissingEnv(t *testing.T) {
	dir := t.TempDir()
	target := writeConfig(t, dir, "ag.json", `{"mcpServers":{"fantasy-football":{"command":"x"}}}`)
	s := New([]Target{target}, nil, testLogger())

	report := s.Sync(context.Background(), newRecord())
	assert.Equal(t, OutcomeUpdated, report.Results[0].Outcome)

	data, err := os.ReadFile(target.Path)
	require.NoError(t, err)
	env := gjson.GetBytes(data, "mcpServers.fantasy-football.env")
	require.True(t, env.IsObject())
	assert.Equal(t, "new-access", env.Get("YAHOO_ACCESS_TOKEN").String())
	assert.Equal(t, "r1", env.Get("YAHOO_REFRESH_TOKEN").String())
	assert.False(t, env.Get("YAHOO_CLIENT_ID").Exists())
	assert.Equal(t, "x", gjson.GetBytes(data, "mcpServers.fantasy-football.command").String())
}

func TestSync_MissingFileSkipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.json")
	s := New([]Target{{Name: "Cursor", Path: path}}, nil, testLogger())

	report := s.Sync(context.Background(), newRecord())

	res := report.Results[0]
	assert.Equal(t, OutcomeSkipped, res.Outcome)
	assert.ErrorIs(t, res.Err, apperrors.ErrHostConfigUnavailable)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "sync never creates host config files")
}

func TestSync_InvalidJSONSkipped(t *testing.T) {
	dir := t.TempDir()
	content := `{"mcpServers": {"fantasy-football": `
	target := writeConfig(t, dir, "broken.json", content)
	s := New([]Target{target}, nil, testLogger())

	report := s.Sync(context.Background(), newRecord())

	res := report.Results[0]
	assert.Equal(t, OutcomeSkipped, res.Outcome)
	assert.ErrorIs(t, res.Err, apperrors.ErrHostConfigUnavailable)

	data, err := os.ReadFile(target.Path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestSync_NoMatchingEntrySkipped(t *testing.T) {
	dir := t.TempDir()
	content := `{"mcpServers":{"other":{"env":{"YAHOO_ACCESS_TOKEN":"x"}}}}`
	target := writeConfig(t, dir, "c.json", content)
	s := New([]Target{target}, nil, testLogger())

	report := s.Sync(context.Background(), newRecord())

	assert.Equal(t, OutcomeSkipped, report.Results[0].Outcome)
	assert.ErrorIs(t, report.Results[0].Err, apperrors.ErrHostConfigUnavailable)

	data, err := os.ReadFile(target.Path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestSync_NonObjectEnvSkipsOnlyThatEntry(t *testing.T) {
	dir := t.TempDir()
	target := writeConfig(t, dir, "c.json", `{"mcpServers":{
  "fantasy-football":{"env":"oops"},
  "yahoo-fantasy-football":{"env":{}}
}}`)
	s := New([]Target{target}, nil, testLogger())

	report := s.Sync(context.Background(), newRecord())

	res := report.Results[0]
	assert.Equal(t, OutcomeUpdated, res.Outcome)
	assert.Equal(t, []string{"yahoo-fantasy-football"}, res.Servers)

	data, err := os.ReadFile(target.Path)
	require.NoError(t, err)
	assert.Equal(t, "oops", gjson.GetBytes(data, "mcpServers.fantasy-football.env").String())
	assert.Equal(t, "new-access", gjson.GetBytes(data, "mcpServers.yahoo-fantasy-football.env.YAHOO_ACCESS_TOKEN").String())
}

func TestSync_Idempotent(t *testing.T) {
	dir := t.TempDir()
	target := writeConfig(t, dir, "claude.json", claudeConfig)
	s := New([]Target{target}, nil, testLogger())

	first := s.Sync(context.Background(), newRecord())
	require.Equal(t, OutcomeUpdated, first.Results[0].Outcome)

	after, err := os.ReadFile(target.Path)
	require.NoError(t, err)

	second := s.Sync(context.Background(), newRecord())
	assert.Equal(t, OutcomeUnchanged, second.Results[0].Outcome)

	again, err := os.ReadFile(target.Path)
	require.NoError(t, err)
	assert.Equal(t, string(after), string(again))
}

func TestSync_OneTargetFailureDoesNotStopOthers(t *testing.T) {
	dir := t.TempDir()
	missing := Target{Name: "Claude Desktop", Path: filepath.Join(dir, "missing.json")}
	broken := writeConfig(t, dir, "broken.json", "not json")
	good := writeConfig(t, dir, "good.json", claudeConfig)
	s := New([]Target{missing, broken, good}, nil, testLogger())

	report := s.Sync(context.Background(), newRecord())

	require.Len(t, report.Results, 3)
	assert.Equal(t, OutcomeSkipped, report.Results[0].Outcome)
	assert.Equal(t, OutcomeSkipped, report.Results[1].Outcome)
	assert.Equal(t, OutcomeUpdated, report.Results[2].Outcome)
	assert.Equal(t, 2, report.Count(OutcomeSkipped))
	assert.Equal(t, 1, report.Count(OutcomeUpdated))
}

func TestSync_SymlinkedConfigUpdatesTarget(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated privileges on windows")
	}

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "dotfiles"), 0o700))
	dotfile := filepath.Join(dir, "dotfiles", "claude.json")
	require.NoError(t, os.WriteFile(dotfile, []byte(claudeConfig), 0o644))

	link := filepath.Join(dir, "claude_desktop_config.json")
	require.NoError(t, os.Symlink(dotfile, link))

	s := New([]Target{{Name: "Claude Desktop", Path: link}}, nil, testLogger())
	report := s.Sync(context.Background(), newRecord())

	require.Len(t, report.Results, 1)
	assert.Equal(t, OutcomeUpdated, report.Results[0].Outcome)

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink, "link must stay a symlink")

	data, err := os.ReadFile(dotfile)
	require.NoError(t, err)
	assert.Equal(t, "new-access", gjson.GetBytes(data, "mcpServers.fantasy-football.env.YAHOO_ACCESS_TOKEN").String())
}

func TestSync_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	target := writeConfig(t, dir, "claude.json", claudeConfig)
	s := New([]Target{target}, nil, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := s.Sync(ctx, newRecord())
	assert.Equal(t, OutcomeFailed, report.Results[0].Outcome)
	assert.ErrorIs(t, report.Results[0].Err, context.Canceled)

	data, err := os.ReadFile(target.Path)
	require.NoError(t, err)
	assert.Equal(t, claudeConfig, string(data))
}

func TestSync_CustomServerNames(t *testing.T) {
	dir := t.TempDir()
	target := writeConfig(t, dir, "c.json", `{"mcpServers":{"my.ff":{"env":{}}}}`)
	s := New([]Target{target}, []string{"my.ff"}, testLogger())

	report := s.Sync(context.Background(), newRecord())
	require.Equal(t, OutcomeUpdated, report.Results[0].Outcome)

	data, err := os.ReadFile(target.Path)
	require.NoError(t, err)
	assert.Equal(t, "new-access", gjson.GetBytes(data, `mcpServers.my\.ff.env.YAHOO_ACCESS_TOKEN`).String())
}

func TestNew_DedupesNames(t *testing.T) {
	s := New(nil, []string{" fantasy-football", "fantasy-football", ""}, testLogger())
	assert.Equal(t, []string{"fantasy-football"}, s.names)

	s = New(nil, nil, testLogger())
	assert.Equal(t, DefaultServerNames, s.names)
}

func TestEscapeComponent(t *testing.T) {
	assert.Equal(t, "fantasy-football", escapeComponent("fantasy-football"))
	assert.Equal(t, `a\.b`, escapeComponent("a.b"))
	assert.Equal(t, `x\*y\?`, escapeComponent("x*y?"))
}

func TestDefaultTargets(t *testing.T) {
	tests := []struct {
		goos    string
		appData string
		claude  string
	}{
		{"darwin", "", filepath.Join("/home/u", "Library", "Application Support", "Claude", "claude_desktop_config.json")},
		{"linux", "", filepath.Join("/home/u", ".config", "Claude", "claude_desktop_config.json")},
		{"windows", "/appdata", filepath.Join("/appdata", "Claude", "claude_desktop_config.json")},
		{"windows", "", filepath.Join("/home/u", "AppData", "Roaming", "Claude", "claude_desktop_config.json")},
	}

	for _, tt := range tests {
		t.Run(tt.goos+tt.appData, func(t *testing.T) {
			targets := DefaultTargets(tt.goos, "/home/u", tt.appData)
			require.Len(t, targets, 3)
			assert.Equal(t, "Claude Desktop", targets[0].Name)
			assert.Equal(t, tt.claude, targets[0].Path)
			assert.Equal(t, filepath.Join("/home/u", ".cursor", "mcp.json"), targets[1].Path)
			assert.Equal(t, filepath.Join("/home/u", ".gemini", "antigravity", "mcp_config.json"), targets[2].Path)
		})
	}
}
