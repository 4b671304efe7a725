package credentials

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_FileOverridesEnvironment(t *testing.T) {
	s := writeEnv(t, "YAHOO_ACCESS_TOKEN=from-file\n")

	p, err := NewProvider(s, []string{
		"YAHOO_ACCESS_TOKEN=from-env",
		"YAHOO_CLIENT_ID=env-client",
		"UNRELATED=1",
	})
	require.NoError(t, err)

	rec := p.Current()
	assert.Equal(t, "from-file", rec.AccessToken)
	assert.Equal(t, "env-client", rec.ClientID)
}

func TestProvider_EmptyFileValueDoesNotMaskEnvironment(t *testing.T) {
	s := writeEnv(t, "YAHOO_CLIENT_SECRET=\n")

	p, err := NewProvider(s, []string{"YAHOO_CLIENT_SECRET=env-secret"})
	require.NoError(t, err)
	assert.Equal(t, "env-secret", p.Current().ClientSecret)
}

func TestProvider_ReloadPicksUpUpsert(t *testing.T) {
	s := writeEnv(t, "YAHOO_ACCESS_TOKEN=one\n")
	p, err := NewProvider(s, nil)
	require.NoError(t, err)

	_, err = s.Upsert(map[string]string{KeyAccessToken: "two"})
	require.NoError(t, err)
	assert.Equal(t, "one", p.Current().AccessToken)

	rec, err := p.Reload()
	require.NoError(t, err)
	assert.Equal(t, "two", rec.AccessToken)
	assert.Equal(t, "two", p.Current().AccessToken)
}

func TestProvider_MissingFileUsesEnvironment(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)

	p, err := NewProvider(s, []string{"YAHOO_REFRESH_TOKEN=r"})
	require.NoError(t, err)
	assert.Equal(t, "r", p.Current().RefreshToken)
}

func TestRecord_MapAndOverlay(t *testing.T) {
	base := Record{ClientID: "c", AccessToken: "a1"}
	top := Record{AccessToken: "a2", GUID: "g"}

	got := base.Overlay(top)
	assert.Equal(t, Record{ClientID: "c", AccessToken: "a2", GUID: "g"}, got)
	assert.Equal(t, map[string]string{KeyClientID: "c", KeyAccessToken: "a1"}, base.Map())
}

func TestFromMap_NilDoesNotReadProcessEnvironment(t *testing.T) {
	t.Setenv(KeyAccessToken, "process-token")

	rec, err := FromMap(nil)
	require.NoError(t, err)
	assert.Empty(t, rec.AccessToken)
}

func TestFingerprint(t *testing.T) {
	assert.Empty(t, Fingerprint(""))
	assert.Len(t, Fingerprint("secret"), 8)
	assert.Equal(t, Fingerprint("secret"), Fingerprint("secret"))
	assert.NotEqual(t, Fingerprint("secret"), Fingerprint("secret2"))
}

func TestWatch_ReloadsOnExternalRewrite(t *testing.T) {
	s := writeEnv(t, "YAHOO_ACCESS_TOKEN=before\n")
	p, err := NewProvider(s, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, p, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}()

	// Give the watcher a moment to register the directory.
	time.Sleep(100 * time.Millisecond)

	other, err := Open(s.Path())
	require.NoError(t, err)
	_, err = other.Upsert(map[string]string{KeyAccessToken: "after"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return p.Current().AccessToken == "after"
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

// startWatch runs Watch until the test ends and returns its result channel.
func startWatch(t *testing.T, p *Provider) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, p, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}()

	// Give the watcher a moment to register the directory.
	time.Sleep(100 * time.Millisecond)

	return cancel, done
}

func TestWatch_MissingDirectoryKeepsRunning(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "not", "yet", ".env"))
	require.NoError(t, err)
	p, err := NewProvider(s, nil)
	require.NoError(t, err)

	cancel, done := startWatch(t, p)

	select {
	case err := <-done:
		t.Fatalf("watcher exited early: %v", err)
	default:
	}

	_, err = s.Upsert(map[string]string{KeyAccessToken: "created"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return p.Current().AccessToken == "created"
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatch_FollowsSymlinkTarget(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated privileges on windows")
	}

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "dotfiles"), 0o700))
	dotfile := filepath.Join(dir, "dotfiles", "yahoo.env")
	require.NoError(t, os.WriteFile(dotfile, []byte("YAHOO_ACCESS_TOKEN=before\n"), 0o600))

	linkDir := filepath.Join(dir, "app")
	require.NoError(t, os.MkdirAll(linkDir, 0o700))
	link := filepath.Join(linkDir, ".env")
	require.NoError(t, os.Symlink(dotfile, link))

	s, err := Open(link)
	require.NoError(t, err)
	p, err := NewProvider(s, nil)
	require.NoError(t, err)

	startWatch(t, p)

	// A dotfile manager rewrites the target directly.
	direct, err := Open(dotfile)
	require.NoError(t, err)
	_, err = direct.Upsert(map[string]string{KeyAccessToken: "after"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return p.Current().AccessToken == "after"
	}, 3*time.Second, 20*time.Millisecond)
}
