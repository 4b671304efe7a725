package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearConfigEnv unsets all config env vars so tests start clean.
func clearConfigEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"YFF_ENV_FILE",
		"ENVIRONMENT",
		"LOG_LEVEL",
		"YFF_STATE_PATH",
		"YFF_HTTP_TIMEOUT",
		"YFF_RETRY_MAX_TRIES",
		"YFF_RETRY_INITIAL_INTERVAL",
		"YFF_API_RATE",
		"YFF_SERVER_NAMES",
		"YFF_LISTEN_ADDR",
		"YFF_API_KEYS",
		"YFF_SUBREDDIT",
		"YAHOO_CLIENT_ID",
		"YAHOO_ACCESS_TOKEN",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func missingEnvFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "absent.env")
}

const validKey = "yff_0123456789abcdef0123456789abcdef"

// --- Load ---

func TestLoad_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, uint(3), cfg.RetryMaxTries)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryInitialInterval)
	assert.InDelta(t, 4.0, cfg.APIRate, 0.001)
	assert.Equal(t, []string{"fantasy-football", "yahoo-fantasy-football"}, cfg.ServerNames)
	assert.Empty(t, cfg.ListenAddr)
	assert.Equal(t, "fantasyfootball", cfg.Subreddit)
	assert.True(t, filepath.IsAbs(cfg.EnvFile))
	assert.Contains(t, cfg.StatePath, filepath.Join(".yahoo-fantasy-mcp", "state.db"))
}

func TestLoad_DefaultEnvFileUnderHome(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("home directory comes from USERPROFILE on windows")
	}

	clearConfigEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".yahoo-fantasy-mcp", ".env"), cfg.EnvFile)
	assert.Equal(t, filepath.Join(home, ".yahoo-fantasy-mcp", "state.db"), cfg.StatePath)
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "creds.env")
	require.NoError(t, os.WriteFile(path, []byte("YAHOO_CLIENT_ID=abc\nLOG_LEVEL=debug\nYFF_SERVER_NAMES=a,b\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.EnvFile)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"a", "b"}, cfg.ServerNames)
	assert.Equal(t, "abc", os.Getenv("YAHOO_CLIENT_ID"))
}

func TestLoad_EnvFileDoesNotOverrideEnvironment(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("LOG_LEVEL", "warn")
	path := filepath.Join(t.TempDir(), "creds.env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=debug\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_EnvFileFromVariable(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "from-var.env")
	t.Setenv("YFF_ENV_FILE", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, path, cfg.EnvFile)
}

func TestLoad_RelativeEnvFileResolved(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load("relative.env")
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "relative.env"), cfg.EnvFile)
}

func TestLoad_CustomValues(t *testing.T) {
	clearConfigEnv(t)
	statePath := filepath.Join(t.TempDir(), "s.db")
	t.Setenv("YFF_STATE_PATH", statePath)
	t.Setenv("YFF_HTTP_TIMEOUT", "5s")
	t.Setenv("YFF_RETRY_MAX_TRIES", "7")
	t.Setenv("YFF_RETRY_INITIAL_INTERVAL", "1s")
	t.Setenv("YFF_API_RATE", "0.5")
	t.Setenv("YFF_SUBREDDIT", "fantasy")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, statePath, cfg.StatePath)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, uint(7), cfg.RetryMaxTries)
	assert.InDelta(t, 0.5, cfg.APIRate, 0.001)
	assert.Equal(t, "fantasy", cfg.Subreddit)
	assert.True(t, cfg.IsProduction())

	p := cfg.RetryPolicy()
	assert.Equal(t, uint(7), p.MaxTries)
	assert.Equal(t, time.Second, p.InitialInterval)
}

func TestLoad_InvalidDuration(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("YFF_HTTP_TIMEOUT", "soon")

	_, err := Load(missingEnvFile(t))
	assert.Error(t, err)
}

func TestLoad_ListenAddrRequiresAPIKeys(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("YFF_LISTEN_ADDR", ":8090")

	_, err := Load(missingEnvFile(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YFF_API_KEYS")

	t.Setenv("YFF_API_KEYS", "alex:"+validKey)
	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, ":8090", cfg.ListenAddr)
}

func TestValidate(t *testing.T) {
	base := Config{HTTPTimeout: time.Second, RetryMaxTries: 1, APIRate: 1}
	require.NoError(t, base.validate())

	c := base
	c.HTTPTimeout = 0
	assert.Error(t, c.validate())

	c = base
	c.RetryMaxTries = 0
	assert.Error(t, c.validate())

	c = base
	c.APIRate = 0
	assert.Error(t, c.validate())
}

func TestIsProduction_False(t *testing.T) {
	cfg := &Config{Environment: "development"}
	assert.False(t, cfg.IsProduction())
}

// --- ParseAPIKeys ---

func TestParseAPIKeys_Valid(t *testing.T) {
	cfg := &Config{APIKeys: "alex:" + validKey + ", sam:yff_ffffffffffffffffffffffffffffffff"}
	keys, err := cfg.ParseAPIKeys()
	require.NoError(t, err)
	assert.Equal(t, []server.APIKey{
		{UserID: "alex", Key: validKey},
		{UserID: "sam", Key: "yff_ffffffffffffffffffffffffffffffff"},
	}, keys)
}

func TestParseAPIKeys_Empty(t *testing.T) {
	cfg := &Config{}
	keys, err := cfg.ParseAPIKeys()
	require.NoError(t, err)
	assert.Nil(t, keys)
}

func TestParseAPIKeys_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"missing colon", validKey},
		{"empty user", ":" + validKey},
		{"wrong prefix", "alex:vs_0123456789abcdef0123456789abcdef"},
		{"too short", "alex:yff_abc"},
		{"non hex", "alex:yff_zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz"},
		{"duplicate user", "alex:" + validKey + ",alex:" + validKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{APIKeys: tt.value}
			_, err := cfg.ParseAPIKeys()
			assert.Error(t, err)
		})
	}
}
