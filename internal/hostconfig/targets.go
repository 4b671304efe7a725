// Package hostconfig propagates Yahoo credentials into the MCP host
// configuration files (Claude Desktop, Cursor, Antigravity) so every host
// launches the server with the current tokens.
package hostconfig

import (
	"path/filepath"
)

// Target is one host configuration file.
type Target struct {
	Name string
	Path string
}

// DefaultServerNames are the mcpServers entry names recognized as this
// integration.
var DefaultServerNames = []string{"fantasy-football", "yahoo-fantasy-football"}

// DefaultTargets returns the known host config locations for the given
// platform. appData is only consulted on windows; when empty it falls back
// to the roaming profile under home.
func DefaultTargets(goos, home, appData string) []Target {
	var claude string
	switch goos {
	case "darwin":
		claude = filepath.Join(home, "Library", "Application Support", "Claude", "claude_desktop_config.json")
	case "windows":
		if appData == "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		claude = filepath.Join(appData, "Claude", "claude_desktop_config.json")
	default:
		claude = filepath.Join(home, ".config", "Claude", "claude_desktop_config.json")
	}

	return []Target{
		{Name: "Claude Desktop", Path: claude},
		{Name: "Cursor", Path: filepath.Join(home, ".cursor", "mcp.json")},
		{Name: "Antigravity", Path: filepath.Join(home, ".gemini", "antigravity", "mcp_config.json")},
	}
}
