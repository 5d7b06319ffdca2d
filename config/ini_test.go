package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestIni(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.ini")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_ParsesMainBrowserAndMCPSections(t *testing.T) {
	path := writeTestIni(t, `
[MAIN]
agent_name = jarvis
provider_name = openai
languages = en fr

[BROWSER]
headless_browser = true
stealth_mode = false

[MCP]
command = /usr/local/bin/mcp-server
args = --flag value
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "jarvis", cfg.Main.AgentName)
	assert.Equal(t, []string{"en", "fr"}, cfg.Main.Languages)
	assert.True(t, cfg.Browser.HeadlessBrowser)
	assert.False(t, cfg.Browser.StealthMode)
	assert.Equal(t, "/usr/local/bin/mcp-server", cfg.MCP.Command)
	assert.Equal(t, []string{"--flag", "value"}, cfg.MCP.Args)
}

func TestLoad_AbsentMCPSectionLeavesCommandEmpty(t *testing.T) {
	path := writeTestIni(t, `
[MAIN]
agent_name = jarvis
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Empty(t, cfg.MCP.Command)
	assert.Empty(t, cfg.MCP.Args)
}

func TestSplitSpaces_EmptyDefaultsToEnglish(t *testing.T) {
	assert.Equal(t, []string{"en"}, splitSpaces(""))
}

func TestSplitSpacesEmpty_EmptyStaysEmpty(t *testing.T) {
	assert.Empty(t, splitSpacesEmpty(""))
}
