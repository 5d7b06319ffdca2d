// Package config loads the ini-style runtime configuration (sections MAIN,
// BROWSER, and MCP) plus the typed provider configs consumed by llms,
// databases, and pkg/embedders.
package config

import (
	"os"
	"strings"

	"gopkg.in/ini.v1"
)

// Main holds the MAIN section of the configuration file.
type Main struct {
	AgentName             string
	ProviderName           string
	ProviderModel          string
	ProviderServerAddress  string
	IsLocal                bool
	JarvisPersonality      string
	Speak                  bool
	Listen                 bool
	RecoverLastSession     bool
	Languages              []string
}

// Browser holds the BROWSER section of the configuration file.
type Browser struct {
	HeadlessBrowser bool
	StealthMode     bool
}

// MCP holds the MCP section of the configuration file: the stdio command
// for an optional Model Context Protocol server the mcp agent bridges to.
// An empty Command means the mcp agent is not built for any session.
type MCP struct {
	Command string
	Args    []string
}

// Config is the parsed configuration surface described in spec §6.
type Config struct {
	Main    Main
	Browser Browser
	MCP     MCP
}

// Load reads an ini file at path and parses the MAIN, BROWSER, and MCP sections.
// Docker detection forces HeadlessBrowser regardless of what the file says.
func Load(path string) (*Config, error) {
	raw, err := ini.Load(path)
	if err != nil {
		return nil, err
	}

	main := raw.Section("MAIN")
	browser := raw.Section("BROWSER")
	mcp := raw.Section("MCP")

	cfg := &Config{
		Main: Main{
			AgentName:            main.Key("agent_name").MustString("jarvis"),
			ProviderName:          main.Key("provider_name").MustString("test"),
			ProviderModel:         main.Key("provider_model").String(),
			ProviderServerAddress: main.Key("provider_server_address").String(),
			IsLocal:               main.Key("is_local").MustBool(true),
			JarvisPersonality:     main.Key("jarvis_personality").String(),
			Speak:                 main.Key("speak").MustBool(false),
			Listen:                main.Key("listen").MustBool(false),
			RecoverLastSession:    main.Key("recover_last_session").MustBool(false),
			Languages:             splitSpaces(main.Key("languages").MustString("en")),
		},
		Browser: Browser{
			HeadlessBrowser: browser.Key("headless_browser").MustBool(false),
			StealthMode:     browser.Key("stealth_mode").MustBool(true),
		},
		MCP: MCP{
			Command: mcp.Key("command").String(),
			Args:    splitSpacesEmpty(mcp.Key("args").String()),
		},
	}

	if IsRunningInDocker() {
		cfg.Browser.HeadlessBrowser = true
	}

	return cfg, nil
}

func splitSpaces(s string) []string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return []string{"en"}
	}
	return fields
}

// splitSpacesEmpty is splitSpaces without the "en" default, for keys like
// MCP args where an absent value means "no arguments" rather than a language.
func splitSpacesEmpty(s string) []string {
	return strings.Fields(s)
}

// IsRunningInDocker matches spec §6's detection rule: /.dockerenv exists, or
// /proc/1/cgroup mentions "docker".
func IsRunningInDocker() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	cgroup, err := os.ReadFile("/proc/1/cgroup")
	if err != nil {
		return false
	}
	return strings.Contains(string(cgroup), "docker")
}

// ProviderAPIKey reads the <PROVIDER>_API_KEY environment variable for a
// provider name, e.g. "openai" -> OPENAI_API_KEY.
func ProviderAPIKey(providerName string) string {
	key := strings.ToUpper(providerName) + "_API_KEY"
	return os.Getenv(key)
}

// DockerInternalHost resolves DOCKER_INTERNAL_URL if set and the process is
// running inside Docker, falling back to host unchanged.
func DockerInternalHost(host string) string {
	if !IsRunningInDocker() {
		return host
	}
	if override := os.Getenv("DOCKER_INTERNAL_URL"); override != "" {
		return override
	}
	return host
}
