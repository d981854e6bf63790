// Package config holds the persistent service configuration, loaded
// from config.toml, PSCRAPE_* environment variables and flags.
package config

// Config is the full service configuration. The TOML layout uses
// sections for logical grouping.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	MCP      MCPConfig      `mapstructure:"mcp"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
}

// APIConfig holds REST server settings.
type APIConfig struct {
	Listen string `mapstructure:"listen"`
	// Key enables shared-secret authentication on the REST surface.
	// Empty disables auth entirely.
	Key string `mapstructure:"key"`
}

// MCPConfig holds MCP server settings.
type MCPConfig struct {
	Listen string `mapstructure:"listen"`
}

// UpstreamConfig holds the Perplexity session credentials and origin.
// SessionToken, CFClearance and VisitorID are mandatory; startup fails
// without them.
type UpstreamConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	SessionToken string `mapstructure:"session_token"`
	CFClearance  string `mapstructure:"cf_clearance"`
	VisitorID    string `mapstructure:"visitor_id"`
	SessionID    string `mapstructure:"session_id"`
	CFBM         string `mapstructure:"cf_bm"`
}
