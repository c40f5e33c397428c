package internal

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	mcp    bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithMCPMode switches the application to serve MCP tools over stdio
// instead of the HTTP API.
func WithMCPMode(enabled bool) Option {
	return func(a *application) {
		a.mcp = enabled
	}
}
