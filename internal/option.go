package internal

import "github.com/prometheus/client_golang/prometheus"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config   *Config
	registry *prometheus.Registry
	version  string
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithRegistry sets the Prometheus registry metrics are registered with.
// A fresh registry is used when unset.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(a *application) {
		a.registry = reg
	}
}

// WithVersion sets the version reported by the MCP server.
func WithVersion(v string) Option {
	return func(a *application) {
		a.version = v
	}
}

func newApplication(opts []Option) (*application, error) {
	app := &application{version: "dev"}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, errConfigRequired
	}
	if app.registry == nil {
		app.registry = prometheus.NewRegistry()
	}
	return app, nil
}
