package config

import "context"

var contextKey = &struct{ string }{"config"}

// WithContext returns a new context with the configuration attached.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, contextKey, cfg)
}

// FromContext returns the configuration from the context, or the default
// configuration when none is attached.
func FromContext(ctx context.Context) *Config {
	if c, ok := ctx.Value(contextKey).(*Config); ok {
		return c
	}

	return DefaultConfig()
}
