package tmx

import "log/slog"

type config struct {
	logger       *slog.Logger
	strict       bool
	skipSubtrees bool
}

type Option func(*config)

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithStrict makes malformed optional attributes and tile data whose size
// does not match the map errors instead of silently using defaults.
func WithStrict() Option {
	return func(c *config) { c.strict = true }
}

// WithSkipUnknownSubtrees makes the parser skip an unrecognized element
// together with everything nested in it. By default only its tags are
// ignored, so known elements inside it, like the image of a tileset's tile
// or the layers of a group, are still parsed.
func WithSkipUnknownSubtrees() Option {
	return func(c *config) { c.skipSubtrees = true }
}

func newConfig(opts []Option) config {
	c := config{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
