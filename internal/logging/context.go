package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

type ctxKey int

const loggerCtxKey ctxKey = iota

// WithLogger returns ctx carrying logger. A nil ctx starts from Background.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerCtxKey, logger)
}

// FromContext returns the logger carried by ctx, falling back to Default.
func FromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if logger, _ := ctx.Value(loggerCtxKey).(*log.Logger); logger != nil {
			return logger
		}
	}
	return Default()
}

// WithScript returns ctx whose logger tags every entry with the script path.
func WithScript(ctx context.Context, path string) context.Context {
	return WithLogger(ctx, FromContext(ctx).With(FieldPath, path))
}
