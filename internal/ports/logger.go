package ports

import "context"

// Logger is the structured logging port used across the analytics engine.
// Implementations live in adapters/logger (stdlib text output and zap).
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...map[string]interface{})
	Info(ctx context.Context, msg string, fields ...map[string]interface{})
	Warn(ctx context.Context, msg string, fields ...map[string]interface{})
	// Error logs err together with msg; err may be nil.
	Error(ctx context.Context, err error, msg string, fields ...map[string]interface{})
}
