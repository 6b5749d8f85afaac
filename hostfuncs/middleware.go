package hostfuncs

import (
	"context"
	"fmt"
	"log/slog"
)

// PanicRecoveryMiddleware catches panics in a capability and converts them
// to errors, so nothing the environment feeds a capability can crash the
// host process.
func PanicRecoveryMiddleware() Middleware {
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) (resp []byte, err error) {
			defer func() {
				if r := recover(); r != nil {
					resp = nil
					err = fmt.Errorf("capability %s panicked: %v", CapabilityNameFrom(ctx), r)
				}
			}()
			return next(ctx, payload)
		}
	}
}

// LoggingMiddleware records capability invocations at debug level.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) ([]byte, error) {
			name := CapabilityNameFrom(ctx)
			logger.DebugContext(ctx, "capability invoked",
				"capability", name,
				"payload_bytes", len(payload))
			resp, err := next(ctx, payload)
			if err != nil {
				logger.DebugContext(ctx, "capability failed",
					"capability", name,
					"error", err)
			}
			return resp, err
		}
	}
}
