package federation

import (
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/dball/federation/domain/ports"
)

// Option configures a Bridge.
type Option func(*bridgeConfig)

// WithEngine replaces the default goja engine. The engine owns script
// compilation and environment isolation; see domain/ports.ScriptEngine.
func WithEngine(engine ports.ScriptEngine) Option {
	return func(c *bridgeConfig) {
		c.engine = engine
	}
}

// WithLogger sets the logger used by the session and, when no engine is
// supplied, by the default engine. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *bridgeConfig) {
		c.logger = logger
	}
}

// WithTracer sets the tracer recording per-call spans. Defaults to the
// globally registered otel provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *bridgeConfig) {
		c.tracer = tracer
	}
}

// WithDiagnosticSink redirects the module's print output. Defaults to
// os.Stderr.
func WithDiagnosticSink(sink io.Writer) Option {
	return func(c *bridgeConfig) {
		c.sink = sink
	}
}
