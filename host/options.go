package host

import (
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// instrumentationName identifies this package's tracer scope.
const instrumentationName = "github.com/dball/federation/host"

type config struct {
	logger *slog.Logger
	tracer trace.Tracer
	sink   io.Writer
}

// Option configures a session run.
type Option func(*config)

// WithLogger sets the logger for session state transitions and
// capability traffic. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithTracer sets the tracer recording session spans. Defaults to the
// globally registered provider, which is a no-op unless one is
// installed.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *config) {
		c.tracer = tracer
	}
}

// WithDiagnosticSink sets the writer receiving the module's print
// output. Defaults to os.Stderr.
func WithDiagnosticSink(sink io.Writer) Option {
	return func(c *config) {
		c.sink = sink
	}
}

func defaultSessionConfig() config {
	return config{
		logger: slog.Default(),
		tracer: otel.Tracer(instrumentationName),
		sink:   os.Stderr,
	}
}
