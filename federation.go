// Package federation composes GraphQL service schemas into a
// supergraph schema and plans query execution across those services.
//
// Both operations are delegated to a precompiled module embedded in the
// binary and evaluated in an isolated script environment, one
// environment per call. The package is the Go face of that module:
// requests are marshaled into environment globals, a driver script
// triggers the module, and the single result comes back through a
// host capability.
//
//	supergraph, err := federation.Compose(ctx, entities.ServiceList{
//	    entities.NewServiceDefinition("users", "https://users/graphql", usersSDL),
//	    entities.NewServiceDefinition("movies", "https://movies/graphql", moviesSDL),
//	})
//
// Content failures (invalid SDL, merge conflicts, unplannable queries)
// are returned as entities.CompositionErrors / entities.PlanningErrors.
// Failures of the bridge itself are the domain/errors types and
// indicate a broken build, not bad caller input.
package federation

import (
	"io"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"github.com/dball/federation/domain/ports"
	"github.com/dball/federation/host"
	gojaengine "github.com/dball/federation/infrastructure/goja"
)

// Bridge invokes the embedded composition and planning module. The zero
// value is not usable; construct with New. A Bridge is safe for
// concurrent use and reuses its engine's compiled-program cache across
// calls.
type Bridge struct {
	engine      ports.ScriptEngine
	sessionOpts []host.Option
}

var _ ports.Bridge = (*Bridge)(nil)

// New creates a Bridge. With no options it evaluates the module on the
// goja engine, logs through slog.Default, and sends module diagnostics
// to os.Stderr.
func New(opts ...Option) *Bridge {
	cfg := defaultBridgeConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	engine := cfg.engine
	if engine == nil {
		engine = gojaengine.New(gojaengine.WithLogger(cfg.logger))
	}

	sessionOpts := []host.Option{host.WithLogger(cfg.logger)}
	if cfg.sink != nil {
		sessionOpts = append(sessionOpts, host.WithDiagnosticSink(cfg.sink))
	}
	if cfg.tracer != nil {
		sessionOpts = append(sessionOpts, host.WithTracer(cfg.tracer))
	}

	return &Bridge{engine: engine, sessionOpts: sessionOpts}
}

type bridgeConfig struct {
	engine ports.ScriptEngine
	logger *slog.Logger
	tracer trace.Tracer
	sink   io.Writer
}

func defaultBridgeConfig() bridgeConfig {
	return bridgeConfig{logger: slog.Default()}
}

// defaultBridge backs the package-level Compose and Plan, so casual
// callers share one compiled-program cache.
var defaultBridge = sync.OnceValue(func() *Bridge {
	return New()
})
