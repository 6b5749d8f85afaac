package wazero

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dball/federation/domain/entities"
	domainerrors "github.com/dball/federation/domain/errors"
	"github.com/dball/federation/domain/ports"
	"github.com/dball/federation/hostfuncs"
	"github.com/dball/federation/internal/rendezvous"
	"github.com/dball/federation/wireformat"
)

// instrumentationName identifies this package's tracer scope.
const instrumentationName = "github.com/dball/federation/infrastructure/wazero"

// artifactName labels the compiled module in construction errors.
const artifactName = "bridge.wasm"

// Entry export names the artifact must provide.
const (
	EntryCompose = "compose"
	EntryPlan    = "plan"
)

// Config holds configuration for the bridge.
type Config struct {
	// Logger receives instantiation events and capability traffic.
	// Defaults to slog.Default().
	Logger *slog.Logger

	// Sink receives the module's diagnostic print output. Defaults to
	// os.Stderr.
	Sink io.Writer

	// Tracer records call spans. Defaults to the globally registered
	// provider, which is a no-op unless one is installed.
	Tracer trace.Tracer
}

// Option configures the bridge.
type Option func(*Config)

// WithLogger sets the logger for instantiation events and capability
// traffic.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithDiagnosticSink sets the writer receiving the module's print
// output.
func WithDiagnosticSink(sink io.Writer) Option {
	return func(c *Config) {
		c.Sink = sink
	}
}

// WithTracer sets the tracer recording call spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Config) {
		c.Tracer = tracer
	}
}

func defaultConfig() Config {
	return Config{
		Logger: slog.Default(),
		Sink:   os.Stderr,
		Tracer: otel.Tracer(instrumentationName),
	}
}

// Bridge executes a WebAssembly build of the module. It is safe for
// concurrent use; every call runs in a fresh guest instance.
type Bridge struct {
	cfg      Config
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
}

var _ ports.Bridge = (*Bridge)(nil)

// New compiles the artifact and validates its exports. The runtime
// keeps the compiled module for the bridge's lifetime; release it with
// Close.
func New(ctx context.Context, artifact []byte, opts ...Option) (*Bridge, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	runtime := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().
		WithCloseOnContextDone(true))
	wasi_snapshot_preview1.MustInstantiate(ctx, runtime)

	if err := registerHostModule(ctx, runtime, cfg.Logger); err != nil {
		_ = runtime.Close(ctx)
		return nil, fmt.Errorf("register host module: %w", err)
	}

	compiled, err := runtime.CompileModule(ctx, artifact)
	if err != nil {
		_ = runtime.Close(ctx)
		return nil, fmt.Errorf("compile module artifact: %w", err)
	}
	if err := validateExports(compiled); err != nil {
		_ = runtime.Close(ctx)
		return nil, err
	}

	return &Bridge{cfg: cfg, runtime: runtime, compiled: compiled}, nil
}

// validateExports checks the artifact for the entry and allocation
// exports before any call is attempted.
func validateExports(compiled wazero.CompiledModule) error {
	exports := compiled.ExportedFunctions()
	for _, name := range []string{EntryCompose, EntryPlan, guestAllocate} {
		if _, ok := exports[name]; !ok {
			return fmt.Errorf("module artifact does not export %q", name)
		}
	}
	return nil
}

// Close releases the runtime and the compiled artifact.
func (b *Bridge) Close(ctx context.Context) error {
	return b.runtime.Close(ctx)
}

// Compose merges the schemas of the given services, in order, into a
// single supergraph schema and returns its SDL.
func (b *Bridge) Compose(ctx context.Context, services entities.ServiceList) (string, error) {
	if services == nil {
		services = entities.ServiceList{}
	}
	request, err := json.Marshal(services)
	if err != nil {
		return "", &domainerrors.ConstructionError{
			Step:   domainerrors.StepInput,
			Script: "serviceList",
			Err:    err,
		}
	}

	data, contentErrs, err := run[entities.CompositionError](ctx, b, EntryCompose, request)
	if err != nil {
		return "", err
	}
	if len(contentErrs) > 0 {
		return "", entities.CompositionErrors(contentErrs)
	}
	return data, nil
}

// planRequest is the marshaled request the plan entry receives.
type planRequest struct {
	Context entities.OperationalContext `json:"context"`
	Options entities.QueryPlanOptions   `json:"options"`
}

// Plan builds a query plan for executing opCtx.Query against the
// supergraph schema in opCtx.Schema, returned as the plan's JSON
// encoding.
func (b *Bridge) Plan(ctx context.Context, opCtx entities.OperationalContext, options entities.QueryPlanOptions) (string, error) {
	request, err := json.Marshal(planRequest{Context: opCtx, Options: options})
	if err != nil {
		return "", &domainerrors.ConstructionError{
			Step:   domainerrors.StepInput,
			Script: "planRequest",
			Err:    err,
		}
	}

	data, contentErrs, err := run[entities.PlanningError](ctx, b, EntryPlan, request)
	if err != nil {
		return "", err
	}
	if len(contentErrs) > 0 {
		return "", entities.PlanningErrors(contentErrs)
	}
	return data, nil
}

// run executes one entry export in a fresh guest instance and returns
// exactly one of: the delivered success payload, a non-empty list of
// content errors decoded as E, or a bridge failure.
//
// Failure precedence matches the scripted build: a latched contract
// violation wins over an entry fault, which wins over a latched
// diagnostic sink failure. An entry that returns without delivering
// yields ErrNoResult.
func run[E any](ctx context.Context, b *Bridge, entry string, request []byte) (data string, contentErrors []E, err error) {
	ctx, span := b.cfg.Tracer.Start(ctx, "federation."+entry)
	span.SetAttributes(
		attribute.String("federation.call", entry),
		attribute.Int("federation.request_bytes", len(request)),
	)
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
	}()

	logger := b.cfg.Logger.With("call", entry)

	slot := rendezvous.New[wireformat.Result[E]]()
	violations := &hostfuncs.ErrorLatch{}
	sinkFailures := &hostfuncs.ErrorLatch{}

	registry, err := hostfuncs.NewRegistry(
		hostfuncs.WithByteHandler(hostfuncs.CapabilityPrint, hostfuncs.Print(b.cfg.Sink, sinkFailures)),
		hostfuncs.WithByteHandler(hostfuncs.CapabilityDeliverResult, hostfuncs.DeliverResult(slot, violations)),
		hostfuncs.WithMiddleware(hostfuncs.PanicRecoveryMiddleware()),
		hostfuncs.WithMiddleware(hostfuncs.LoggingMiddleware(logger)),
	)
	if err != nil {
		return "", nil, &domainerrors.ConstructionError{Step: domainerrors.StepCapabilities, Err: err}
	}
	ctx = withCallRegistry(ctx, registry)

	// Fresh anonymous instance; nothing auto-runs at instantiation.
	mod, err := b.runtime.InstantiateModule(ctx, b.compiled, wazero.NewModuleConfig().
		WithName("").
		WithStartFunctions())
	if err != nil {
		return "", nil, &domainerrors.ConstructionError{
			Step:   domainerrors.StepModule,
			Script: artifactName,
			Err:    err,
		}
	}
	defer func() {
		if closeErr := mod.Close(ctx); closeErr != nil {
			logger.DebugContext(ctx, "instance close failed", "error", closeErr)
		}
	}()

	if init := mod.ExportedFunction("_initialize"); init != nil {
		if _, initErr := init.Call(ctx); initErr != nil {
			return "", nil, &domainerrors.ConstructionError{
				Step:   domainerrors.StepModule,
				Script: artifactName,
				Err:    fmt.Errorf("call _initialize: %w", initErr),
			}
		}
	}
	logger.DebugContext(ctx, "guest instantiated")

	entryFn := mod.ExportedFunction(entry)
	allocateFn := mod.ExportedFunction(guestAllocate)
	if entryFn == nil || allocateFn == nil {
		return "", nil, &domainerrors.ConstructionError{
			Step:   domainerrors.StepModule,
			Script: artifactName,
			Err:    fmt.Errorf("instance missing %q or %q export", entry, guestAllocate),
		}
	}

	results, err := allocateFn.Call(ctx, uint64(len(request)))
	if err != nil {
		return "", nil, &domainerrors.ConstructionError{
			Step:   domainerrors.StepInput,
			Script: entry,
			Err:    fmt.Errorf("allocate request buffer: %w", err),
		}
	}
	ptr := uint32(results[0])
	if !mod.Memory().Write(ptr, request) {
		return "", nil, &domainerrors.ConstructionError{
			Step:   domainerrors.StepInput,
			Script: entry,
			Err:    errors.New("write request into guest memory"),
		}
	}

	_, callErr := entryFn.Call(ctx, uint64(ptr), uint64(len(request)))

	if violation := violations.Err(); violation != nil {
		return "", nil, violation
	}
	if callErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			callErr = fmt.Errorf("%v: %w", callErr, ctxErr)
		}
		return "", nil, &domainerrors.ExecutionFaultError{Script: entry, Err: callErr}
	}
	if sinkErr := sinkFailures.Err(); sinkErr != nil {
		return "", nil, sinkErr
	}
	if !slot.Delivered() {
		return "", nil, domainerrors.ErrNoResult
	}

	result, waitErr := slot.Wait(ctx)
	if waitErr != nil {
		return "", nil, waitErr
	}
	if result.Ok() {
		return result.Data, nil, nil
	}
	return "", result.Errors, nil
}
