package host

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	domainerrors "github.com/dball/federation/domain/errors"
	"github.com/dball/federation/domain/ports"
	"github.com/dball/federation/hostfuncs"
	"github.com/dball/federation/internal/rendezvous"
	"github.com/dball/federation/wireformat"
)

// Script is a named source evaluated in the environment. The name
// appears in construction and fault errors.
type Script struct {
	Name   string
	Source string
}

// Global is one request value assigned into the environment before the
// driver runs. Name must be a valid identifier; Value is marshaled with
// encoding/json.
type Global struct {
	Name  string
	Value any
}

// Call describes one module invocation: the scripts to evaluate, in
// order, and the request globals between module and driver.
type Call struct {
	// Name labels the call in logs and spans, e.g. "compose".
	Name      string
	Bootstrap Script
	Module    Script
	Globals   []Global
	Driver    Script
}

type sessionState string

const (
	stateCreated      sessionState = "created"
	stateCapabilities sessionState = "capabilities"
	stateBootstrap    sessionState = "bootstrap"
	stateModule       sessionState = "module"
	stateInput        sessionState = "input"
	stateTriggered    sessionState = "triggered"
	stateAwaited      sessionState = "awaited"
	stateClosed       sessionState = "closed"
)

// Run executes one call in a fresh environment and returns exactly one
// of: the delivered success payload, a non-empty list of content errors
// decoded as E, or a bridge failure.
//
// Failure precedence on completion: a latched contract violation wins
// over a driver fault, which wins over a latched diagnostic sink
// failure. A driver that completes without a fault and without
// delivering yields ErrNoResult.
func Run[E any](ctx context.Context, engine ports.ScriptEngine, call Call, opts ...Option) (data string, contentErrors []E, err error) {
	cfg := defaultSessionConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if engine == nil {
		return "", nil, errors.New("host: nil script engine")
	}

	ctx, span := cfg.tracer.Start(ctx, "federation."+call.Name)
	span.SetAttributes(
		attribute.String("federation.call", call.Name),
		attribute.String("federation.module", call.Module.Name),
		attribute.Int("federation.globals", len(call.Globals)),
	)
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
	}()

	logger := cfg.logger.With("call", call.Name)
	transition := func(s sessionState) {
		logger.DebugContext(ctx, "session state", "state", string(s))
	}
	transition(stateCreated)

	env, err := engine.NewEnvironment(ctx)
	if err != nil {
		return "", nil, &domainerrors.ConstructionError{Step: domainerrors.StepCapabilities, Err: err}
	}
	defer func() {
		if closeErr := env.Close(); closeErr != nil {
			logger.DebugContext(ctx, "environment close failed", "error", closeErr)
		}
		transition(stateClosed)
	}()

	slot := rendezvous.New[wireformat.Result[E]]()
	violations := &hostfuncs.ErrorLatch{}
	sinkFailures := &hostfuncs.ErrorLatch{}

	registry, err := hostfuncs.NewRegistry(
		hostfuncs.WithByteHandler(hostfuncs.CapabilityPrint, hostfuncs.Print(cfg.sink, sinkFailures)),
		hostfuncs.WithByteHandler(hostfuncs.CapabilityDeliverResult, hostfuncs.DeliverResult(slot, violations)),
		hostfuncs.WithMiddleware(hostfuncs.PanicRecoveryMiddleware()),
		hostfuncs.WithMiddleware(hostfuncs.LoggingMiddleware(logger)),
	)
	if err != nil {
		return "", nil, &domainerrors.ConstructionError{Step: domainerrors.StepCapabilities, Err: err}
	}
	for _, name := range registry.Names() {
		capability := name // capture for closure
		bindErr := env.Bind(capability, func(ctx context.Context, payload []byte) ([]byte, error) {
			return registry.Invoke(ctx, capability, payload)
		})
		if bindErr != nil {
			return "", nil, &domainerrors.ConstructionError{Step: domainerrors.StepCapabilities, Err: bindErr}
		}
	}
	transition(stateCapabilities)

	if runErr := env.Run(ctx, call.Bootstrap.Name, call.Bootstrap.Source); runErr != nil {
		return "", nil, &domainerrors.ConstructionError{
			Step:   domainerrors.StepBootstrap,
			Script: call.Bootstrap.Name,
			Err:    runErr,
		}
	}
	transition(stateBootstrap)

	if runErr := env.Run(ctx, call.Module.Name, call.Module.Source); runErr != nil {
		return "", nil, &domainerrors.ConstructionError{
			Step:   domainerrors.StepModule,
			Script: call.Module.Name,
			Err:    runErr,
		}
	}
	transition(stateModule)

	for _, global := range call.Globals {
		src, marshalErr := wireformat.GlobalAssignment(global.Name, global.Value)
		if marshalErr != nil {
			return "", nil, &domainerrors.ConstructionError{
				Step:   domainerrors.StepInput,
				Script: global.Name,
				Err:    marshalErr,
			}
		}
		if runErr := env.Run(ctx, global.Name, src); runErr != nil {
			return "", nil, &domainerrors.ConstructionError{
				Step:   domainerrors.StepInput,
				Script: global.Name,
				Err:    runErr,
			}
		}
	}
	transition(stateInput)

	driverErr := env.Run(ctx, call.Driver.Name, call.Driver.Source)
	transition(stateTriggered)

	if violation := violations.Err(); violation != nil {
		return "", nil, violation
	}
	if driverErr != nil {
		return "", nil, &domainerrors.ExecutionFaultError{Script: call.Driver.Name, Err: driverErr}
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
	transition(stateAwaited)

	if result.Ok() {
		return result.Data, nil, nil
	}
	return "", result.Errors, nil
}
