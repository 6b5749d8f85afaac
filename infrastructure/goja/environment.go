package goja

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/dop251/goja"

	"github.com/dball/federation/domain/ports"
)

// ErrEnvironmentClosed is returned by Bind and Run after Close.
var ErrEnvironmentClosed = errors.New("script environment is closed")

// environment is a single goja runtime. It is used by one goroutine at
// a time; the engine hands out a fresh one per call.
type environment struct {
	engine *Engine
	vm     *goja.Runtime
	logger *slog.Logger

	closed atomic.Bool
	runCtx context.Context
}

// Bind exposes a capability as a global function taking one string
// argument. A non-nil capability error is thrown into the script as an
// exception.
func (env *environment) Bind(name string, fn ports.HostFunc) error {
	if env.closed.Load() {
		return ErrEnvironmentClosed
	}
	if fn == nil {
		return fmt.Errorf("capability %s: nil host function", name)
	}
	return env.vm.Set(name, func(payload string) (string, error) {
		out, err := fn(env.callContext(), []byte(payload))
		if err != nil {
			return "", err
		}
		return string(out), nil
	})
}

// callContext returns the context of the run in flight. Capabilities
// only execute while a script runs, but a detached callback would still
// get a usable context.
func (env *environment) callContext() context.Context {
	if ctx := env.runCtx; ctx != nil {
		return ctx
	}
	return context.Background()
}

// Run evaluates the named script. Context cancellation interrupts the
// interpreter.
func (env *environment) Run(ctx context.Context, name, src string) error {
	if env.closed.Load() {
		return ErrEnvironmentClosed
	}

	prog, err := env.engine.program(name, src)
	if err != nil {
		return fmt.Errorf("compile %s: %w", name, err)
	}

	env.runCtx = ctx
	watchDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			env.vm.Interrupt(ctx.Err())
		case <-watchDone:
		}
	}()

	_, err = env.vm.RunProgram(prog)

	close(watchDone)
	env.vm.ClearInterrupt()
	env.runCtx = nil

	if err == nil {
		env.logger.DebugContext(ctx, "script evaluated", "script", name)
		return nil
	}

	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) && ctx.Err() != nil {
		return fmt.Errorf("script %s interrupted: %w", name, ctx.Err())
	}
	return err
}

// Close releases the environment. It is idempotent. An in-flight run
// on another goroutine is interrupted.
func (env *environment) Close() error {
	if env.closed.Swap(true) {
		return nil
	}
	env.vm.Interrupt(ErrEnvironmentClosed)
	return nil
}
