package goja

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dop251/goja"
	"github.com/dop251/goja/parser"
	"github.com/dop251/goja_nodejs/console"
	"github.com/dop251/goja_nodejs/require"

	"github.com/dball/federation/domain/ports"
)

// Config holds configuration for the engine.
type Config struct {
	// Logger receives script diagnostics and console output.
	// Defaults to slog.Default().
	Logger *slog.Logger
}

// Option configures the engine.
type Option func(*Config)

// WithLogger sets the logger used for script diagnostics and console
// output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

func defaultConfig() Config {
	return Config{Logger: slog.Default()}
}

// Engine creates isolated goja environments. It is safe for concurrent
// use; environments it creates are not.
type Engine struct {
	cfg      Config
	registry *require.Registry

	mu       sync.Mutex
	programs map[string]programEntry
}

type programEntry struct {
	src  string
	prog *goja.Program
}

// New creates an engine with the given options.
func New(opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	registry := require.NewRegistry()
	registry.RegisterNativeModule(console.ModuleName, console.RequireWithPrinter(&slogPrinter{logger: cfg.Logger}))

	return &Engine{
		cfg:      cfg,
		registry: registry,
		programs: make(map[string]programEntry),
	}
}

// NewEnvironment creates a fresh runtime with console support enabled.
func (e *Engine) NewEnvironment(ctx context.Context) (ports.Environment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vm := goja.New()
	vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))
	vm.SetParserOptions(parser.WithDisableSourceMaps)
	e.registry.Enable(vm)
	console.Enable(vm)

	return &environment{
		engine: e,
		vm:     vm,
		logger: e.cfg.Logger,
	}, nil
}

// program returns a compiled program for the named script, reusing the
// cached compilation when the source is unchanged. Scripts whose source
// varies per call, like input assignments, recompile and replace the
// cache entry, so the cache stays bounded by the number of script
// names.
func (e *Engine) program(name, src string) (*goja.Program, error) {
	e.mu.Lock()
	entry, ok := e.programs[name]
	e.mu.Unlock()
	if ok && entry.src == src {
		return entry.prog, nil
	}

	ast, err := goja.Parse(name, src, parser.WithDisableSourceMaps)
	if err != nil {
		return nil, err
	}
	prog, err := goja.CompileAST(ast, false)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.programs[name] = programEntry{src: src, prog: prog}
	e.mu.Unlock()
	return prog, nil
}
