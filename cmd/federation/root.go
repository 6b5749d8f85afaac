package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dball/federation"
	"github.com/dball/federation/internal/otel"
	"github.com/dball/federation/log"
)

var rootCmd = &cobra.Command{
	Use:   "federation",
	Short: "Compose subgraph schemas and plan queries against the supergraph",
	Long: `federation drives the embedded composition module: it merges subgraph
schemas into a supergraph document and plans operations across the
services that contribute to it.

Results go to stdout; logs and diagnostics go to stderr.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with an interrupt-aware context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("otel-endpoint", "", "OTLP gRPC endpoint for traces (telemetry disabled when empty)")
	rootCmd.PersistentFlags().String("otel-service", "federation", "Service name reported with traces")
}

// appRuntime bundles what every command needs: the logger, the bridge, and
// the telemetry teardown.
type appRuntime struct {
	logger   *slog.Logger
	bridge   *federation.Bridge
	shutdown func(context.Context) error
}

func setupRuntime(cmd *cobra.Command) (*appRuntime, error) {
	levelName, _ := cmd.Flags().GetString("log-level")
	level, err := log.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	logger := log.New(log.WithHandlerLevel(level))

	endpoint, _ := cmd.Flags().GetString("otel-endpoint")
	service, _ := cmd.Flags().GetString("otel-service")
	shutdown, err := otel.Setup(endpoint, service)
	if err != nil {
		return nil, fmt.Errorf("set up telemetry: %w", err)
	}

	bridge := federation.New(
		federation.WithLogger(logger),
		federation.WithDiagnosticSink(log.NewDiagnosticWriter(logger)),
	)
	return &appRuntime{logger: logger, bridge: bridge, shutdown: shutdown}, nil
}

func (rt *appRuntime) close(ctx context.Context) {
	if err := rt.shutdown(ctx); err != nil {
		rt.logger.Warn("telemetry shutdown failed", "err", err)
	}
}

// printContentErrors renders the module's error list as a JSON array on
// stderr, the shape scripted tooling consumes.
func printContentErrors(cmd *cobra.Command, errs any) error {
	out, err := json.MarshalIndent(errs, "", "  ")
	if err != nil {
		return fmt.Errorf("render errors: %w", err)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), string(out))
	return nil
}

// writeOutput sends the result to the --out file when given, stdout
// otherwise. Text always ends with a newline.
func writeOutput(cmd *cobra.Command, path, text string) error {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if path == "" {
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
