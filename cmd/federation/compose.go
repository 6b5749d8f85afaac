package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/dball/federation/application/config"
	"github.com/dball/federation/domain/entities"
)

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Compose subgraph schemas into a supergraph",
	Long: `Reads the supergraph config, feeds the subgraph schemas through the
embedded composition module and prints the supergraph SDL. Composition
errors are printed to stderr as a JSON array.`,
	RunE: runCompose,
}

func init() {
	rootCmd.AddCommand(composeCmd)

	composeCmd.Flags().StringP("config", "c", "supergraph.yaml", "Path to the supergraph config")
	composeCmd.Flags().StringP("out", "o", "", "Write the supergraph SDL to a file instead of stdout")
	composeCmd.Flags().Bool("json", false, "Emit the result as a JSON envelope")
	composeCmd.Flags().Bool("check", false, "Re-parse the composed SDL before writing it")
}

func runCompose(cmd *cobra.Command, args []string) error {
	rt, err := setupRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close(cmd.Context())

	configPath, _ := cmd.Flags().GetString("config")
	doc, err := config.Load(configPath)
	if err != nil {
		return err
	}
	services, err := doc.Resolve(filepath.Dir(configPath))
	if err != nil {
		return err
	}

	sdl, err := rt.bridge.Compose(cmd.Context(), services)
	var compErrs entities.CompositionErrors
	if errors.As(err, &compErrs) {
		if printErr := printContentErrors(cmd, compErrs); printErr != nil {
			return printErr
		}
		return fmt.Errorf("composition failed: %d error(s)", len(compErrs))
	}
	if err != nil {
		return err
	}

	if check, _ := cmd.Flags().GetBool("check"); check {
		if _, err := parser.ParseSchema(&ast.Source{Name: "supergraph", Input: sdl}); err != nil {
			return fmt.Errorf("composed SDL failed to re-parse: %w", err)
		}
		rt.logger.Info("composed SDL re-parsed cleanly", "subgraphs", len(services))
	}

	text := sdl
	if jsonMode, _ := cmd.Flags().GetBool("json"); jsonMode {
		envelope, err := json.Marshal(struct {
			Data string `json:"data"`
		}{sdl})
		if err != nil {
			return fmt.Errorf("render result: %w", err)
		}
		text = string(envelope)
	}

	outPath, _ := cmd.Flags().GetString("out")
	return writeOutput(cmd, outPath, text)
}
