package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dball/federation/domain/entities"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan an operation against a composed supergraph",
	Long: `Builds the query plan for one operation: which service resolves which
fields, and in what order. The schema must be a composed supergraph, the
output of 'federation compose'. Planning errors are printed to stderr as
a JSON array.`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().StringP("schema", "s", "", "Path to the composed supergraph SDL")
	planCmd.Flags().StringP("query", "q", "", "Path to the operation document")
	planCmd.Flags().String("operation", "", "Name of the operation to plan when the document defines several")
	planCmd.Flags().Bool("auto-fragmentization", false, "Extract repeated selection sets into fragments")
	planCmd.Flags().StringP("out", "o", "", "Write the query plan to a file instead of stdout")
	planCmd.Flags().Bool("json", false, "Emit the result as a JSON envelope")
	_ = planCmd.MarkFlagRequired("schema")
	_ = planCmd.MarkFlagRequired("query")
}

func runPlan(cmd *cobra.Command, args []string) error {
	rt, err := setupRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close(cmd.Context())

	schemaPath, _ := cmd.Flags().GetString("schema")
	schema, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	queryPath, _ := cmd.Flags().GetString("query")
	query, err := os.ReadFile(queryPath)
	if err != nil {
		return fmt.Errorf("read query: %w", err)
	}
	operation, _ := cmd.Flags().GetString("operation")
	autoFrag, _ := cmd.Flags().GetBool("auto-fragmentization")

	plan, err := rt.bridge.Plan(cmd.Context(), entities.OperationalContext{
		Schema:    string(schema),
		Query:     string(query),
		Operation: operation,
	}, entities.QueryPlanOptions{AutoFragmentization: autoFrag})
	var planErrs entities.PlanningErrors
	if errors.As(err, &planErrs) {
		if printErr := printContentErrors(cmd, planErrs); printErr != nil {
			return printErr
		}
		return fmt.Errorf("planning failed: %d error(s)", len(planErrs))
	}
	if err != nil {
		return err
	}

	text := plan
	if jsonMode, _ := cmd.Flags().GetBool("json"); jsonMode {
		envelope, err := json.Marshal(struct {
			Data json.RawMessage `json:"data"`
		}{json.RawMessage(plan)})
		if err != nil {
			return fmt.Errorf("render result: %w", err)
		}
		text = string(envelope)
	}

	outPath, _ := cmd.Flags().GetString("out")
	return writeOutput(cmd, outPath, text)
}
