package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dball/federation/application/schema"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the supergraph config format",
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the supergraph config",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := schema.SupergraphConfig()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSchemaCmd)
}
