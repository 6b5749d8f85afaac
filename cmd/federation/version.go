package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dball/federation"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of federation",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "federation version %s\n", federation.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
