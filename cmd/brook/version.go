package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"brook/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprint(cmd.OutOrStdout(), version.Format(!color.NoColor))
		return err
	},
}
