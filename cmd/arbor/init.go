// Init command: create configuration and data directories.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize arbor storage",
	Long:  "Create configuration and data directories, then initialize the storage backend.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Attach in PersistentPreRunE already created directories and
		// the schema; confirm and exit.
		fmt.Fprintln(cmd.OutOrStdout(), "Arbor initialized successfully")
		return nil
	},
}
