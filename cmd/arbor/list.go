// Listing commands: ls (children) and roots.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls <node-id>",
	Short: "List a node's immediate children",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		children, err := store.Children(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("list children: %w", err)
		}
		return printNodes(children)
	},
}

var rootsCmd = &cobra.Command{
	Use:   "roots",
	Short: "List all root nodes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		roots, err := store.Roots(cmd.Context())
		if err != nil {
			return fmt.Errorf("list roots: %w", err)
		}
		return printNodes(roots)
	},
}
