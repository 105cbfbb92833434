// Move command relocates a subtree under a new parent.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:   "move <node-id> <new-parent-id>",
	Short: "Move a node and its subtree under a new parent",
	Long: `Move relocates the whole subtree rooted at the node. The move is
rejected when the target parent is the node itself or one of its
descendants.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := store.Move(cmd.Context(), args[0], args[1]); err != nil {
			return fmt.Errorf("move node: %w", err)
		}
		fmt.Printf("Moved %s under %s\n", args[0], args[1])
		return nil
	},
}
