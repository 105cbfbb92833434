// Rm command deletes a node, cascading or promoting its children.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rmCascade bool

var rmCmd = &cobra.Command{
	Use:   "rm <node-id>",
	Short: "Delete a node",
	Long: `Rm deletes a node. With --cascade the whole subtree is removed;
without it the node's children are promoted to its former parent, or
become roots when the node was a root.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := store.Delete(cmd.Context(), args[0], rmCascade); err != nil {
			return fmt.Errorf("delete node: %w", err)
		}
		if rmCascade {
			fmt.Printf("Deleted %s and its subtree\n", args[0])
		} else {
			fmt.Printf("Deleted %s, children promoted\n", args[0])
		}
		return nil
	},
}

func init() {
	rmCmd.Flags().BoolVar(&rmCascade, "cascade", false, "delete the whole subtree")
}
