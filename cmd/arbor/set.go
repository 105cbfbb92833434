// Set command replaces a node's name, kind, and attributes.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	setName  string
	setKind  string
	setAttrs string
)

var setCmd = &cobra.Command{
	Use:   "set <node-id>",
	Short: "Update a node's name, kind, and attributes",
	Long: `Set replaces the node's payload. Hierarchy position is unaffected.

Example:
  arbor set <id> --name "Renamed" --kind site
  arbor set <id> --name "Same name" --attrs '{"active": false}'`,
	Args: cobra.ExactArgs(1),
	RunE: runSet,
}

func init() {
	setCmd.Flags().StringVar(&setName, "name", "", "new name (required)")
	setCmd.Flags().StringVar(&setKind, "kind", "", "new kind classifier")
	setCmd.Flags().StringVar(&setAttrs, "attrs", "", "attribute payload as a JSON object")
	_ = setCmd.MarkFlagRequired("name")
}

func runSet(cmd *cobra.Command, args []string) error {
	attrs, err := parseAttrs(setAttrs)
	if err != nil {
		return err
	}

	if err := store.SetAttrs(cmd.Context(), args[0], setName, setKind, attrs); err != nil {
		return fmt.Errorf("update node: %w", err)
	}

	node, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("fetch node: %w", err)
	}
	return printNode(node)
}
