// Add command creates a new node, as a root or under a parent.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

var (
	addName   string
	addKind   string
	addParent string
	addAttrs  string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a new node",
	Long: `Add creates a node. Without --parent the node becomes a new root;
with --parent it is attached under the given node.

Example:
  arbor add --name "US Northeast" --kind region
  arbor add --name "Boston Site" --kind site --parent <region-id>
  arbor add --name "Annex" --attrs '{"floor": 3}' --json`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addName, "name", "", "name for the node (required)")
	addCmd.Flags().StringVar(&addKind, "kind", "", "kind classifier")
	addCmd.Flags().StringVar(&addParent, "parent", "", "parent node ID (omit to create a root)")
	addCmd.Flags().StringVar(&addAttrs, "attrs", "", "attribute payload as a JSON object")
	_ = addCmd.MarkFlagRequired("name")
}

func runAdd(cmd *cobra.Command, args []string) error {
	attrs, err := parseAttrs(addAttrs)
	if err != nil {
		return err
	}

	node := &types.Node{
		Name:  addName,
		Kind:  addKind,
		Attrs: attrs,
	}

	var parent *string
	if addParent != "" {
		parent = &addParent
	}

	id, err := store.Insert(cmd.Context(), parent, node)
	if err != nil {
		return fmt.Errorf("create node: %w", err)
	}

	if jsonOutput {
		return printJSON(node)
	}
	fmt.Printf("Created node: %s\n", id)
	return nil
}
