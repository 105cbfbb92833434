// Tree command renders a subtree as an indented outline.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

var treeCmd = &cobra.Command{
	Use:   "tree [node-id]",
	Short: "Render a subtree (or all roots) as an outline",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTree,
}

func runTree(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var tops []*types.Node
	if len(args) == 1 {
		node, err := store.Get(ctx, args[0])
		if err != nil {
			return fmt.Errorf("fetch node: %w", err)
		}
		tops = []*types.Node{node}
	} else {
		roots, err := store.Roots(ctx)
		if err != nil {
			return fmt.Errorf("list roots: %w", err)
		}
		tops = roots
	}

	if jsonOutput {
		var all []*types.Node
		for _, top := range tops {
			subtree, err := store.Subtree(ctx, top.NodeID)
			if err != nil {
				return fmt.Errorf("fetch subtree: %w", err)
			}
			all = append(all, subtree...)
		}
		return printJSON(all)
	}

	for _, top := range tops {
		if err := renderSubtree(cmd, top, 0); err != nil {
			return err
		}
	}
	return nil
}

// renderSubtree prints one node and recurses over its children. The
// recursion is a display concern only; the store itself never needs it.
func renderSubtree(cmd *cobra.Command, node *types.Node, indent int) error {
	fmt.Printf("%s%s  %s (%s)\n", strings.Repeat("  ", indent), node.NodeID, node.Name, node.Kind)

	children, err := store.Children(cmd.Context(), node.NodeID)
	if err != nil {
		return fmt.Errorf("list children: %w", err)
	}
	for _, child := range children {
		if err := renderSubtree(cmd, child, indent+1); err != nil {
			return err
		}
	}
	return nil
}
