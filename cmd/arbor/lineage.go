// Lineage commands: ancestors and descendants with depth bounds.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

var (
	lineageMinDepth int
	lineageMaxDepth int
)

var ancestorsCmd = &cobra.Command{
	Use:   "ancestors <node-id>",
	Short: "List a node's ancestors, nearest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nodes, err := store.Ancestors(cmd.Context(), args[0], lineageRange())
		if err != nil {
			return fmt.Errorf("list ancestors: %w", err)
		}
		return printNodes(nodes)
	},
}

var descendantsCmd = &cobra.Command{
	Use:   "descendants <node-id>",
	Short: "List a node's descendants, nearest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nodes, err := store.Descendants(cmd.Context(), args[0], lineageRange())
		if err != nil {
			return fmt.Errorf("list descendants: %w", err)
		}
		return printNodes(nodes)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{ancestorsCmd, descendantsCmd} {
		cmd.Flags().IntVar(&lineageMinDepth, "min-depth", 1, "minimum path length")
		cmd.Flags().IntVar(&lineageMaxDepth, "max-depth", 0, "maximum path length (0 = unbounded)")
	}
}

func lineageRange() types.DepthRange {
	return types.DepthRange{Min: lineageMinDepth, Max: lineageMaxDepth}
}
