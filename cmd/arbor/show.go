// Show command prints one node with its parent.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

var showCmd = &cobra.Command{
	Use:   "show <node-id>",
	Short: "Show a node and its parent",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	node, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("fetch node: %w", err)
	}

	parent, err := store.Parent(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("fetch parent: %w", err)
	}

	if jsonOutput {
		out := struct {
			Node   *types.Node `json:"node"`
			Parent *types.Node `json:"parent,omitempty"`
		}{Node: node, Parent: parent}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal output: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("ID:      %s\n", node.NodeID)
	fmt.Printf("Name:    %s\n", node.Name)
	fmt.Printf("Kind:    %s\n", node.Kind)
	if parent != nil {
		fmt.Printf("Parent:  %s (%s)\n", parent.NodeID, parent.Name)
	} else {
		fmt.Println("Parent:  (root)")
	}
	if len(node.Attrs) > 0 {
		data, err := json.Marshal(node.Attrs)
		if err != nil {
			return fmt.Errorf("marshal attrs: %w", err)
		}
		fmt.Printf("Attrs:   %s\n", data)
	}
	fmt.Printf("Created: %s\n", node.CreatedAt.Format("2006-01-02 15:04:05"))
	return nil
}
