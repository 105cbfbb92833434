// Shared helpers for arbor CLI commands.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

// printNode writes one node in the selected output mode.
func printNode(node *types.Node) error {
	if jsonOutput {
		return printJSON(node)
	}
	fmt.Printf("%s  %s (%s)\n", node.NodeID, node.Name, node.Kind)
	return nil
}

// printNodes writes a node list in the selected output mode.
func printNodes(nodes []*types.Node) error {
	if jsonOutput {
		return printJSON(nodes)
	}
	for _, node := range nodes {
		fmt.Printf("%s  %s (%s)\n", node.NodeID, node.Name, node.Kind)
	}
	return nil
}

// printJSON writes any value as indented JSON.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// parseAttrs decodes the --attrs flag value. Empty means no attributes.
func parseAttrs(raw string) (map[string]any, error) {
	if raw == "" {
		return nil, nil
	}
	var attrs map[string]any
	if err := json.Unmarshal([]byte(raw), &attrs); err != nil {
		return nil, fmt.Errorf("invalid --attrs JSON: %w", err)
	}
	return attrs, nil
}
