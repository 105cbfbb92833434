// Grant commands: add, revoke, list, and the administered-by query.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var grantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Manage role grants",
}

var grantNode string

var grantAddCmd = &cobra.Command{
	Use:   "add <subject> <role>",
	Short: "Grant a subject a role at a node",
	Long: `Grant add anchors a role at a node; the subject then administers
that node's whole subtree. The superadmin role takes no --node and
covers every node.

Example:
  arbor grant add alice coordinator --node <region-id>
  arbor grant add ops superadmin`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := store.Grant(cmd.Context(), args[0], args[1], grantNode)
		if err != nil {
			return fmt.Errorf("create grant: %w", err)
		}
		fmt.Printf("Created grant: %s\n", id)
		return nil
	},
}

var grantRevokeCmd = &cobra.Command{
	Use:   "revoke <grant-id>",
	Short: "Revoke a grant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := store.Revoke(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("revoke grant: %w", err)
		}
		fmt.Printf("Revoked grant: %s\n", args[0])
		return nil
	},
}

var grantListCmd = &cobra.Command{
	Use:   "list <subject>",
	Short: "List a subject's grants",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		grants, err := store.GrantsFor(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("list grants: %w", err)
		}
		if jsonOutput {
			return printJSON(grants)
		}
		for _, g := range grants {
			if g.NodeID == "" {
				fmt.Printf("%s  %s (all nodes)\n", g.GrantID, g.Role)
			} else {
				fmt.Printf("%s  %s at %s\n", g.GrantID, g.Role, g.NodeID)
			}
		}
		return nil
	},
}

var grantNodesCmd = &cobra.Command{
	Use:   "nodes <subject>",
	Short: "List every node the subject administers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nodes, err := store.AdministeredBy(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("list administered nodes: %w", err)
		}
		return printNodes(nodes)
	},
}

func init() {
	grantAddCmd.Flags().StringVar(&grantNode, "node", "", "node the grant is anchored at")

	grantCmd.AddCommand(grantAddCmd)
	grantCmd.AddCommand(grantRevokeCmd)
	grantCmd.AddCommand(grantListCmd)
	grantCmd.AddCommand(grantNodesCmd)
}
