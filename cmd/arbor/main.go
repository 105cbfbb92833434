// Package main provides the arbor CLI, a command-line front end for the
// closure-table tree store.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/arbor/pkg/sqlite"
	"github.com/mesh-intelligence/arbor/pkg/types"
)

var (
	// Global flag values.
	configDir  string
	dataDir    string
	jsonOutput bool

	// store is the attached Hierarchy, initialized on startup.
	store types.Hierarchy
)

var rootCmd = &cobra.Command{
	Use:   "arbor",
	Short: "Arbor maintains hierarchical data in a closure table",
	Long: `Arbor stores a rooted tree in SQLite using a closure table, so any
subtree, ancestor chain, or depth-bounded slice is a single query.
Nodes carry a name, a kind, and an opaque attribute payload; roles can
be granted per node and extend to the node's whole subtree.`,
	SilenceUsage:       true,
	PersistentPreRunE:  attachStore,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return detachStore() },
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default: .arbor-db)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(rootsCmd)
	rootCmd.AddCommand(ancestorsCmd)
	rootCmd.AddCommand(descendantsCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(grantCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

// attachStore loads config and attaches the SQLite backend.
func attachStore(cmd *cobra.Command, args []string) error {
	// Version needs no storage.
	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	backend := sqlite.NewBackend()
	if err := backend.Attach(cfg); err != nil {
		return fmt.Errorf("attach backend: %w", err)
	}

	store = backend
	return nil
}

// detachStore releases backend resources.
func detachStore() error {
	if store != nil {
		return store.Detach()
	}
	return nil
}
