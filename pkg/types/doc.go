// Package types defines the Hierarchy interface, entity types, and
// standard errors for the arbor closure-table tree store.
// See docs/ARCHITECTURE.md § Main Interface.
package types
