package types

import (
	"errors"
	"time"
)

// Node represents one element of the tree. Parentage is not stored on the
// node itself; it is derived entirely from the closure relation.
type Node struct {
	// NodeID is a UUID v7, generated on creation.
	NodeID string `json:"node_id"`

	// Name is a human-readable label (required, non-empty).
	Name string `json:"name"`

	// Kind is a free-form classifier, e.g. "region" or "site".
	Kind string `json:"kind"`

	// Attrs is an application-defined payload. The store treats it as
	// opaque JSON and never interprets its contents.
	Attrs map[string]any `json:"attrs,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Node validation errors.
var (
	ErrInvalidName = errors.New("name must not be empty")
)

// Validate checks that the node is acceptable for insertion.
func (n *Node) Validate() error {
	if n.Name == "" {
		return ErrInvalidName
	}
	return nil
}
