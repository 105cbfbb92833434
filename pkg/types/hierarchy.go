package types

import (
	"context"
	"errors"
)

// Hierarchy is the backend-agnostic interface to the tree store. Callers
// attach to a backend, run operations, and detach when done.
//
// Mutating operations (Insert, Move, Delete, SetAttrs, Grant, Revoke,
// Import) each run inside a single storage transaction: preconditions are
// checked before any write, and any failure rolls the whole operation
// back. Read operations see only committed state.
type Hierarchy interface {
	// Attach connects the store to the backend described by config.
	// Creates the DataDir if it does not exist.
	// Returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls
	// succeed. After Detach, operations return ErrDetached.
	Detach() error

	// Insert creates a node. With parentID nil the node becomes a new
	// root; otherwise it is attached under the given parent and
	// inherits the parent's full ancestor chain. Returns the new
	// node's ID.
	Insert(ctx context.Context, parentID *string, node *Node) (string, error)

	// Move relocates the subtree rooted at nodeID under newParentID.
	// Returns ErrInvalidMove when newParentID is the node itself or
	// one of its descendants.
	Move(ctx context.Context, nodeID, newParentID string) error

	// Delete removes a node. With cascade true the whole subtree is
	// removed. With cascade false the node's children are promoted to
	// its former parent (or become roots when the node was a root).
	Delete(ctx context.Context, nodeID string, cascade bool) error

	// SetAttrs replaces the node's name, kind, and attribute payload.
	// Hierarchy position is unaffected.
	SetAttrs(ctx context.Context, nodeID, name, kind string, attrs map[string]any) error

	// Get returns the node with the given ID.
	Get(ctx context.Context, nodeID string) (*Node, error)

	// Ancestors returns the node's ancestors within the depth range,
	// nearest first. The default range Proper excludes the node itself.
	Ancestors(ctx context.Context, nodeID string, depth DepthRange) ([]*Node, error)

	// Descendants returns the node's descendants within the depth
	// range, ordered by depth then node ID.
	Descendants(ctx context.Context, nodeID string, depth DepthRange) ([]*Node, error)

	// Subtree returns the node and all its descendants, the node first.
	Subtree(ctx context.Context, nodeID string) ([]*Node, error)

	// Children returns the node's immediate children.
	Children(ctx context.Context, nodeID string) ([]*Node, error)

	// Parent returns the node's immediate parent, or (nil, nil) for a
	// root node.
	Parent(ctx context.Context, nodeID string) (*Node, error)

	// IsRoot reports whether the node has no parent.
	IsRoot(ctx context.Context, nodeID string) (bool, error)

	// IsDescendantOf reports whether nodeID lies strictly below
	// ancestorID.
	IsDescendantOf(ctx context.Context, nodeID, ancestorID string) (bool, error)

	// Roots lists all root nodes, ordered by name.
	Roots(ctx context.Context) ([]*Node, error)

	// FirstAncestorOfKind returns the matching ancestor closest to the
	// root, or (nil, nil) if none matches.
	FirstAncestorOfKind(ctx context.Context, nodeID, kind string) (*Node, error)

	// FirstDescendantOfKind returns the nearest matching descendant,
	// or (nil, nil) if none matches.
	FirstDescendantOfKind(ctx context.Context, nodeID, kind string) (*Node, error)

	// Grant records that subject holds role at nodeID. For
	// RoleSuperadmin the nodeID must be empty. Returns the grant ID.
	Grant(ctx context.Context, subject, role, nodeID string) (string, error)

	// Revoke removes a grant by ID.
	Revoke(ctx context.Context, grantID string) error

	// GrantsFor lists the subject's grants, newest first.
	GrantsFor(ctx context.Context, subject string) ([]*Grant, error)

	// AdministeredBy returns every node the subject administers: the
	// union of the subtrees of all granted nodes, deduplicated and
	// ordered by name. Superadmins administer every node.
	AdministeredBy(ctx context.Context, subject string) ([]*Node, error)

	// Verify audits the closure relation against the tree invariants
	// and returns an error wrapping ErrIntegrity describing the first
	// violation found. It never repairs.
	Verify(ctx context.Context) error

	// Export writes nodes, closure edges, and grants as JSONL files
	// into dir.
	Export(ctx context.Context, dir string) error

	// Import replaces the store contents from JSONL files in dir,
	// verifying invariants before commit.
	Import(ctx context.Context, dir string) error
}

// Lifecycle errors.
var (
	ErrDetached        = errors.New("hierarchy is detached")
	ErrAlreadyAttached = errors.New("hierarchy is already attached")
)

// Operation errors.
var (
	ErrNotFound    = errors.New("node not found")
	ErrInvalidID   = errors.New("invalid ID")
	ErrInvalidData = errors.New("invalid entity data")

	// ErrInvalidMove is returned when a move would make a node its own
	// ancestor.
	ErrInvalidMove = errors.New("move would create a cycle")

	// ErrContention is returned when a mutating operation could not
	// acquire the database within the configured wait. The operation
	// has been rolled back and is safe to retry.
	ErrContention = errors.New("storage contention, retry")

	// ErrIntegrity is returned when a read finds the closure relation
	// in a state that violates the tree invariants. This indicates a
	// bug in a prior mutation and is not silently repaired.
	ErrIntegrity = errors.New("closure relation integrity violation")
)
