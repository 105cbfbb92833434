// Read-side queries. Every query is a single non-recursive SELECT joining
// the closure relation to the node rows; none takes locks or opens an
// explicit transaction.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

// Get returns the node with the given ID.
func (b *Backend) Get(ctx context.Context, nodeID string) (*types.Node, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	if nodeID == "" {
		return nil, types.ErrInvalidID
	}
	return getNodeRow(ctx, db, nodeID)
}

// Ancestors returns the node's ancestors within the depth range, nearest
// first. The default range types.Proper excludes the node itself.
func (b *Backend) Ancestors(ctx context.Context, nodeID string, depth types.DepthRange) ([]*types.Node, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	if err := b.requireNode(ctx, db, nodeID); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + prefixedNodeColumns + `
		FROM nodes n
		JOIN closure c ON c.ancestor_id = n.node_id
		WHERE c.descendant_id = ? AND c.depth >= ?`
	args := []any{nodeID, clampMin(depth)}
	if depth.Max > 0 {
		query += " AND c.depth <= ?"
		args = append(args, depth.Max)
	}
	query += " ORDER BY c.depth"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying ancestors: %w", err)
	}
	return collectNodes(rows)
}

// Descendants returns the node's descendants within the depth range,
// ordered by depth then node ID for determinism.
func (b *Backend) Descendants(ctx context.Context, nodeID string, depth types.DepthRange) ([]*types.Node, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	if err := b.requireNode(ctx, db, nodeID); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + prefixedNodeColumns + `
		FROM nodes n
		JOIN closure c ON c.descendant_id = n.node_id
		WHERE c.ancestor_id = ? AND c.depth >= ?`
	args := []any{nodeID, clampMin(depth)}
	if depth.Max > 0 {
		query += " AND c.depth <= ?"
		args = append(args, depth.Max)
	}
	query += " ORDER BY c.depth, n.node_id"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying descendants: %w", err)
	}
	return collectNodes(rows)
}

// Subtree returns the node and all its descendants, the node first.
func (b *Backend) Subtree(ctx context.Context, nodeID string) ([]*types.Node, error) {
	return b.Descendants(ctx, nodeID, types.Whole)
}

// Children returns the node's immediate children.
func (b *Backend) Children(ctx context.Context, nodeID string) ([]*types.Node, error) {
	return b.Descendants(ctx, nodeID, types.Immediate)
}

// Parent returns the node's immediate parent, or (nil, nil) for a root.
// More than one depth-1 ancestor means the relation is corrupt and
// surfaces as ErrIntegrity.
func (b *Backend) Parent(ctx context.Context, nodeID string) (*types.Node, error) {
	parents, err := b.Ancestors(ctx, nodeID, types.Immediate)
	if err != nil {
		return nil, err
	}
	switch len(parents) {
	case 0:
		return nil, nil
	case 1:
		return parents[0], nil
	default:
		return nil, fmt.Errorf("%w: node %s has %d parents",
			types.ErrIntegrity, nodeID, len(parents))
	}
}

// IsRoot reports whether the node has no parent.
func (b *Backend) IsRoot(ctx context.Context, nodeID string) (bool, error) {
	parent, err := b.Parent(ctx, nodeID)
	if err != nil {
		return false, err
	}
	return parent == nil, nil
}

// IsDescendantOf reports whether nodeID lies strictly below ancestorID.
func (b *Backend) IsDescendantOf(ctx context.Context, nodeID, ancestorID string) (bool, error) {
	db, err := b.conn()
	if err != nil {
		return false, err
	}
	if nodeID == "" || ancestorID == "" {
		return false, types.ErrInvalidID
	}
	return hasDescendant(ctx, db, ancestorID, nodeID)
}

// Roots lists all root nodes, ordered by name then node ID.
func (b *Backend) Roots(ctx context.Context) ([]*types.Node, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT `+nodeColumns+`
		FROM nodes
		WHERE NOT EXISTS (
			SELECT 1 FROM closure
			WHERE descendant_id = nodes.node_id AND depth = 1
		)
		ORDER BY name, node_id`)
	if err != nil {
		return nil, fmt.Errorf("querying roots: %w", err)
	}
	return collectNodes(rows)
}

// FirstAncestorOfKind returns the matching ancestor closest to the root,
// or (nil, nil) if no ancestor has the kind.
func (b *Backend) FirstAncestorOfKind(ctx context.Context, nodeID, kind string) (*types.Node, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	if err := b.requireNode(ctx, db, nodeID); err != nil {
		return nil, err
	}

	row := db.QueryRowContext(ctx, `
		SELECT `+prefixedNodeColumns+`
		FROM nodes n
		JOIN closure c ON c.ancestor_id = n.node_id
		WHERE c.descendant_id = ? AND c.depth > 0 AND n.kind = ?
		ORDER BY c.depth DESC
		LIMIT 1`,
		nodeID, kind)
	node, err := hydrateNode(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying ancestor by kind: %w", err)
	}
	return node, nil
}

// FirstDescendantOfKind returns the nearest matching descendant, or
// (nil, nil) if no descendant has the kind.
func (b *Backend) FirstDescendantOfKind(ctx context.Context, nodeID, kind string) (*types.Node, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	if err := b.requireNode(ctx, db, nodeID); err != nil {
		return nil, err
	}

	row := db.QueryRowContext(ctx, `
		SELECT `+prefixedNodeColumns+`
		FROM nodes n
		JOIN closure c ON c.descendant_id = n.node_id
		WHERE c.ancestor_id = ? AND c.depth > 0 AND n.kind = ?
		ORDER BY c.depth, n.node_id
		LIMIT 1`,
		nodeID, kind)
	node, err := hydrateNode(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying descendant by kind: %w", err)
	}
	return node, nil
}

// prefixedNodeColumns is nodeColumns qualified for joins against closure.
const prefixedNodeColumns = "n.node_id, n.name, n.kind, n.attrs, n.created_at, n.updated_at"

// requireNode fails with ErrNotFound when nodeID does not exist, so shape
// queries on absent nodes are an error rather than an empty result.
func (b *Backend) requireNode(ctx context.Context, q querier, nodeID string) error {
	if nodeID == "" {
		return types.ErrInvalidID
	}
	exists, err := nodeExists(ctx, q, nodeID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("node %s: %w", nodeID, types.ErrNotFound)
	}
	return nil
}

// clampMin applies the DepthRange floor: negative minimums read as zero.
func clampMin(depth types.DepthRange) int {
	if depth.Min < 0 {
		return 0
	}
	return depth.Min
}
