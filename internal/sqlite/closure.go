// Closure-table maintenance. Every helper here runs inside a transaction
// opened by tree.go; none commits or rolls back on its own.
//
// The closure table holds one row per reachable (ancestor, descendant)
// pair, tagged with path length. Each structural mutation is a bulk
// rewrite: attach copies the parent's ancestor chain, detach deletes the
// rows that cross the subtree boundary, reattach recomputes the cross
// product of the new ancestor chain and the preserved subtree rows. No
// step recurses over individual nodes.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

// attachRoot inserts the self-edge for a node that becomes a root.
func attachRoot(ctx context.Context, q querier, nodeID string) error {
	_, err := q.ExecContext(ctx,
		"INSERT INTO closure (ancestor_id, descendant_id, depth) VALUES (?, ?, 0)",
		nodeID, nodeID)
	if err != nil {
		return fmt.Errorf("inserting self-edge: %w", err)
	}
	return nil
}

// attachUnder inserts the self-edge for nodeID, then makes it inherit the
// parent's full ancestor chain at depth+1. The parent's own self-edge is
// part of that chain, so (parent, node, 1) is produced by the same bulk
// insert.
func attachUnder(ctx context.Context, q querier, nodeID, parentID string) error {
	if err := attachRoot(ctx, q, nodeID); err != nil {
		return err
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO closure (ancestor_id, descendant_id, depth)
		SELECT ancestor_id, ?, depth + 1
		FROM closure
		WHERE descendant_id = ?`,
		nodeID, parentID)
	if err != nil {
		return fmt.Errorf("inheriting ancestor chain: %w", err)
	}
	return nil
}

// detachSubtree deletes every edge whose descendant lies inside the
// subtree rooted at nodeID and whose ancestor lies strictly outside it.
// Edges wholly inside the subtree survive, which is what makes
// reattachment a single bulk insert.
func detachSubtree(ctx context.Context, q querier, nodeID string) error {
	_, err := q.ExecContext(ctx, `
		DELETE FROM closure
		WHERE descendant_id IN (
			SELECT descendant_id FROM closure WHERE ancestor_id = ?
		)
		AND ancestor_id IN (
			SELECT ancestor_id FROM closure WHERE descendant_id = ? AND depth > 0
		)`,
		nodeID, nodeID)
	if err != nil {
		return fmt.Errorf("detaching subtree: %w", err)
	}
	return nil
}

// reattachSubtree joins the detached subtree under newParentID: for every
// ancestor A of the new parent (itself included) and every node D still
// reachable from nodeID through the preserved intra-subtree edges, insert
// (A, D, depth(A, parent) + 1 + depth(node, D)).
//
// The caller must have run detachSubtree first and must have rejected
// cycles; this function writes unconditionally.
func reattachSubtree(ctx context.Context, q querier, nodeID, newParentID string) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO closure (ancestor_id, descendant_id, depth)
		SELECT sup.ancestor_id, sub.descendant_id, sup.depth + sub.depth + 1
		FROM closure AS sup
		JOIN closure AS sub ON sub.ancestor_id = ?
		WHERE sup.descendant_id = ?`,
		nodeID, newParentID)
	if err != nil {
		return fmt.Errorf("reattaching subtree: %w", err)
	}
	return nil
}

// purgeSubtree deletes every edge whose descendant is nodeID or one of
// its proper descendants. Used by cascade delete; after it runs, no edge
// references any node of the subtree.
func purgeSubtree(ctx context.Context, q querier, nodeID string) error {
	_, err := q.ExecContext(ctx, `
		DELETE FROM closure
		WHERE descendant_id IN (
			SELECT descendant_id FROM closure WHERE ancestor_id = ?
		)`,
		nodeID)
	if err != nil {
		return fmt.Errorf("purging subtree: %w", err)
	}
	return nil
}

// promoteChildren detaches each immediate child of nodeID and reattaches
// it under newParentID. With newParentID nil each child becomes a root.
// Finally the node's own edges are removed, leaving it unreferenced.
func promoteChildren(ctx context.Context, q querier, nodeID string, newParentID *string) error {
	children, err := childIDs(ctx, q, nodeID)
	if err != nil {
		return err
	}

	for _, child := range children {
		if err := detachSubtree(ctx, q, child); err != nil {
			return err
		}
		if newParentID != nil {
			if err := reattachSubtree(ctx, q, child, *newParentID); err != nil {
				return err
			}
		}
	}

	// The children are gone from under nodeID, so the only edges left
	// touching it are its own ancestor chain and self-edge.
	_, err = q.ExecContext(ctx,
		"DELETE FROM closure WHERE descendant_id = ? OR ancestor_id = ?",
		nodeID, nodeID)
	if err != nil {
		return fmt.Errorf("removing node edges: %w", err)
	}
	return nil
}

// subtreeIDs returns the IDs of nodeID and all its proper descendants.
func subtreeIDs(ctx context.Context, q querier, nodeID string) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT descendant_id FROM closure WHERE ancestor_id = ?", nodeID)
	if err != nil {
		return nil, fmt.Errorf("listing subtree: %w", err)
	}
	return collectIDs(rows)
}

// childIDs returns the IDs of nodeID's immediate children.
func childIDs(ctx context.Context, q querier, nodeID string) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT descendant_id FROM closure WHERE ancestor_id = ? AND depth = 1 ORDER BY descendant_id",
		nodeID)
	if err != nil {
		return nil, fmt.Errorf("listing children: %w", err)
	}
	return collectIDs(rows)
}

// parentID returns the node's immediate parent ID, or nil for a root.
// Finding more than one parent means the relation is corrupt.
func parentID(ctx context.Context, q querier, nodeID string) (*string, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT ancestor_id FROM closure WHERE descendant_id = ? AND depth = 1", nodeID)
	if err != nil {
		return nil, fmt.Errorf("finding parent: %w", err)
	}
	ids, err := collectIDs(rows)
	if err != nil {
		return nil, err
	}
	switch len(ids) {
	case 0:
		return nil, nil
	case 1:
		return &ids[0], nil
	default:
		return nil, fmt.Errorf("%w: node %s has %d parents",
			types.ErrIntegrity, nodeID, len(ids))
	}
}

// hasDescendant reports whether candidateID lies strictly below nodeID.
func hasDescendant(ctx context.Context, q querier, nodeID, candidateID string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx,
		"SELECT 1 FROM closure WHERE ancestor_id = ? AND descendant_id = ? AND depth >= 1",
		nodeID, candidateID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking descendant: %w", err)
	}
	return true, nil
}

// collectIDs drains a single-column ID result set.
func collectIDs(rows *sql.Rows) ([]string, error) {
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating IDs: %w", err)
	}
	return ids, nil
}
