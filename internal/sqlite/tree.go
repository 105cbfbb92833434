// Structural mutations. Each operation opens one immediate transaction,
// checks its preconditions before any write, and commits or rolls back as
// a unit, so readers never see a partially rewritten closure relation.
package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

// Insert creates a node. With parentID nil the node becomes a new root;
// otherwise it is attached under the given parent and inherits the
// parent's full ancestor chain at depth+1. Returns the new node's ID.
func (b *Backend) Insert(ctx context.Context, parentID *string, node *types.Node) (string, error) {
	db, err := b.conn()
	if err != nil {
		return "", err
	}
	if node == nil {
		return "", types.ErrInvalidData
	}
	if err := node.Validate(); err != nil {
		return "", err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", mapErr(err)
	}
	defer tx.Rollback()

	if parentID != nil {
		exists, err := nodeExists(ctx, tx, *parentID)
		if err != nil {
			return "", mapErr(err)
		}
		if !exists {
			return "", fmt.Errorf("parent %s: %w", *parentID, types.ErrNotFound)
		}
	}

	now := time.Now().UTC()
	node.NodeID = generateUUID()
	node.CreatedAt = now
	node.UpdatedAt = now

	if err := insertNodeRow(ctx, tx, node); err != nil {
		return "", mapErr(err)
	}

	if parentID == nil {
		err = attachRoot(ctx, tx, node.NodeID)
	} else {
		err = attachUnder(ctx, tx, node.NodeID, *parentID)
	}
	if err != nil {
		return "", mapErr(err)
	}

	if err := tx.Commit(); err != nil {
		return "", mapErr(err)
	}
	return node.NodeID, nil
}

// Move relocates the subtree rooted at nodeID under newParentID. Fails
// with ErrInvalidMove when the target is the node itself or one of its
// descendants; the cycle check is a single closure read, done before any
// write.
func (b *Backend) Move(ctx context.Context, nodeID, newParentID string) error {
	db, err := b.conn()
	if err != nil {
		return err
	}
	if nodeID == "" || newParentID == "" {
		return types.ErrInvalidID
	}
	if nodeID == newParentID {
		return fmt.Errorf("node %s: %w", nodeID, types.ErrInvalidMove)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr(err)
	}
	defer tx.Rollback()

	for _, id := range []string{nodeID, newParentID} {
		exists, err := nodeExists(ctx, tx, id)
		if err != nil {
			return mapErr(err)
		}
		if !exists {
			return fmt.Errorf("node %s: %w", id, types.ErrNotFound)
		}
	}

	descendant, err := hasDescendant(ctx, tx, nodeID, newParentID)
	if err != nil {
		return mapErr(err)
	}
	if descendant {
		return fmt.Errorf("parent %s is below node %s: %w",
			newParentID, nodeID, types.ErrInvalidMove)
	}

	if err := detachSubtree(ctx, tx, nodeID); err != nil {
		return mapErr(err)
	}
	if err := reattachSubtree(ctx, tx, nodeID, newParentID); err != nil {
		return mapErr(err)
	}

	return mapErr(tx.Commit())
}

// Delete removes a node. With cascade true the node's whole subtree is
// purged: closure edges first, then grants, then the node rows. With
// cascade false the children are promoted to the node's former parent;
// deleting a root this way turns each child into a new root.
func (b *Backend) Delete(ctx context.Context, nodeID string, cascade bool) error {
	db, err := b.conn()
	if err != nil {
		return err
	}
	if nodeID == "" {
		return types.ErrInvalidID
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr(err)
	}
	defer tx.Rollback()

	exists, err := nodeExists(ctx, tx, nodeID)
	if err != nil {
		return mapErr(err)
	}
	if !exists {
		return fmt.Errorf("node %s: %w", nodeID, types.ErrNotFound)
	}

	var doomed []string
	if cascade {
		// Collect the subtree before purging; afterwards the closure
		// table no longer knows its membership.
		doomed, err = subtreeIDs(ctx, tx, nodeID)
		if err != nil {
			return mapErr(err)
		}
		if err := purgeSubtree(ctx, tx, nodeID); err != nil {
			return mapErr(err)
		}
	} else {
		parent, err := parentID(ctx, tx, nodeID)
		if err != nil {
			return mapErr(err)
		}
		if err := promoteChildren(ctx, tx, nodeID, parent); err != nil {
			return mapErr(err)
		}
		doomed = []string{nodeID}
	}

	if err := removeNodeRows(ctx, tx, doomed); err != nil {
		return mapErr(err)
	}

	return mapErr(tx.Commit())
}

// SetAttrs replaces the node's name, kind, and attribute payload without
// touching its position in the tree.
func (b *Backend) SetAttrs(ctx context.Context, nodeID, name, kind string, attrs map[string]any) error {
	db, err := b.conn()
	if err != nil {
		return err
	}
	if nodeID == "" {
		return types.ErrInvalidID
	}
	if name == "" {
		return types.ErrInvalidName
	}
	return mapErr(updateNodeRow(ctx, db, nodeID, name, kind, attrs))
}

// removeNodeRows deletes node rows and any grants anchored at them.
func removeNodeRows(ctx context.Context, q querier, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	if _, err := q.ExecContext(ctx,
		"DELETE FROM grants WHERE node_id IN ("+placeholders+")", args...); err != nil {
		return fmt.Errorf("deleting grants: %w", err)
	}
	if _, err := q.ExecContext(ctx,
		"DELETE FROM nodes WHERE node_id IN ("+placeholders+")", args...); err != nil {
		return fmt.Errorf("deleting nodes: %w", err)
	}
	return nil
}
