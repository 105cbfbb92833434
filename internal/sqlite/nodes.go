// Node row access for the SQLite backend. Node rows own identity and the
// attribute payload only; hierarchy lives entirely in the closure table.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

// querier is satisfied by both *sql.DB and *sql.Tx, so row helpers can
// run inside or outside an explicit transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// nodeColumns is the SELECT list shared by every node query.
const nodeColumns = "node_id, name, kind, attrs, created_at, updated_at"

// insertNodeRow writes a new node row. The caller supplies a node with
// NodeID, CreatedAt, and UpdatedAt already set.
func insertNodeRow(ctx context.Context, q querier, node *types.Node) error {
	attrs, err := encodeAttrs(node.Attrs)
	if err != nil {
		return fmt.Errorf("encoding attrs: %w", err)
	}
	_, err = q.ExecContext(ctx,
		"INSERT INTO nodes (node_id, name, kind, attrs, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		node.NodeID, node.Name, node.Kind, attrs,
		node.CreatedAt.Format(time.RFC3339), node.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting node: %w", err)
	}
	return nil
}

// getNodeRow reads one node. Returns ErrNotFound when the ID is absent.
func getNodeRow(ctx context.Context, q querier, nodeID string) (*types.Node, error) {
	row := q.QueryRowContext(ctx,
		"SELECT "+nodeColumns+" FROM nodes WHERE node_id = ?", nodeID)
	node, err := hydrateNode(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting node %s: %w", nodeID, err)
	}
	return node, nil
}

// nodeExists reports whether a node row exists.
func nodeExists(ctx context.Context, q querier, nodeID string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx,
		"SELECT 1 FROM nodes WHERE node_id = ?", nodeID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking node existence: %w", err)
	}
	return true, nil
}

// updateNodeRow replaces name, kind, and attrs, bumping updated_at.
func updateNodeRow(ctx context.Context, q querier, nodeID, name, kind string, attrs map[string]any) error {
	encoded, err := encodeAttrs(attrs)
	if err != nil {
		return fmt.Errorf("encoding attrs: %w", err)
	}
	res, err := q.ExecContext(ctx,
		"UPDATE nodes SET name = ?, kind = ?, attrs = ?, updated_at = ? WHERE node_id = ?",
		name, kind, encoded, time.Now().UTC().Format(time.RFC3339), nodeID)
	if err != nil {
		return fmt.Errorf("updating node: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for hydration.
type rowScanner interface {
	Scan(dest ...any) error
}

// hydrateNode converts a scanned row into a *types.Node.
func hydrateNode(row rowScanner) (*types.Node, error) {
	var n types.Node
	var attrs, createdAt, updatedAt string
	if err := row.Scan(&n.NodeID, &n.Name, &n.Kind, &attrs, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if n.Attrs, err = decodeAttrs(attrs); err != nil {
		return nil, fmt.Errorf("decoding attrs: %w", err)
	}
	if n.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if n.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &n, nil
}

// collectNodes drains rows into a slice of nodes.
func collectNodes(rows *sql.Rows) ([]*types.Node, error) {
	defer rows.Close()

	var nodes []*types.Node
	for rows.Next() {
		node, err := hydrateNode(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating node: %w", err)
		}
		nodes = append(nodes, node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating nodes: %w", err)
	}
	if nodes == nil {
		nodes = []*types.Node{}
	}
	return nodes, nil
}
