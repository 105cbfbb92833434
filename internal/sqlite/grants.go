// Role grants. A grant anchors a subject's role at one node; the subject
// then administers that node's whole subtree. Superadmin grants are not
// anchored and cover every node.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

// Grant records that subject holds role at nodeID. For RoleSuperadmin the
// nodeID must be empty; for every other role the node must exist.
// Returns the grant ID.
func (b *Backend) Grant(ctx context.Context, subject, role, nodeID string) (string, error) {
	db, err := b.conn()
	if err != nil {
		return "", err
	}
	if subject == "" || role == "" {
		return "", types.ErrInvalidData
	}
	if role == types.RoleSuperadmin {
		if nodeID != "" {
			return "", fmt.Errorf("superadmin grants are not anchored at a node: %w", types.ErrInvalidData)
		}
	} else if nodeID == "" {
		return "", types.ErrInvalidID
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", mapErr(err)
	}
	defer tx.Rollback()

	if nodeID != "" {
		exists, err := nodeExists(ctx, tx, nodeID)
		if err != nil {
			return "", mapErr(err)
		}
		if !exists {
			return "", fmt.Errorf("node %s: %w", nodeID, types.ErrNotFound)
		}
	}

	// The same (subject, role, node) triple is granted at most once.
	var dup string
	err = tx.QueryRowContext(ctx,
		"SELECT grant_id FROM grants WHERE subject = ? AND role = ? AND node_id = ?",
		subject, role, nodeID).Scan(&dup)
	if err == nil {
		return dup, tx.Commit()
	}
	if err != sql.ErrNoRows {
		return "", mapErr(fmt.Errorf("checking grant uniqueness: %w", err))
	}

	grantID := generateUUID()
	_, err = tx.ExecContext(ctx,
		"INSERT INTO grants (grant_id, subject, role, node_id, created_at) VALUES (?, ?, ?, ?, ?)",
		grantID, subject, role, nodeID, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", mapErr(fmt.Errorf("inserting grant: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return "", mapErr(err)
	}
	return grantID, nil
}

// Revoke removes a grant by ID. Returns ErrNotFound when absent.
func (b *Backend) Revoke(ctx context.Context, grantID string) error {
	db, err := b.conn()
	if err != nil {
		return err
	}
	if grantID == "" {
		return types.ErrInvalidID
	}

	res, err := db.ExecContext(ctx, "DELETE FROM grants WHERE grant_id = ?", grantID)
	if err != nil {
		return mapErr(fmt.Errorf("deleting grant: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("grant %s: %w", grantID, types.ErrNotFound)
	}
	return nil
}

// GrantsFor lists the subject's grants, newest first.
func (b *Backend) GrantsFor(ctx context.Context, subject string) ([]*types.Grant, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	if subject == "" {
		return nil, types.ErrInvalidData
	}

	rows, err := db.QueryContext(ctx, `
		SELECT grant_id, subject, role, node_id, created_at
		FROM grants
		WHERE subject = ?
		ORDER BY created_at DESC, grant_id`,
		subject)
	if err != nil {
		return nil, fmt.Errorf("querying grants: %w", err)
	}
	defer rows.Close()

	var grants []*types.Grant
	for rows.Next() {
		grant, err := hydrateGrant(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating grant: %w", err)
		}
		grants = append(grants, grant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating grants: %w", err)
	}
	if grants == nil {
		grants = []*types.Grant{}
	}
	return grants, nil
}

// AdministeredBy returns every node the subject administers: the union of
// the subtrees of all granted nodes, deduplicated and ordered by name.
// A subject holding a superadmin grant administers every node.
func (b *Backend) AdministeredBy(ctx context.Context, subject string) ([]*types.Node, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	if subject == "" {
		return nil, types.ErrInvalidData
	}

	var one int
	err = db.QueryRowContext(ctx,
		"SELECT 1 FROM grants WHERE subject = ? AND role = ? LIMIT 1",
		subject, types.RoleSuperadmin).Scan(&one)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("checking superadmin: %w", err)
	}
	if err == nil {
		rows, err := db.QueryContext(ctx,
			"SELECT "+nodeColumns+" FROM nodes ORDER BY name, node_id")
		if err != nil {
			return nil, fmt.Errorf("querying all nodes: %w", err)
		}
		return collectNodes(rows)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT DISTINCT `+prefixedNodeColumns+`
		FROM nodes n
		JOIN closure c ON c.descendant_id = n.node_id
		JOIN grants g ON g.node_id = c.ancestor_id
		WHERE g.subject = ?
		ORDER BY n.name, n.node_id`,
		subject)
	if err != nil {
		return nil, fmt.Errorf("querying administered nodes: %w", err)
	}
	return collectNodes(rows)
}

// hydrateGrant converts a scanned grants row into a *types.Grant.
func hydrateGrant(row rowScanner) (*types.Grant, error) {
	var g types.Grant
	var createdAt string
	if err := row.Scan(&g.GrantID, &g.Subject, &g.Role, &g.NodeID, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if g.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &g, nil
}
