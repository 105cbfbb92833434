// Invariant audit for the closure relation. Verify detects corruption
// left behind by a buggy mutation; it reports, never repairs.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

// integrityCheck pairs a detection query with a description of the
// invariant it guards. Each query returns rows only when the invariant
// is broken; the first column identifies the offending node or edge.
type integrityCheck struct {
	name  string
	query string
}

var integrityChecks = []integrityCheck{
	{
		name: "every live node has exactly one self-edge",
		query: `SELECT node_id FROM nodes
			WHERE NOT EXISTS (
				SELECT 1 FROM closure
				WHERE ancestor_id = nodes.node_id
				AND descendant_id = nodes.node_id
				AND depth = 0
			)`,
	},
	{
		name: "self-edges have depth zero",
		query: `SELECT ancestor_id FROM closure
			WHERE ancestor_id = descendant_id AND depth != 0`,
	},
	{
		name: "no node has more than one parent",
		query: `SELECT descendant_id FROM closure
			WHERE depth = 1
			GROUP BY descendant_id
			HAVING COUNT(*) > 1`,
	},
	{
		name: "no edge references a missing ancestor",
		query: `SELECT c.ancestor_id FROM closure c
			LEFT JOIN nodes n ON n.node_id = c.ancestor_id
			WHERE n.node_id IS NULL`,
	},
	{
		name: "no edge references a missing descendant",
		query: `SELECT c.descendant_id FROM closure c
			LEFT JOIN nodes n ON n.node_id = c.descendant_id
			WHERE n.node_id IS NULL`,
	},
	{
		name: "no two nodes are ancestors of each other",
		query: `SELECT a.ancestor_id FROM closure a
			JOIN closure b ON b.ancestor_id = a.descendant_id
				AND b.descendant_id = a.ancestor_id
			WHERE a.depth >= 1 AND b.depth >= 1`,
	},
	{
		// Every proper edge (A, D, k) must continue an edge
		// (A, parent(D), k-1); for k = 1 that forces A to be D's
		// parent itself.
		name: "edge depths agree with the parent chain",
		query: `SELECT c.ancestor_id FROM closure c
			WHERE c.depth >= 1
			AND NOT EXISTS (
				SELECT 1 FROM closure up
				JOIN closure prev ON prev.descendant_id = up.ancestor_id
				WHERE up.descendant_id = c.descendant_id
				AND up.depth = 1
				AND prev.ancestor_id = c.ancestor_id
				AND prev.depth = c.depth - 1
			)`,
	},
	{
		name: "no grant is anchored at a missing node",
		query: `SELECT g.grant_id FROM grants g
			LEFT JOIN nodes n ON n.node_id = g.node_id
			WHERE g.node_id != '' AND n.node_id IS NULL`,
	},
}

// Verify audits the relations against the tree invariants and returns an
// error wrapping ErrIntegrity describing the first violation found.
func (b *Backend) Verify(ctx context.Context) error {
	db, err := b.conn()
	if err != nil {
		return err
	}
	return verify(ctx, db)
}

// verify runs the integrity checks against any querier, so Import can
// audit inside its own transaction before committing.
func verify(ctx context.Context, q querier) error {
	for _, check := range integrityChecks {
		var offender string
		err := q.QueryRowContext(ctx, check.query).Scan(&offender)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return fmt.Errorf("running integrity check %q: %w", check.name, err)
		}
		return fmt.Errorf("%w: %s (first offender %s)",
			types.ErrIntegrity, check.name, offender)
	}
	return nil
}
