// Snapshot export and import. A snapshot is three JSONL files (nodes,
// closure edges, grants) written atomically; import replaces the store
// contents in one transaction and refuses snapshots that break the tree
// invariants.
package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

// Snapshot file names inside the export directory.
const (
	nodesFile  = "nodes.jsonl"
	edgesFile  = "closure.jsonl"
	grantsFile = "grants.jsonl"
)

// Export writes the full store contents as JSONL files into dir.
func (b *Backend) Export(ctx context.Context, dir string) error {
	db, err := b.conn()
	if err != nil {
		return err
	}

	// One transaction so the three files describe a single consistent
	// snapshot even while writers are active.
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr(err)
	}
	defer tx.Rollback()

	nodes, err := exportNodes(ctx, tx)
	if err != nil {
		return err
	}
	edges, err := exportEdges(ctx, tx)
	if err != nil {
		return err
	}
	grants, err := exportGrants(ctx, tx)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return mapErr(err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}
	if err := writeJSONL(filepath.Join(dir, nodesFile), nodes); err != nil {
		return fmt.Errorf("persisting %s: %w", nodesFile, err)
	}
	if err := writeJSONL(filepath.Join(dir, edgesFile), edges); err != nil {
		return fmt.Errorf("persisting %s: %w", edgesFile, err)
	}
	if err := writeJSONL(filepath.Join(dir, grantsFile), grants); err != nil {
		return fmt.Errorf("persisting %s: %w", grantsFile, err)
	}
	return nil
}

// Import replaces the store contents from JSONL files in dir. The whole
// load runs in one transaction and is verified against the tree
// invariants before commit, so a bad snapshot leaves the store untouched.
func (b *Backend) Import(ctx context.Context, dir string) error {
	db, err := b.conn()
	if err != nil {
		return err
	}

	nodeRecs, err := readJSONL(filepath.Join(dir, nodesFile))
	if err != nil {
		return fmt.Errorf("loading %s: %w", nodesFile, err)
	}
	edgeRecs, err := readJSONL(filepath.Join(dir, edgesFile))
	if err != nil {
		return fmt.Errorf("loading %s: %w", edgesFile, err)
	}
	grantRecs, err := readJSONL(filepath.Join(dir, grantsFile))
	if err != nil {
		return fmt.Errorf("loading %s: %w", grantsFile, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr(err)
	}
	defer tx.Rollback()

	for _, table := range []string{"grants", "closure", "nodes"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return mapErr(fmt.Errorf("clearing %s: %w", table, err))
		}
	}

	for _, rec := range nodeRecs {
		var node types.Node
		if err := json.Unmarshal(rec, &node); err != nil {
			return fmt.Errorf("parsing node record: %w", err)
		}
		if node.NodeID == "" {
			return fmt.Errorf("node record without node_id: %w", types.ErrInvalidData)
		}
		if err := insertNodeRow(ctx, tx, &node); err != nil {
			return mapErr(err)
		}
	}

	for _, rec := range edgeRecs {
		var edge types.ClosureEdge
		if err := json.Unmarshal(rec, &edge); err != nil {
			return fmt.Errorf("parsing edge record: %w", err)
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO closure (ancestor_id, descendant_id, depth) VALUES (?, ?, ?)",
			edge.AncestorID, edge.DescendantID, edge.Depth)
		if err != nil {
			return mapErr(fmt.Errorf("inserting edge: %w", err))
		}
	}

	for _, rec := range grantRecs {
		var grant types.Grant
		if err := json.Unmarshal(rec, &grant); err != nil {
			return fmt.Errorf("parsing grant record: %w", err)
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO grants (grant_id, subject, role, node_id, created_at) VALUES (?, ?, ?, ?, ?)",
			grant.GrantID, grant.Subject, grant.Role, grant.NodeID,
			grant.CreatedAt.Format(time.RFC3339))
		if err != nil {
			return mapErr(fmt.Errorf("inserting grant: %w", err))
		}
	}

	if err := verify(ctx, tx); err != nil {
		return fmt.Errorf("rejecting snapshot: %w", err)
	}

	return mapErr(tx.Commit())
}

// exportNodes marshals every node row, ordered by ID for stable output.
func exportNodes(ctx context.Context, q querier) ([]json.RawMessage, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+nodeColumns+" FROM nodes ORDER BY node_id")
	if err != nil {
		return nil, fmt.Errorf("reading nodes: %w", err)
	}
	nodes, err := collectNodes(rows)
	if err != nil {
		return nil, err
	}

	records := make([]json.RawMessage, 0, len(nodes))
	for _, node := range nodes {
		data, err := json.Marshal(node)
		if err != nil {
			return nil, fmt.Errorf("marshaling node: %w", err)
		}
		records = append(records, data)
	}
	return records, nil
}

// exportEdges marshals every closure row, ordered by pair for stable
// output.
func exportEdges(ctx context.Context, q querier) ([]json.RawMessage, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT ancestor_id, descendant_id, depth FROM closure ORDER BY ancestor_id, descendant_id")
	if err != nil {
		return nil, fmt.Errorf("reading closure: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var edge types.ClosureEdge
		if err := rows.Scan(&edge.AncestorID, &edge.DescendantID, &edge.Depth); err != nil {
			return nil, fmt.Errorf("scanning edge: %w", err)
		}
		data, err := json.Marshal(edge)
		if err != nil {
			return nil, fmt.Errorf("marshaling edge: %w", err)
		}
		records = append(records, data)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating closure: %w", err)
	}
	return records, nil
}

// exportGrants marshals every grant row.
func exportGrants(ctx context.Context, q querier) ([]json.RawMessage, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT grant_id, subject, role, node_id, created_at FROM grants ORDER BY grant_id")
	if err != nil {
		return nil, fmt.Errorf("reading grants: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		grant, err := hydrateGrant(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating grant: %w", err)
		}
		data, err := json.Marshal(grant)
		if err != nil {
			return nil, fmt.Errorf("marshaling grant: %w", err)
		}
		records = append(records, data)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating grants: %w", err)
	}
	return records, nil
}
