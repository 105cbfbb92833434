// Schema DDL for the arbor SQLite backend.
package sqlite

// Table DDL. The closure table stores one row per reachable
// ancestor/descendant pair, tagged with the path length between them,
// including a depth-0 self row for every node.
const (
	createNodes = `CREATE TABLE nodes (
    node_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    kind TEXT NOT NULL,
    attrs TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createClosure = `CREATE TABLE closure (
    ancestor_id TEXT NOT NULL,
    descendant_id TEXT NOT NULL,
    depth INTEGER NOT NULL,
    PRIMARY KEY (ancestor_id, descendant_id)
) WITHOUT ROWID;`

	createGrants = `CREATE TABLE grants (
    grant_id TEXT PRIMARY KEY,
    subject TEXT NOT NULL,
    role TEXT NOT NULL,
    node_id TEXT NOT NULL,
    created_at TEXT NOT NULL
);`
)

// Index DDL. The closure table is read from both ends: descendant-first
// for ancestor chains, ancestor-first for subtrees.
const (
	idxClosureDescendant = `CREATE INDEX idx_closure_descendant ON closure(descendant_id, depth);`
	idxClosureAncestor   = `CREATE INDEX idx_closure_ancestor ON closure(ancestor_id, depth);`
	idxNodesName         = `CREATE INDEX idx_nodes_name ON nodes(name);`
	idxNodesKind         = `CREATE INDEX idx_nodes_kind ON nodes(kind);`
	idxGrantsSubject     = `CREATE INDEX idx_grants_subject ON grants(subject);`
	idxGrantsNode        = `CREATE INDEX idx_grants_node ON grants(node_id);`
	idxGrantsUnique      = `CREATE UNIQUE INDEX idx_grants_unique ON grants(subject, role, node_id);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createNodes,
	createClosure,
	createGrants,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxClosureDescendant,
	idxClosureAncestor,
	idxNodesName,
	idxNodesKind,
	idxGrantsSubject,
	idxGrantsNode,
	idxGrantsUnique,
}
