// Tests for the integrity audit. Each case corrupts the relations with
// raw SQL and expects Verify to name the broken invariant.
package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

func TestVerifyCleanStore(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store passes", func(t *testing.T) {
		b := setupBackend(t)
		require.NoError(t, b.Verify(ctx))
	})

	t.Run("populated store passes", func(t *testing.T) {
		b := setupBackend(t)
		buildOrgTree(t, b)
		require.NoError(t, b.Verify(ctx))
	})
}

func TestVerifyDetectsCorruption(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		corrupt func(t *testing.T, b *Backend, tree orgTree)
	}{
		{
			name: "missing self-edge",
			corrupt: func(t *testing.T, b *Backend, tree orgTree) {
				_, err := b.db.Exec(
					"DELETE FROM closure WHERE ancestor_id = ? AND descendant_id = ?",
					tree.c, tree.c)
				require.NoError(t, err)
			},
		},
		{
			name: "self-edge with nonzero depth",
			corrupt: func(t *testing.T, b *Backend, tree orgTree) {
				_, err := b.db.Exec(
					"UPDATE closure SET depth = 2 WHERE ancestor_id = ? AND descendant_id = ?",
					tree.d, tree.d)
				require.NoError(t, err)
			},
		},
		{
			name: "second parent",
			corrupt: func(t *testing.T, b *Backend, tree orgTree) {
				// Make sibling D a second parent of C.
				_, err := b.db.Exec(
					"INSERT INTO closure (ancestor_id, descendant_id, depth) VALUES (?, ?, 1)",
					tree.d, tree.c)
				require.NoError(t, err)
			},
		},
		{
			name: "dangling descendant",
			corrupt: func(t *testing.T, b *Backend, tree orgTree) {
				_, err := b.db.Exec(
					"INSERT INTO closure (ancestor_id, descendant_id, depth) VALUES (?, 'ghost', 1)",
					tree.a)
				require.NoError(t, err)
			},
		},
		{
			name: "dangling ancestor",
			corrupt: func(t *testing.T, b *Backend, tree orgTree) {
				_, err := b.db.Exec(
					"INSERT INTO closure (ancestor_id, descendant_id, depth) VALUES ('ghost', ?, 3)",
					tree.c)
				require.NoError(t, err)
			},
		},
		{
			name: "wrong depth on a transitive edge",
			corrupt: func(t *testing.T, b *Backend, tree orgTree) {
				_, err := b.db.Exec(
					"UPDATE closure SET depth = 5 WHERE ancestor_id = ? AND descendant_id = ?",
					tree.a, tree.c)
				require.NoError(t, err)
			},
		},
		{
			name: "grant anchored at a missing node",
			corrupt: func(t *testing.T, b *Backend, tree orgTree) {
				_, err := b.db.Exec(
					"INSERT INTO grants (grant_id, subject, role, node_id, created_at) VALUES ('g1', 'alice', 'coordinator', 'ghost', '2026-01-01T00:00:00Z')")
				require.NoError(t, err)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := setupBackend(t)
			tree := buildOrgTree(t, b)
			require.NoError(t, b.Verify(ctx))

			tc.corrupt(t, b, tree)

			err := b.Verify(ctx)
			assert.ErrorIs(t, err, types.ErrIntegrity)
		})
	}
}

func TestParentReportsCorruption(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)
	tree := buildOrgTree(t, b)

	// Give C a second depth-1 ancestor.
	_, err := b.db.Exec(
		"INSERT INTO closure (ancestor_id, descendant_id, depth) VALUES (?, ?, 1)",
		tree.d, tree.c)
	require.NoError(t, err)

	_, err = b.Parent(ctx, tree.c)
	assert.ErrorIs(t, err, types.ErrIntegrity)
}
